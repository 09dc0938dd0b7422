package idempotency

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	g := NewGenerator()

	a := g.GenerateKey(ScopeGatewaySubscription, map[string]interface{}{"tenant_id": "tenant_1", "subscription_id": "subs_1"})
	b := g.GenerateKey(ScopeGatewaySubscription, map[string]interface{}{"subscription_id": "subs_1", "tenant_id": "tenant_1"})
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "gateway_subscription-"))

	other := g.GenerateKey(ScopeGatewaySubscription, map[string]interface{}{"tenant_id": "tenant_1", "subscription_id": "subs_2"})
	assert.NotEqual(t, a, other)

	customer := g.GenerateKey(ScopeGatewayCustomer, map[string]interface{}{"tenant_id": "tenant_1", "subscription_id": "subs_1"})
	assert.NotEqual(t, a, customer)
}
