package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Scope names the gateway operation a key protects
type Scope string

const (
	ScopeGatewaySubscription Scope = "gateway_subscription"
	ScopeGatewayCustomer     Scope = "gateway_customer"
)

// Generator derives stable keys so that retried gateway calls are applied once
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateKey hashes scope and params; params order does not matter
func (g *Generator) GenerateKey(scope Scope, params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(scope))
	for _, k := range keys {
		fmt.Fprintf(&b, ":%s=%v", k, params[k])
	}

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s-%s", scope, hex.EncodeToString(hash[:8]))
}
