package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a process local key value cache
type Cache interface {
	// Get returns the value and whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)
	// Set stores a value, an expiration of 0 uses the configured default
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}

const (
	PrefixPlan         = "plan:v1:"
	PrefixPlanCatalog  = "plan_catalog:v1:"
	PrefixFeatureFlag  = "feature_flag:v1:"
	PrefixTenant       = "tenant:v1:"
	PrefixSession      = "session:v1:"
	PrefixWhatsAppRate = "whatsapp:rate:"
)

// GenerateKey joins a prefix and parameters with colons
func GenerateKey(prefix string, params ...interface{}) string {
	parts := make([]string, len(params)+1)
	parts[0] = strings.TrimSuffix(prefix, ":")

	for i, param := range params {
		parts[i+1] = fmt.Sprintf("%v", param)
	}

	return strings.Join(parts, ":")
}
