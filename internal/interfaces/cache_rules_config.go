package interfaces

import (
	"time"

	"go-content-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache_rules_config.go -destination=mock/cache_rules_config.go

// CacheRulesConfig defines the interface for reading the cache rules
type CacheRulesConfig interface {
	// GetRuleForResource returns the cache type and strategy configured for a resource
	GetRuleForResource(resource string) (models.CacheType, models.Strategy)
	// GetTtlForCacheType returns the TTL of a cache type, resource overrides first
	GetTtlForCacheType(resource string, cacheType models.CacheType) time.Duration
	// GetStaleTTL returns how long expired entries may still be served when the upstream fails
	GetStaleTTL() time.Duration
}
