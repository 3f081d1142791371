package cache_rules

import (
	"time"

	"go-content-cache/internal/models"
)

// TTLDefaults represents TTL settings for different cache types
type TTLDefaults map[models.CacheType]time.Duration

// ResourceRule binds a resource to a cache type and serving strategy
type ResourceRule struct {
	CacheType models.CacheType `yaml:"cache_type"`
	Strategy  models.Strategy  `yaml:"strategy"`
}

// CacheRulesConfig represents the cache rules configuration.
// TTLDefaults is keyed by resource name, with "default" as fallback.
type CacheRulesConfig struct {
	TTLDefaults map[string]TTLDefaults  `yaml:"ttl_defaults"`
	StaleTTL    time.Duration           `yaml:"stale_ttl"`
	CacheRules  map[string]ResourceRule `yaml:"cache_rules"`
}

// DefaultKey names the fallback entry of ttl_defaults and cache_rules
const DefaultKey = "default"
