package cache_rules

import (
	"time"

	"go.uber.org/zap"

	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/models"
)

// CacheConfig implements the CacheRulesConfig interface
type CacheConfig struct {
	config *CacheRulesConfig
	logger *zap.Logger
}

// Ensure CacheConfig implements the CacheRulesConfig interface
var _ interfaces.CacheRulesConfig = (*CacheConfig)(nil)

// NewCacheConfig creates a new CacheConfig instance
func NewCacheConfig(config *CacheRulesConfig, logger *zap.Logger) *CacheConfig {
	if config == nil {
		panic("config cannot be nil")
	}
	return &CacheConfig{
		config: config,
		logger: logger,
	}
}

// GetTtlForCacheType implements CacheRulesConfig interface
func (cr *CacheConfig) GetTtlForCacheType(resource string, cacheType models.CacheType) time.Duration {
	if cacheType == models.CacheTypeNone {
		return 0
	}

	if len(cr.config.TTLDefaults) == 0 {
		return getFallbackTTL(cacheType)
	}

	if resource != "" {
		if ttl := cr.lookupTTL(resource, cacheType); ttl > 0 {
			return ttl
		}
	}

	return cr.lookupTTL(DefaultKey, cacheType)
}

// GetStaleTTL implements CacheRulesConfig interface
func (cr *CacheConfig) GetStaleTTL() time.Duration {
	return cr.config.StaleTTL
}

// GetRuleForResource implements CacheRulesConfig interface.
// Resources without a rule use the "default" rule, or bypass caching when none exists.
func (cr *CacheConfig) GetRuleForResource(resource string) (models.CacheType, models.Strategy) {
	if resource == "" {
		if cr.logger != nil {
			cr.logger.Warn("Empty resource provided, caching disabled")
		}
		return models.CacheTypeNone, models.StrategyNetworkFirst
	}

	rule, exists := cr.config.CacheRules[resource]
	if !exists {
		rule, exists = cr.config.CacheRules[DefaultKey]
	}
	if !exists {
		if cr.logger != nil {
			cr.logger.Debug("Resource not found in cache rules, caching disabled", zap.String("resource", resource))
		}
		return models.CacheTypeNone, models.StrategyNetworkFirst
	}

	strategy := rule.Strategy
	if strategy == "" {
		strategy = models.StrategyCacheFirst
	}
	return rule.CacheType, strategy
}

// GetAllResources returns all resources named in the cache rules
func (cr *CacheConfig) GetAllResources() []string {
	resources := make([]string, 0, len(cr.config.CacheRules))
	for resource := range cr.config.CacheRules {
		if resource != DefaultKey {
			resources = append(resources, resource)
		}
	}
	return resources
}

func (cr *CacheConfig) lookupTTL(key string, cacheType models.CacheType) time.Duration {
	ttlDefaults, ok := cr.config.TTLDefaults[key]
	if !ok {
		return 0
	}
	return ttlDefaults[cacheType]
}

// getFallbackTTL provides TTL values when no ttl_defaults are configured
func getFallbackTTL(cacheType models.CacheType) time.Duration {
	switch cacheType {
	case models.CacheTypePermanent:
		return 24 * time.Hour
	case models.CacheTypeShort:
		return 5 * time.Minute
	case models.CacheTypeMinimal:
		return 30 * time.Second
	default:
		return 0
	}
}
