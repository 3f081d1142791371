package cache_rules

import (
	"go.uber.org/zap"

	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/models"
)

// Classifier implements the CacheRulesClassifier interface
type Classifier struct {
	logger    *zap.Logger
	configTTL interfaces.CacheRulesConfig
}

// Ensure Classifier implements the CacheRulesClassifier interface
var _ interfaces.CacheRulesClassifier = (*Classifier)(nil)

// NewClassifier creates a new Classifier instance
func NewClassifier(logger *zap.Logger, configTTL interfaces.CacheRulesConfig) *Classifier {
	return &Classifier{
		logger:    logger,
		configTTL: configTTL,
	}
}

// GetCacheInfo implements CacheRulesClassifier interface
func (c *Classifier) GetCacheInfo(resource string) models.CacheInfo {
	cacheType, strategy := c.configTTL.GetRuleForResource(resource)
	bypass := models.CacheInfo{CacheType: models.CacheTypeNone, Strategy: models.StrategyNetworkFirst}

	if cacheType == models.CacheTypeNone {
		return bypass
	}

	ttl := c.configTTL.GetTtlForCacheType(resource, cacheType)
	if ttl == 0 {
		if c.logger != nil {
			c.logger.Debug("No TTL for cache type, caching disabled",
				zap.String("resource", resource),
				zap.String("cache_type", string(cacheType)))
		}
		return bypass
	}

	return models.CacheInfo{
		TTL:       ttl,
		CacheType: cacheType,
		Strategy:  strategy,
		StaleTTL:  c.configTTL.GetStaleTTL(),
	}
}
