package cache_rules

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-content-cache/internal/models"
)

// LoadCacheRulesConfig loads cache rules from a YAML file and returns a config reader
func LoadCacheRulesConfig(rulesPath string, logger *zap.Logger) (*CacheConfig, error) {
	logger.Info("Loading cache rules config", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache rules file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config CacheRulesConfig
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML cache rules: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("cache rules validation failed: %w", err)
	}

	logger.Info("Cache rules config loaded successfully", zap.Int("rules", len(config.CacheRules)))

	return NewCacheConfig(&config, logger), nil
}

// validateConfig validates the cache rules configuration structure
func validateConfig(config *CacheRulesConfig) error {
	if len(config.TTLDefaults) == 0 {
		return fmt.Errorf("missing ttl_defaults section")
	}

	if len(config.CacheRules) == 0 {
		return fmt.Errorf("missing cache_rules section")
	}

	if _, ok := config.TTLDefaults[DefaultKey]; !ok {
		return fmt.Errorf("missing ttl_defaults.default section")
	}

	if config.StaleTTL < 0 {
		return fmt.Errorf("stale_ttl cannot be negative")
	}

	for resource, rule := range config.CacheRules {
		if rule.CacheType == "" {
			return fmt.Errorf("cache rule %q has no cache_type", resource)
		}
		if rule.CacheType == models.CacheTypeNone {
			continue
		}
		if config.TTLDefaults[DefaultKey][rule.CacheType] <= 0 && config.TTLDefaults[resource][rule.CacheType] <= 0 {
			return fmt.Errorf("cache rule %q uses cache type %q without a TTL", resource, rule.CacheType)
		}
	}

	return nil
}
