package models

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheType represents how long a resource may be cached
type CacheType string

const (
	CacheTypePermanent CacheType = "permanent"
	CacheTypeShort     CacheType = "short"
	CacheTypeMinimal   CacheType = "minimal"
	CacheTypeNone      CacheType = "none"
)

// UnmarshalYAML implements custom YAML unmarshaling for CacheType
func (c *CacheType) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "permanent", "short", "minimal", "none":
		*c = CacheType(str)
		return nil
	default:
		return fmt.Errorf("invalid cache type '%s': must be one of 'permanent', 'short', 'minimal', 'none'", str)
	}
}

// Strategy names the caching strategy used to serve a resource
type Strategy string

const (
	StrategyCacheFirst           Strategy = "cache-first"
	StrategyNetworkFirst         Strategy = "network-first"
	StrategyStaleWhileRevalidate Strategy = "stale-while-revalidate"
)

// UnmarshalYAML implements custom YAML unmarshaling for Strategy
func (s *Strategy) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch Strategy(str) {
	case StrategyCacheFirst, StrategyNetworkFirst, StrategyStaleWhileRevalidate:
		*s = Strategy(str)
		return nil
	default:
		return fmt.Errorf("invalid strategy '%s': must be one of 'cache-first', 'network-first', 'stale-while-revalidate'", str)
	}
}

// CacheInfo contains cache configuration information for a resource
type CacheInfo struct {
	TTL       time.Duration `json:"ttl"`
	CacheType CacheType     `json:"cache_type"`
	Strategy  Strategy      `json:"strategy"`
	StaleTTL  time.Duration `json:"stale_ttl"`
}

// Bypass reports whether caching is disabled for the resource
func (ci CacheInfo) Bypass() bool {
	return ci.CacheType == CacheTypeNone || ci.TTL <= 0
}

// StoreTTL returns the fresh and stale windows used by byte-level stores
func (ci CacheInfo) StoreTTL() TTL {
	return TTL{Fresh: ci.TTL, Stale: ci.StaleTTL}
}

// TTL represents shared store time-to-live configuration
type TTL struct {
	Fresh time.Duration // How long the data is considered fresh
	Stale time.Duration // How long stale data can be served (stale-if-error)
}

// CacheStatus describes how a response was served
type CacheStatus string

const (
	CacheStatusHit    CacheStatus = "HIT"
	CacheStatusMiss   CacheStatus = "MISS"
	CacheStatusStale  CacheStatus = "STALE"
	CacheStatusBypass CacheStatus = "BYPASS"
)
