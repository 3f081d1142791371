package interfaces

import (
	"go-content-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache_rules_classifier.go -destination=mock/cache_rules_classifier.go

// CacheRulesClassifier defines the interface for classifying resources and getting cache info
type CacheRulesClassifier interface {
	// GetCacheInfo returns TTL, cache type and strategy for a resource
	GetCacheInfo(resource string) models.CacheInfo
}
