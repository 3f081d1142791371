package interfaces

import (
	"go-content-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Store defines the contract for byte-level shared cache tiers
type Store interface {
	Get(key string) (*models.StoreEntry, bool)      // returns fresh entry and found flag
	GetStale(key string) (*models.StoreEntry, bool) // stale-if-error, returns entry and found flag
	Set(key string, val []byte, ttl models.TTL)
	Delete(key string)
	DeleteMatching(match func(key string) bool) int
}
