package noop

import (
	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/models"
)

// Ensure NoOpStore implements interfaces.Store
var _ interfaces.Store = (*NoOpStore)(nil)

// NoOpStore stands in for a disabled tier
type NoOpStore struct{}

// NewNoOpStore creates a new no-operation store
func NewNoOpStore() *NoOpStore {
	return &NoOpStore{}
}

// Get always misses
func (n *NoOpStore) Get(string) (*models.StoreEntry, bool) { return nil, false }

// GetStale always misses
func (n *NoOpStore) GetStale(string) (*models.StoreEntry, bool) { return nil, false }

// Set does nothing
func (n *NoOpStore) Set(string, []byte, models.TTL) {}

// Delete does nothing
func (n *NoOpStore) Delete(string) {}

// DeleteMatching removes nothing
func (n *NoOpStore) DeleteMatching(func(key string) bool) int { return 0 }
