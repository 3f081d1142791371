package interfaces

import "go-content-cache/internal/models"

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes requests into deterministic cache keys
type KeyBuilder interface {
	// ListKey builds the key of one page of a resource
	ListKey(resource string, params models.ListParams) (string, error)
	// RecordKey builds the key of a single record
	RecordKey(resource, id string) (string, error)
}
