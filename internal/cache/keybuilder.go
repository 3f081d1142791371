package cache

import (
	"errors"
	"fmt"
	"strings"

	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/models"
)

// KeyPrefix namespaces every key owned by this service
const KeyPrefix = "airtable"

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// ListKey creates a cache key for one page of a resource.
// The params are encoded in sorted query form so equal params give equal keys.
func (kb *KeyBuilderImpl) ListKey(resource string, params models.ListParams) (string, error) {
	if err := validateSegment("resource", resource); err != nil {
		return "", err
	}

	// airtable:<resource>:list:<encoded params>
	return fmt.Sprintf("%s:%s:list:%s", KeyPrefix, resource, params.Query().Encode()), nil
}

// RecordKey creates a cache key for a single record
func (kb *KeyBuilderImpl) RecordKey(resource, id string) (string, error) {
	if err := validateSegment("resource", resource); err != nil {
		return "", err
	}
	if err := validateSegment("record id", id); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s:%s:record:%s", KeyPrefix, resource, id), nil
}

// ResourcePrefix returns the prefix shared by all keys of a resource
func ResourcePrefix(resource string) string {
	return fmt.Sprintf("%s:%s:", KeyPrefix, resource)
}

func validateSegment(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	if strings.Contains(value, ":") {
		return errors.New(name + " cannot contain ':'")
	}
	return nil
}
