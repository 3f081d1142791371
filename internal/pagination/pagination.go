// Package pagination merges cursor-paginated pages into one deduplicated list.
package pagination

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultPageSize is used when a State carries no page size
const DefaultPageSize = 30

// State is the cursor position between sequential fetches.
// An empty Offset after a fetch means there are no more pages.
type State struct {
	Offset   string
	PageSize int
}

// Page is one upstream page. A non-empty Offset signals more data.
type Page[T any] struct {
	Records []T
	Offset  string
}

// FetchFunc loads the page starting at offset
type FetchFunc[T any] func(ctx context.Context, offset string) (Page[T], error)

// KeyFunc identifies a record for deduplication
type KeyFunc[T any] func(record T) string

// Result is the outcome of a merge
type Result[T any] struct {
	Records    []T
	NextOffset string
	HasMore    bool
}

// DefaultKey identifies a record by its JSON encoding
func DefaultKey[T any](record T) string {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Sprintf("%#v", record)
	}
	return string(data)
}

// FetchMoreData fetches the page at offset and appends its records to
// existing, skipping records whose key is already present. A nil key uses
// DefaultKey. The existing slice is not modified.
func FetchMoreData[T any](ctx context.Context, existing []T, offset string, fetch FetchFunc[T], key KeyFunc[T]) (Result[T], error) {
	if key == nil {
		key = DefaultKey[T]
	}

	page, err := fetch(ctx, offset)
	if err != nil {
		return Result[T]{}, err
	}

	return Result[T]{
		Records:    Merge(existing, page.Records, key),
		NextOffset: page.Offset,
		HasMore:    page.Offset != "",
	}, nil
}

// Merge appends incoming to existing, dropping records already seen by key
func Merge[T any](existing, incoming []T, key KeyFunc[T]) []T {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]T, 0, len(existing)+len(incoming))

	for _, record := range existing {
		seen[key(record)] = struct{}{}
		merged = append(merged, record)
	}
	for _, record := range incoming {
		k := key(record)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, record)
	}
	return merged
}
