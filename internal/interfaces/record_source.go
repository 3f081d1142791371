package interfaces

import (
	"context"

	"go-content-cache/internal/models"
)

//go:generate mockgen -package=mock -source=record_source.go -destination=mock/record_source.go

// RecordSource is the upstream record-storage API
type RecordSource interface {
	// ListRecords fetches one page of a table
	ListRecords(ctx context.Context, table string, params models.ListParams) (*models.ListResponse, error)
	// GetRecord fetches a single record by id
	GetRecord(ctx context.Context, table, id string) (*models.Record, error)
}
