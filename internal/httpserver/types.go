package httpserver

import "go-content-cache/internal/models"

// InvalidateRequest is the body of POST /cache/invalidate.
// Resource takes precedence over Pattern; both empty clears everything.
type InvalidateRequest struct {
	Pattern  string `json:"pattern"`
	Resource string `json:"resource,omitempty"`
}

// RecordData is the data section of a single-record response
type RecordData struct {
	Record  *models.Record `json:"record,omitempty"`
	Content models.Content `json:"content,omitempty"`
}

// CacheHeader reports how a response was served
const CacheHeader = "X-Cache"
