package models

// APIResponse is the envelope returned by the REST proxy routes
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError describes a failed request
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ListData is the data section of a list response
type ListData struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
	HasMore bool     `json:"hasMore"`
}

// Error codes used in the response envelope
const (
	ErrCodeInvalidParams   = "INVALID_PARAMS"
	ErrCodeUnknownResource = "UNKNOWN_RESOURCE"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUpstream        = "UPSTREAM_ERROR"
	ErrCodeInternal        = "INTERNAL_ERROR"
)
