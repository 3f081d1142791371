package airtable

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the upstream has no such table or record
var ErrNotFound = errors.New("record not found")

// ErrUnavailable wraps transport failures reaching the upstream
var ErrUnavailable = errors.New("upstream unavailable")

// ErrInvalidResponse is returned when a 2xx body cannot be decoded
var ErrInvalidResponse = errors.New("invalid upstream response")

// APIError is a non-2xx upstream response
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("airtable: %d %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("airtable: %d %s", e.StatusCode, e.Type)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// errorBody covers both upstream error shapes:
// {"error":"NOT_FOUND"} and {"error":{"type":"...","message":"..."}}
type errorBody struct {
	Error json.RawMessage `json:"error"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Type: http.StatusText(status)}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Error) == 0 {
		return apiErr
	}

	var code string
	if err := json.Unmarshal(eb.Error, &code); err == nil {
		apiErr.Type = code
		return apiErr
	}

	var detailed struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(eb.Error, &detailed); err == nil {
		if detailed.Type != "" {
			apiErr.Type = detailed.Type
		}
		apiErr.Message = detailed.Message
	}
	return apiErr
}
