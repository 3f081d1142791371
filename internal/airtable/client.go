// Package airtable is a minimal client of the upstream record API.
package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-content-cache/internal/config"
	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/metrics"
	"go-content-cache/internal/models"
)

const maxErrorBody = 64 * 1024

// Ensure Client implements interfaces.RecordSource
var _ interfaces.RecordSource = (*Client)(nil)

// Client fetches records from one upstream base
type Client struct {
	httpClient *http.Client
	baseURL    string
	baseID     string
	apiKey     string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a new upstream client
func NewClient(cfg *config.AirtableConfig, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		baseID:     cfg.BaseID,
		apiKey:     apiKey,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// ListRecords fetches one page of a table
func (c *Client) ListRecords(ctx context.Context, table string, params models.ListParams) (*models.ListResponse, error) {
	if params.FilterByFormula != "" {
		if err := ValidateFormula(params.FilterByFormula); err != nil {
			return nil, fmt.Errorf("invalid filterByFormula: %w", err)
		}
	}

	endpoint := c.tableURL(table)
	if q := params.Query().Encode(); q != "" {
		endpoint += "?" + q
	}

	var resp models.ListResponse
	if err := c.do(ctx, "list", table, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRecord fetches a single record by id
func (c *Client) GetRecord(ctx context.Context, table, id string) (*models.Record, error) {
	if id == "" {
		return nil, fmt.Errorf("record id cannot be empty: %w", ErrNotFound)
	}

	var rec models.Record
	if err := c.do(ctx, "get", table, c.tableURL(table)+"/"+url.PathEscape(id), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(table))
}

func (c *Client) do(ctx context.Context, operation, table, endpoint string, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	done := metrics.TimeUpstreamRequest(operation)
	resp, err := c.httpClient.Do(req)
	done()
	if err != nil {
		metrics.RecordUpstreamRequest(table, operation, 0)
		c.logger.Warn("Upstream request failed",
			zap.String("table", table),
			zap.String("operation", operation),
			zap.Error(err))
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.RecordUpstreamRequest(table, operation, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := parseAPIError(resp.StatusCode, body)
		c.logger.Debug("Upstream returned error",
			zap.String("table", table),
			zap.String("operation", operation),
			zap.Int("status_code", resp.StatusCode),
			zap.String("type", apiErr.Type))
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return nil
}
