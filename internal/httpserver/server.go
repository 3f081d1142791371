package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-content-cache/internal/airtable"
	"go-content-cache/internal/config"
	"go-content-cache/internal/content"
	"go-content-cache/internal/metrics"
	"go-content-cache/internal/models"
	"go-content-cache/internal/utils"
)

// Server represents the HTTP content proxy
type Server struct {
	contentService  *content.Service
	defaultPageSize int
	cfg             config.ServerConfig
	logger          *zap.Logger
	server          *http.Server
}

// NewServer creates a new HTTP server
func NewServer(contentService *content.Service, cfg config.ServerConfig, defaultPageSize int, logger *zap.Logger) *Server {
	s := &Server{
		contentService:  contentService,
		defaultPageSize: defaultPageSize,
		cfg:             cfg,
		logger:          logger,
	}
	s.server = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start listens on the configured port and blocks until the server stops
func (s *Server) Start() error {
	s.logger.Info("Starting content HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping content HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.metricsMiddleware)

	// Content endpoints; "all" must be registered before {id}
	router.HandleFunc("/api/{resource}", s.handleList).Methods(http.MethodGet)
	router.HandleFunc("/api/{resource}/all", s.handleListAll).Methods(http.MethodGet)
	router.HandleFunc("/api/{resource}/{id}", s.handleGet).Methods(http.MethodGet)

	// Cache management
	router.HandleFunc("/cache/invalidate", s.handleInvalidate).Methods(http.MethodPost)
	router.HandleFunc("/cache/stats", s.handleStats).Methods(http.MethodGet)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

// writeJSON writes a JSON response with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeData writes a successful envelope
func (s *Server) writeData(w http.ResponseWriter, status models.CacheStatus, data interface{}) {
	if status != "" {
		w.Header().Set(CacheHeader, string(status))
	}
	s.writeJSON(w, http.StatusOK, models.APIResponse{Success: true, Data: data})
}

// writeError maps err onto an error envelope
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := classifyError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status_code", status),
			zap.Error(err))
	} else {
		s.logger.Debug("Request rejected",
			zap.String("path", r.URL.Path),
			zap.Int("status_code", status),
			zap.Error(err))
	}
	s.writeJSON(w, status, models.APIResponse{Success: false, Error: apiErr})
}

func classifyError(err error) (int, *models.APIError) {
	var verr *utils.ValidationError
	var upstream *airtable.APIError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, &models.APIError{Code: models.ErrCodeInvalidParams, Message: "Invalid query parameters", Details: verr.Fields}
	case errors.Is(err, content.ErrInvalidPattern):
		return http.StatusBadRequest, &models.APIError{Code: models.ErrCodeInvalidParams, Message: err.Error()}
	case errors.Is(err, content.ErrUnknownResource):
		return http.StatusNotFound, &models.APIError{Code: models.ErrCodeUnknownResource, Message: err.Error()}
	case errors.Is(err, airtable.ErrNotFound):
		return http.StatusNotFound, &models.APIError{Code: models.ErrCodeNotFound, Message: "Record not available"}
	case errors.As(err, &upstream):
		details := map[string]interface{}{"status": upstream.StatusCode, "type": upstream.Type}
		if upstream.StatusCode == http.StatusUnprocessableEntity {
			return http.StatusBadRequest, &models.APIError{Code: models.ErrCodeInvalidParams, Message: upstream.Message, Details: details}
		}
		return http.StatusBadGateway, &models.APIError{Code: models.ErrCodeUpstream, Message: "Upstream request failed", Details: details}
	case errors.Is(err, airtable.ErrUnavailable), errors.Is(err, airtable.ErrInvalidResponse), errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, &models.APIError{Code: models.ErrCodeUpstream, Message: "Upstream request failed"}
	default:
		return http.StatusInternalServerError, &models.APIError{Code: models.ErrCodeInternal, Message: "Internal error"}
	}
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.RecordHTTPRequest(route, rec.status)
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &utils.ValidationError{Fields: []utils.FieldError{{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}}}
	}
	return nil
}
