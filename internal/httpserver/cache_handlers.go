package httpserver

import (
	"net/http"

	"go-content-cache/internal/content"
)

// handleInvalidate drops cached pages and records by pattern or resource
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var req InvalidateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		removed content.InvalidateResult
		err     error
	)
	if req.Resource != "" {
		removed, err = s.contentService.InvalidateResource(req.Resource)
	} else {
		removed, err = s.contentService.Invalidate(req.Pattern)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, "", map[string]interface{}{"removed": removed})
}

// handleStats reports the session cache state
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, "", s.contentService.Stats())
}
