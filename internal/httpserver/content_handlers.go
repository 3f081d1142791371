package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-content-cache/internal/models"
	"go-content-cache/internal/utils"
)

// handleList serves one page of a resource
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]

	params, err := utils.ParseListParams(r.URL.Query(), s.defaultPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.contentService.List(r.Context(), resource, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, result.Cache, models.ListData{
		Records: nonNil(result.Records),
		Offset:  result.Offset,
		HasMore: result.HasMore,
	})
}

// handleListAll serves every page of a resource up to the configured page limit
func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]

	params, err := utils.ParseListParams(r.URL.Query(), s.defaultPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.contentService.ListAll(r.Context(), resource, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeData(w, result.Cache, models.ListData{
		Records: nonNil(result.Records),
		Offset:  result.Offset,
		HasMore: result.HasMore,
	})
}

// handleGet serves a single record; ?typed=true decodes it into its content variant
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resource, id := vars["resource"], vars["id"]

	if r.URL.Query().Get("typed") == "true" {
		item, status, err := s.contentService.GetContent(r.Context(), resource, id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeData(w, status, RecordData{Content: item})
		return
	}

	record, status, err := s.contentService.Get(r.Context(), resource, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, status, RecordData{Record: record})
}

func nonNil(records []models.Record) []models.Record {
	if records == nil {
		return []models.Record{}
	}
	return records
}
