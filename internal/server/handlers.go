package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vivohome/assistant/internal/models"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	requestID := uuid.New().String()
	s.logger.Debug("chat request", zap.String("request_id", requestID), zap.String("query", req.Query))

	start := time.Now()
	reply, result := s.engine.ProcessWithLimit(r.Context(), req.Query, s.requestLimit(req))

	s.respondJSON(w, http.StatusOK, models.ChatResponse{
		RequestID:   requestID,
		Reply:       reply,
		Found:       result.Found,
		Intent:      string(result.Intent.Intent),
		Category:    result.Intent.Category,
		Sources:     result.Sources,
		QueryTimeMs: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("search request", zap.String("query", req.Query))
	result := s.engine.SearchWithLimit(r.Context(), req.Query, s.requestLimit(req))
	s.respondJSON(w, http.StatusOK, result)
}

// requestLimit clamps the optional per-request product limit to the configured
// search.max_limit. Zero means the engine default.
func (s *Server) requestLimit(req models.ChatRequest) int {
	limit := req.Limit
	if limit < 0 {
		limit = 0
	}
	if s.full != nil && s.full.Search.MaxLimit > 0 && limit > s.full.Search.MaxLimit {
		limit = s.full.Search.MaxLimit
	}
	return limit
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		s.logger.Error("status: count products failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	indexSize := 0
	if s.index != nil {
		indexSize = s.index.Size()
	}
	resp := map[string]interface{}{
		"products":          count,
		"vector_index_size": indexSize,
	}
	if s.full != nil {
		resp["config"] = map[string]interface{}{
			"database_path":        s.full.Storage.DatabasePath,
			"catalog_path":         s.full.Storage.CatalogPath,
			"embedding_dimensions": s.full.Embedding.Dimensions,
			"similarity_threshold": s.full.Search.SimilarityThreshold,
			"web_fallback":         s.full.Web.APIKey != "",
			"watch_enabled":        s.full.Watch.EnabledOrDefault(),
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
