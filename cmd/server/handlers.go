package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/warpalign/warpalign/internal/signal"
	"github.com/warpalign/warpalign/pkg/logger"
	"github.com/warpalign/warpalign/pkg/warpalign"
	"github.com/warpalign/warpalign/pkg/warpalign/storage"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service warpalign.Service
	config  *ServerConfig
	log     warpalign.Logger
}

// NewServer creates a new server instance
func NewServer(service warpalign.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "warpalign API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":    "GET /health",
			"listRuns":  "GET /api/runs",
			"getRun":    "GET /api/runs/{id}",
			"deleteRun": "DELETE /api/runs/{id}",
			"analyze":   "POST /api/analyze",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleRuns handles GET /api/runs
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	runs, err := s.service.ListRuns()
	if err != nil {
		s.log.Errorf("Failed to list runs: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}
	s.respondJSON(w, http.StatusOK, runs)
}

// handleRun handles GET and DELETE on /api/runs/{id}
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if id == "" || strings.Contains(id, "/") {
		s.respondError(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		run, err := s.service.GetRun(id)
		if errors.Is(err, storage.ErrRunNotFound) {
			s.respondError(w, http.StatusNotFound, "Run not found")
			return
		}
		if err != nil {
			s.log.Errorf("Failed to load run %s: %v", id, err)
			s.respondError(w, http.StatusInternalServerError, "Failed to retrieve run")
			return
		}
		s.respondJSON(w, http.StatusOK, run)
	case http.MethodDelete:
		err := s.service.DeleteRun(id)
		if errors.Is(err, storage.ErrRunNotFound) {
			s.respondError(w, http.StatusNotFound, "Run not found")
			return
		}
		if err != nil {
			s.log.Errorf("Failed to delete run %s: %v", id, err)
			s.respondError(w, http.StatusInternalServerError, "Failed to delete run")
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]string{"deleted": id})
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleAnalyze handles POST /api/analyze
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.DurationSec == 0 {
		req.DurationSec = 1.0
	}
	if err := req.Validate(s.config.SampleRate); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, _ := warpalign.CatalogByName(req.Transform)
	ref := signal.SineMix([]float64{5, 10}, []float64{1, 0.5}, req.DurationSec, s.config.SampleRate)

	a, err := s.service.Analyze(r.Context(), ref, entry.Name, entry.Spec, warpalign.Method(req.Method))
	if err != nil {
		s.log.Errorf("Analysis failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}
	s.respondJSON(w, http.StatusCreated, a.Run)
}
