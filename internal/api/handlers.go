package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jmylchreest/divarsearch/internal/city"
	"github.com/jmylchreest/divarsearch/internal/llm"
	"github.com/jmylchreest/divarsearch/internal/logger"
	"github.com/jmylchreest/divarsearch/internal/output"
	"github.com/jmylchreest/divarsearch/internal/pipeline"
	"github.com/jmylchreest/divarsearch/internal/version"
)

// maxBodyBytes bounds a search request body.
const maxBodyBytes = 64 << 10

// Searcher runs one search.
type Searcher interface {
	Run(ctx context.Context, cityName, query string) (pipeline.State, error)
}

// Handlers serves the API endpoints.
type Handlers struct {
	searcher Searcher
	meta     output.Metadata
}

// NewHandlers creates handlers. meta is copied into every search report.
func NewHandlers(searcher Searcher, meta output.Metadata) *Handlers {
	return &Handlers{searcher: searcher, meta: meta}
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	City  string `json:"city"`
	Query string `json:"query"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string   `json:"error"`
	Hints []string `json:"hints,omitempty"`
}

// Health handles GET /healthz
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.String(),
	})
}

// ListCities handles GET /api/cities
func (h *Handlers) ListCities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, city.All())
}

// Search handles POST /api/search
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := pipeline.Validate(req.City, req.Query); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	state, err := h.searcher.Run(r.Context(), req.City, req.Query)
	if err != nil {
		status, resp := h.errorResponse(err)
		logger.WarnContext(r.Context(), "search failed", "status", status, "error", err)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, output.NewReport(state, h.meta, time.Since(start)))
}

func (h *Handlers) errorResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, city.ErrInvalidCity):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()}
	case errors.Is(err, llm.ErrUpstream):
		return http.StatusBadGateway, ErrorResponse{Error: err.Error(), Hints: llm.Hints(h.meta.Provider)}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write response", "error", err)
	}
}
