package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/rollout"
	"github.com/yourusername/gridiron-edge/internal/service"
)

// HealthResponse represents the JSON response for health check endpoints
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// ErrorResponse is returned for requests that fail before aggregation
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
		Commit:    s.commit,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	healthy := true

	if !s.IsReady() {
		healthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			healthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	resp := ReadyResponse{
		Status:   "ok",
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	status := http.StatusOK
	if !healthy {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// handleEdges runs one aggregation.
// Query: week, season (required), min_edge, strategy, model (v1|v2|baseline|enhanced), id.
func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	week, err := intParam(q.Get("week"), "week")
	if err != nil {
		writeError(w, err)
		return
	}
	season, err := intParam(q.Get("season"), "season")
	if err != nil {
		writeError(w, err)
		return
	}

	minEdge := s.cfg.Aggregation.DefaultMinEdge
	if raw := q.Get("min_edge"); raw != "" {
		minEdge, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, models.NewInvalidInput("min_edge", "not a number: %q", raw))
			return
		}
	}

	identifier := q.Get("id")
	if identifier == "" {
		identifier = s.cfg.Rollout.Identifier
	}
	variant, source, err := rollout.Resolve(q.Get("model"), identifier, s.cfg.Rollout.Percentage)
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.RecordRolloutAssignment(string(variant))
	s.audit.LogRolloutAssignment(identifier, s.cfg.Rollout.Percentage, string(variant), source)

	resp, err := s.edges.Aggregate(r.Context(), service.AggregateRequest{
		Week:     week,
		Season:   season,
		MinEdge:  minEdge,
		Strategy: q.Get("strategy"),
		Variant:  variant,
	})
	writeJSON(w, statusFor(err), resp)
}

func (s *Server) handleGate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	week, err := intParam(q.Get("week"), "week")
	if err != nil {
		writeError(w, err)
		return
	}
	season, err := intParam(q.Get("season"), "season")
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := s.edges.Gate(r.Context(), chi.URLParam(r, "entity"), models.Period{Season: season, Week: week})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.edges.Strategies())
}

func intParam(raw, name string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, models.NewInvalidInput(name, "is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewInvalidInput(name, "not an integer: %q", raw)
	}
	return v, nil
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDataStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{Success: false, Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
