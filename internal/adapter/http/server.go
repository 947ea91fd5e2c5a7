// Package http exposes the service's HTTP plane: health and metrics
// endpoints plus the alert API.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polodad/clima-tracker-service/internal/alertstore"
	"github.com/polodad/clima-tracker-service/internal/domain"
)

// defaultRecentLimit is used when /api/alerts/recent has no limit param.
const defaultRecentLimit = 10

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// AlertTrigger runs the test-alert path and returns the resulting record.
type AlertTrigger interface {
	TestAlert(ctx context.Context) (domain.Alert, error)
}

// Server exposes health, readiness, metrics, and the alert API.
type Server struct {
	httpServer *http.Server
	store      *alertstore.Store
	trigger    AlertTrigger
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewServer wires all routes onto one listener.
func NewServer(addr string, ready ReadinessChecker, trigger AlertTrigger, store *alertstore.Store, clock clockwork.Clock, logger *slog.Logger) *Server {
	s := &Server{
		store:   store,
		trigger: trigger,
		clock:   clock,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/test-alert", s.handleTestAlert)
		r.Get("/alerts/active", s.handleActiveAlerts)
		r.Get("/alerts/recent", s.handleRecentAlerts)
		r.Get("/alerts/stats", s.handleAlertStats)
		r.Delete("/alerts/{id}", s.handleClearAlert)
		r.Delete("/alerts", s.handleClearAll)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.clock.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleTestAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := s.trigger.TestAlert(r.Context())
	if err != nil {
		s.logger.Error("test alert dispatch failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"alert":   alert,
	})
}

func (s *Server) handleActiveAlerts(w http.ResponseWriter, _ *http.Request) {
	alerts := s.store.Active()
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleRecentAlerts(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	alerts := s.store.Recent(limit)
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleAlertStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handleClearAlert(w http.ResponseWriter, r *http.Request) {
	s.store.Clear(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearAll(w http.ResponseWriter, _ *http.Request) {
	s.store.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
