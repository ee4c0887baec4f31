// Package api provides the HTTP server for the credit book.
// It exposes account and ledger CRUD, the overdue report, balance history,
// merchant settings, a live SSE change feed, and Prometheus metrics.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tallybook/tallybook/internal/domain"
	"github.com/tallybook/tallybook/internal/infra/changefeed"
)

// Version is the API version string reported on /api/version.
const Version = "0.1.0"

// Server is the credit-book HTTP API server.
type Server struct {
	store          domain.Store
	feed           *changefeed.Feed
	metricsEnabled bool
}

// NewServer creates a new API server over the given store.
func NewServer(store domain.Store, feed *changefeed.Feed) *Server {
	return &Server{store: store, feed: feed}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/", s.handleCreateAccount)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetAccount)
				r.Put("/", s.handleUpdateAccount)
				r.Delete("/", s.handleDeleteAccount)
				r.Get("/summary", s.handleAccountSummary)
				r.Get("/history", s.handleBalanceHistory)
				r.Get("/transactions", s.handleListTransactions)
				r.Post("/transactions", s.handleAddTransaction)
			})
		})

		r.Route("/transactions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTransaction)
			r.Put("/", s.handleUpdateTransaction)
			r.Delete("/", s.handleDeleteTransaction)
		})

		r.Get("/reports/overdue", s.handleOverdueReport)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)

		// Live change feed (SSE)
		if s.feed != nil {
			r.Get("/events/live", s.handleEventsSSE)
		}
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
