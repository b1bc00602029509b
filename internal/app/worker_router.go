package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// WorkerRouter serves the outbox worker's probes and Prometheus metrics.
//
//	GET /healthz  processor statistics
//	GET /readyz   dependency health, 503 when unhealthy
//	GET /metrics  Prometheus exposition
func (c *Container) WorkerRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", c.handleWorkerHealth)
	r.Method(http.MethodGet, "/readyz", c.Health)
	r.Method(http.MethodGet, "/metrics", c.Metrics.Handler())

	return r
}

func (c *Container) handleWorkerHealth(w http.ResponseWriter, _ *http.Request) {
	response := map[string]any{"status": "ok", "running": false}
	if c.OutboxProcessor != nil {
		stats := c.OutboxProcessor.GetStats()
		response["running"] = stats.IsRunning
		response["published"] = stats.PublishedCount
		response["failed"] = stats.FailedCount
		response["dead"] = stats.DeadCount
		response["lag_seconds"] = stats.LagSeconds
		response["last_processed_at"] = stats.LastProcessedAt
		response["last_error_at"] = stats.LastErrorAt
		response["last_error"] = stats.LastError
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}
