package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/webitel/realtime-session-service/internal/domain/registry"
	"github.com/webitel/realtime-session-service/internal/handler/ws"
	"github.com/webitel/realtime-session-service/internal/metrics"
)

const serviceName = "realtime-session-service"

// NewRouter assembles the public HTTP surface: the upgrade endpoint plus
// the auxiliary health, stats and metrics endpoints.
func NewRouter(
	wsHandler *ws.WSHandler,
	hub registry.Hubber,
	reg *prometheus.Registry,
	collector *metrics.Collector,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(MetricsMiddleware(collector))

	r.Get("/health", handleHealth)
	r.Get("/v1/stats", handleStats(hub))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/v1/ws/{session_id}", wsHandler.ServeHTTP)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

func handleStats(hub registry.Hubber) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, hub.Stats())
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
