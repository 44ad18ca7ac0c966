// internal/app/server.go
package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"estate-client/internal/common/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer exposes /health, /ready and /metrics while a command runs.
type MetricsServer struct {
	srv    *http.Server
	logger logger.Logger
}

func NewMetricsServer(addr string, log logger.Logger) *MetricsServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv:    &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		logger: log.WithFields(map[string]interface{}{"component": "metrics-server"}),
	}
}

func writeStatus(w http.ResponseWriter, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}

// Start serves in the background.
func (m *MetricsServer) Start() {
	go func() {
		m.logger.Info("Health/Metrics server listening", map[string]interface{}{"address": m.srv.Addr})
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()
}

func (m *MetricsServer) Handler() http.Handler { return m.srv.Handler }

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
