// Package metrics provides Prometheus metrics for the ftpshell client.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ftpshell/logging"
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	commandsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftpshell_commands_total",
			Help: "Commands executed, by verb and outcome",
		},
		[]string{"verb", "outcome"},
	)

	commandDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ftpshell_command_duration_seconds",
			Help:    "Time spent executing a command including the listing refresh",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"verb"},
	)

	transferBytes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftpshell_transfer_bytes_total",
			Help: "Bytes moved by get, put and op",
		},
		[]string{"direction"},
	)

	sessionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ftpshell_sessions_total",
			Help: "Connection attempts, by result",
		},
		[]string{"result"},
	)
)

// RecordCommand counts one executed command.
func RecordCommand(verb, outcome string, d time.Duration) {
	commandsTotal.WithLabelValues(verb, outcome).Inc()
	commandDuration.WithLabelValues(verb).Observe(d.Seconds())
}

// RecordTransfer adds n bytes in direction "download" or "upload".
func RecordTransfer(direction string, n int64) {
	transferBytes.WithLabelValues(direction).Add(float64(n))
}

// RecordSession counts a connection attempt.
func RecordSession(result string) {
	sessionsTotal.WithLabelValues(result).Inc()
}

// Handler serves the package registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in the background. The returned server
// should be shut down on exit.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logging.Info("metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("metrics server error", zap.Error(err))
		}
	}()
	return srv
}
