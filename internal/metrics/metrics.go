// Package metrics exposes Prometheus counters and gauges for the
// ingestion, resampling, and alert paths.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statarb_ticks_ingested_total",
			Help: "Total ticks ingested by symbol and source",
		},
		[]string{"symbol", "source"},
	)

	TicksDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statarb_ticks_dropped_total",
			Help: "Total ticks dropped at normalization",
		},
		[]string{"symbol", "reason"},
	)

	BarsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statarb_bars_emitted_total",
			Help: "Total OHLCV bars emitted by symbol and timeframe",
		},
		[]string{"symbol", "timeframe"},
	)

	ReconnectAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statarb_reconnect_attempts_total",
			Help: "Total reconnection attempts by symbol",
		},
		[]string{"symbol"},
	)

	ConnectionUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "statarb_connection_up",
			Help: "Whether the ingestion stream for a symbol is currently connected",
		},
		[]string{"symbol"},
	)

	AlertsFired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statarb_alerts_fired_total",
			Help: "Total alerts fired by rule name and severity",
		},
		[]string{"rule", "severity"},
	)
)

// Serve starts a blocking HTTP server exposing /metrics on addr.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
