package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gemscap/statarb-engine/internal/alert"
	"github.com/gemscap/statarb-engine/internal/analytics"
	"github.com/gemscap/statarb-engine/internal/broadcast"
	"github.com/gemscap/statarb-engine/internal/config"
	"github.com/gemscap/statarb-engine/internal/ingest"
	"github.com/gemscap/statarb-engine/internal/metrics"
	"github.com/gemscap/statarb-engine/internal/model"
	"github.com/gemscap/statarb-engine/internal/resample"
	"github.com/gemscap/statarb-engine/internal/store"
)

const shutdownBudget = 2 * time.Second

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log.Info().Strs("symbols", cfg.Symbols).Msg("starting statarb engine")

	ctx, cancel := context.WithCancel(context.Background())

	st := store.New(cfg.MaxTicks, cfg.MaxBars)
	engine := alert.New(cfg.AlertCooldown)

	hub := broadcast.NewHub(nil)
	go hub.Run()

	resamplers := make(map[string]*resample.Resampler, len(cfg.Timeframes))
	for _, tf := range cfg.Timeframes {
		r := resample.New(tf.Delta)
		timeframe := tf.Label
		r.OnBar(func(bar model.Bar) {
			st.AddBar(bar, timeframe)
			metrics.BarsEmitted.WithLabelValues(bar.Symbol, timeframe).Inc()
			hub.Publish("bar", bar)
			runAnalytics(st, engine, hub, cfg, bar.Symbol, timeframe)
		})
		resamplers[tf.Label] = r
	}

	engine.OnAlert(func(a model.Alert) {
		hub.Publish("alert", a)
		log.Warn().Str("symbol", a.Symbol).Str("type", string(a.Type)).Float64("value", a.Value).Msg(a.Message)
	})

	// Ingestion goroutines hand ticks to a single consumer goroutine that
	// feeds the store and every resampler.
	ticks := make(chan model.Tick, 4096)
	go func() {
		for t := range ticks {
			st.AddTick(t)
			for _, r := range resamplers {
				r.AddTick(t)
			}
		}
	}()
	handler := func(t model.Tick) {
		ticks <- t
	}

	ingester := ingest.New(cfg.Symbols, handler)
	ingester.Start(ctx)

	go func() {
		if err := metrics.Serve(cfg.MetricsAddr); err != nil {
			log.Error().Err(err).Msg("metrics server exited")
		}
	}()

	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.ServeWS)
		log.Info().Str("addr", cfg.BroadcastAddr).Msg("broadcast server listening")
		if err := http.ListenAndServe(cfg.BroadcastAddr, mux); err != nil {
			log.Error().Err(err).Msg("broadcast server exited")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutting down")
	cancel()
	time.Sleep(shutdownBudget)
}

// runAnalytics recomputes hedge ratio/spread/z-score/signal for symbol
// against every other known symbol on each bar emission, firing alerts
// on the latest z-score. This is a simple pairwise sweep; a production
// deployment would configure explicit pairs rather than all-to-all.
func runAnalytics(st *store.Store, engine *alert.Engine, hub *broadcast.Hub, cfg *config.Config, symbol, timeframe string) {
	symbols := st.Symbols()
	ySeries := st.GetPrices(symbol, timeframe, cfg.RollingWindow*2)
	if ySeries.Len() < cfg.RollingWindow {
		return
	}

	for _, other := range symbols {
		if other == symbol {
			continue
		}
		xSeries := st.GetPrices(other, timeframe, cfg.RollingWindow*2)
		if xSeries.Len() < cfg.RollingWindow {
			continue
		}

		hr, err := analytics.HedgeRatio(ySeries.Values, xSeries.Values)
		if err != nil {
			continue
		}

		spread := analytics.Spread(ySeries.Values, xSeries.Values, hr.Beta, analytics.SpreadRaw)
		z, ok := analytics.LatestZScore(spread, cfg.RollingWindow)
		if !ok {
			continue
		}

		sig := analytics.Signal(z, cfg.ZScoreUpperThreshold, cfg.ZScoreLowerThreshold)
		hub.Publish("signal", map[string]any{
			"symbol_a": symbol,
			"symbol_b": other,
			"z_score":  z,
			"signal":   sig,
		})

		engine.CheckZScore(z, symbol+"_"+other, time.Now())
	}
}
