// Package ingest implements the Tick Source: a live Binance Futures
// WebSocket client (one socket per symbol, exponential-backoff
// reconnect) and an NDJSON tick-file replay source.
package ingest

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gemscap/statarb-engine/internal/metrics"
	"github.com/gemscap/statarb-engine/internal/model"
)

const baseURL = "wss://fstream.binance.com/ws"

// tradeEvent matches the Binance Futures raw trade stream JSON, per the
// documented wire format: {"e":"trade","T":...,"E":...,"s":...,"p":...,
// "q":...,"t":...,"m":...}.
type tradeEvent struct {
	EventType string `json:"e"`
	E         int64  `json:"E"`
	T         int64  `json:"T"`
	Symbol    string `json:"s"`
	Price     string `json:"p"`
	Quantity  string `json:"q"`
	TradeID   int64  `json:"t"`
	IsMaker   bool   `json:"m"`
}

// BackoffConfig shapes the exponential reconnect schedule.
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultBackoff is the spec's documented shape: 1s start, ×2, capped at 30s.
var DefaultBackoff = BackoffConfig{
	InitialDelay: time.Second,
	MaxDelay:     30 * time.Second,
	Multiplier:   2,
}

// TickHandler receives normalized ticks from the ingestion path.
type TickHandler func(model.Tick)

// Ingester connects to one Binance trade stream per symbol and dispatches
// normalized ticks to a handler. Each symbol reconnects independently.
type Ingester struct {
	symbols []string
	backoff BackoffConfig
	dialer  *websocket.Dialer
	handler TickHandler
}

// New creates an ingester for the given (already-uppercased) symbols.
func New(symbols []string, handler TickHandler) *Ingester {
	return &Ingester{
		symbols: symbols,
		backoff: DefaultBackoff,
		dialer:  websocket.DefaultDialer,
		handler: handler,
	}
}

// Start launches one reconnecting goroutine per symbol. It returns
// immediately; ingestion runs until ctx is cancelled.
func (in *Ingester) Start(ctx context.Context) {
	for _, sym := range in.symbols {
		go in.loop(ctx, sym)
	}
}

func (in *Ingester) loop(ctx context.Context, symbol string) {
	delay := in.backoff.InitialDelay

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		metrics.ReconnectAttempts.WithLabelValues(symbol).Inc()
		receivedFrame, err := in.connectAndConsume(ctx, symbol)
		metrics.ConnectionUp.WithLabelValues(symbol).Set(0)

		if receivedFrame {
			// The connection was healthy long enough to deliver at
			// least one frame: reset the schedule so a later outage
			// doesn't inherit a stale, possibly maxed-out delay.
			delay = in.backoff.InitialDelay
		}

		if err == nil {
			// Clean shutdown (ctx cancelled mid-read).
			return
		}

		log.Warn().Err(err).Str("symbol", symbol).Dur("retry_in", delay).Msg("ingest: reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = nextBackoffDelay(delay, in.backoff)
	}
}

// nextBackoffDelay advances delay by the configured multiplier, capped at
// MaxDelay.
func nextBackoffDelay(delay time.Duration, cfg BackoffConfig) time.Duration {
	delay = time.Duration(float64(delay) * cfg.Multiplier)
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

// connectAndConsume dials and reads frames until the connection drops or
// ctx is cancelled. receivedFrame reports whether at least one frame was
// successfully read, which the caller uses to reset the backoff delay.
func (in *Ingester) connectAndConsume(ctx context.Context, symbol string) (receivedFrame bool, err error) {
	url := baseURL + "/" + strings.ToLower(symbol) + "@trade"
	conn, _, err := in.dialer.DialContext(ctx, url, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	log.Info().Str("symbol", symbol).Msg("ingest: connected")
	metrics.ConnectionUp.WithLabelValues(symbol).Set(1)

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var ev tradeEvent
		if err := conn.ReadJSON(&ev); err != nil {
			select {
			case <-ctx.Done():
				return receivedFrame, nil
			default:
			}
			return receivedFrame, err
		}
		receivedFrame = true

		tick, ok := normalizeTrade(ev)
		if !ok {
			metrics.TicksDropped.WithLabelValues(symbol, "parse").Inc()
			continue
		}
		metrics.TicksIngested.WithLabelValues(symbol, "live").Inc()
		in.handler(tick)
	}
}

func normalizeTrade(ev tradeEvent) (model.Tick, bool) {
	if ev.EventType != "trade" {
		return model.Tick{}, false
	}
	ms := ev.T
	if ms == 0 {
		ms = ev.E
	}
	if ms == 0 {
		return model.Tick{}, false
	}
	price, err := strconv.ParseFloat(ev.Price, 64)
	if err != nil {
		return model.Tick{}, false
	}
	qty, _ := strconv.ParseFloat(ev.Quantity, 64)

	tick := model.Tick{
		Symbol:       strings.ToUpper(ev.Symbol),
		Timestamp:    time.UnixMilli(ms).UTC(),
		Price:        price,
		Quantity:     qty,
		TradeID:      ev.TradeID,
		HasTradeID:   ev.TradeID != 0,
		IsBuyerMaker: ev.IsMaker,
	}
	if !tick.Valid() {
		return model.Tick{}, false
	}
	return tick, true
}
