// Package model defines the core data types shared across the pipeline:
// ticks, OHLCV bars, price series, and the result types analytics return.
package model

import "time"

// Tick is a single executed trade, normalized from whatever wire format
// produced it (live WebSocket frame or replayed NDJSON record).
type Tick struct {
	Symbol      string
	Timestamp   time.Time
	Price       float64
	Quantity    float64
	TradeID      int64
	IsBuyerMaker bool // true if the buyer was the maker
	HasTradeID   bool
}

// Valid reports whether the tick satisfies the normalization invariant:
// price > 0 and symbol non-empty. Callers must drop ticks that fail this.
func (t Tick) Valid() bool {
	return t.Price > 0 && t.Symbol != ""
}
