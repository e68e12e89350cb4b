package model

import "time"

// Bar is an OHLCV aggregate over the half-open interval [BarStart, BarStart+Δ).
type Bar struct {
	Symbol     string
	BarStart   time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	VWAP       float64
	TradeCount int
}

// Columns returns the bar's fields in CSV export column order:
// open,high,low,close,volume,vwap,trade_count (timestamp is written separately).
func (b Bar) Columns() []string {
	return []string{
		formatFloat(b.Open),
		formatFloat(b.High),
		formatFloat(b.Low),
		formatFloat(b.Close),
		formatFloat(b.Volume),
		formatFloat(b.VWAP),
		formatInt(b.TradeCount),
	}
}

// Builder accumulates ticks for a single bar interval and produces a Bar
// once the interval rolls over. Zero value is a valid, empty builder.
type Builder struct {
	Symbol        string
	barStart      time.Time
	hasBarStart   bool
	open          float64
	high          float64
	low           float64
	close         float64
	volume        float64
	vwapNumerator float64
	tradeCount    int
}

// NewBuilder creates a builder for the given symbol.
func NewBuilder(symbol string) *Builder {
	return &Builder{Symbol: symbol}
}

// Add folds a tick into the accumulator. The caller is responsible for
// deciding whether the tick belongs in the current interval.
func (b *Builder) Add(price, qty float64) {
	if b.tradeCount == 0 {
		b.open = price
		b.high = price
		b.low = price
	} else {
		if price > b.high {
			b.high = price
		}
		if price < b.low {
			b.low = price
		}
	}
	b.close = price
	b.volume += qty
	b.vwapNumerator += price * qty
	b.tradeCount++
}

// TradeCount reports how many ticks have been folded in since the last reset.
func (b *Builder) TradeCount() int { return b.tradeCount }

// Build snapshots the accumulator into a Bar labelled with barStart.
// Returns false if no ticks have been added (trade_count == 0).
func (b *Builder) Build(barStart time.Time) (Bar, bool) {
	if b.tradeCount == 0 {
		return Bar{}, false
	}
	vwap := b.close
	if b.volume > 0 {
		vwap = b.vwapNumerator / b.volume
	}
	return Bar{
		Symbol:     b.Symbol,
		BarStart:   barStart,
		Open:       b.open,
		High:       b.high,
		Low:        b.low,
		Close:      b.close,
		Volume:     b.volume,
		VWAP:       vwap,
		TradeCount: b.tradeCount,
	}, true
}

// Reset clears accumulated state so the builder can be reused for the next interval.
func (b *Builder) Reset() {
	b.open = 0
	b.high = 0
	b.low = 0
	b.close = 0
	b.volume = 0
	b.vwapNumerator = 0
	b.tradeCount = 0
}
