// Package resample converts an unbounded tick stream into fixed-width
// OHLCV bars aligned to absolute wall-clock interval boundaries, one
// accumulator per symbol per timeframe.
package resample

import (
	"sync"
	"time"

	"github.com/gemscap/statarb-engine/internal/model"
)

// OnBar is invoked synchronously, in registration order, after a bar is
// appended to the completed list. A panicking subscriber is isolated and
// must not affect later subscribers or the ingestion path.
type OnBar func(model.Bar)

// Resampler accumulates ticks into bars for one timeframe across many
// symbols. Safe for concurrent use.
type Resampler struct {
	delta time.Duration

	mu              sync.Mutex
	builders        map[string]*model.Builder
	currentBarTime  map[string]time.Time
	completed       map[string][]model.Bar
	callbacks       []OnBar
}

// New creates a resampler for the given timeframe width.
func New(delta time.Duration) *Resampler {
	return &Resampler{
		delta:          delta,
		builders:       make(map[string]*model.Builder),
		currentBarTime: make(map[string]time.Time),
		completed:      make(map[string][]model.Bar),
	}
}

// Delta reports the timeframe width this resampler aggregates at.
func (r *Resampler) Delta() time.Duration { return r.delta }

// OnBar registers a callback invoked for every completed bar.
func (r *Resampler) OnBar(cb OnBar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, cb)
}

// Align floors t to the resampler's interval boundary, absolute to the
// Unix epoch, so independently running instances produce identical
// boundaries.
func (r *Resampler) Align(t time.Time) time.Time {
	return alignTo(t, r.delta)
}

func alignTo(t time.Time, delta time.Duration) time.Time {
	unixNanos := t.UnixNano()
	deltaNanos := delta.Nanoseconds()
	aligned := (unixNanos / deltaNanos) * deltaNanos
	return time.Unix(0, aligned).UTC()
}

// AddTick folds a tick into the current bar for its symbol, emitting a
// completed bar (via callbacks) if the tick crosses an interval boundary.
// Out-of-order ticks (whose aligned bucket is older than the current one)
// are dropped, per the adopted tie-break rule.
func (r *Resampler) AddTick(t model.Tick) {
	bucket := r.Align(t.Timestamp)

	r.mu.Lock()
	symbol := t.Symbol
	current, known := r.currentBarTime[symbol]

	var emitted model.Bar
	var hasEmitted bool

	switch {
	case !known:
		r.builders[symbol] = model.NewBuilder(symbol)
		r.currentBarTime[symbol] = bucket
	case bucket.After(current):
		builder := r.builders[symbol]
		if bar, ok := builder.Build(current); ok {
			r.completed[symbol] = append(r.completed[symbol], bar)
			emitted = bar
			hasEmitted = true
		}
		builder.Reset()
		r.currentBarTime[symbol] = bucket
	case bucket.Before(current):
		// Out-of-order tick: drop.
		r.mu.Unlock()
		return
	}

	r.builders[symbol].Add(t.Price, t.Quantity)
	callbacks := r.callbacks
	r.mu.Unlock()

	if hasEmitted {
		notify(callbacks, emitted)
	}
}

func notify(callbacks []OnBar, bar model.Bar) {
	for _, cb := range callbacks {
		invokeSafely(cb, bar)
	}
}

func invokeSafely(cb OnBar, bar model.Bar) {
	defer func() { _ = recover() }()
	cb(bar)
}

// Bars returns up to n completed bars for a symbol (n<=0 means all),
// most recent last. A symbol with no bars yields an empty, non-nil slice.
func (r *Resampler) Bars(symbol string, n int) []model.Bar {
	r.mu.Lock()
	defer r.mu.Unlock()
	bars := r.completed[symbol]
	if n <= 0 || n >= len(bars) {
		out := make([]model.Bar, len(bars))
		copy(out, bars)
		return out
	}
	out := make([]model.Bar, n)
	copy(out, bars[len(bars)-n:])
	return out
}

// CurrentBar snapshot-builds the in-progress bar for a symbol without
// resetting it. Informational only — closed bars are canonical.
func (r *Resampler) CurrentBar(symbol string) (model.Bar, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	builder, ok := r.builders[symbol]
	if !ok {
		return model.Bar{}, false
	}
	barStart, ok := r.currentBarTime[symbol]
	if !ok {
		return model.Bar{}, false
	}
	return builder.Build(barStart)
}

// Symbols returns the symbols this resampler has seen.
func (r *Resampler) Symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.builders))
	for s := range r.builders {
		out = append(out, s)
	}
	return out
}

// BarCount returns the count of completed bars per symbol.
func (r *Resampler) BarCount() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.completed))
	for s, bars := range r.completed {
		out[s] = len(bars)
	}
	return out
}

// Clear removes accumulated bars. If symbol is empty, clears everything.
func (r *Resampler) Clear(symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if symbol == "" {
		r.completed = make(map[string][]model.Bar)
		for _, b := range r.builders {
			b.Reset()
		}
		r.currentBarTime = make(map[string]time.Time)
		return
	}
	delete(r.completed, symbol)
	if b, ok := r.builders[symbol]; ok {
		b.Reset()
	}
	delete(r.currentBarTime, symbol)
}
