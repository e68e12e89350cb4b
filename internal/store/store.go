package store

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gemscap/statarb-engine/internal/model"
)

var nan = math.NaN()

// symbolState co-locates a symbol's tick ring and its per-timeframe bar
// rings, mirroring the original implementation's SymbolData grouping.
type symbolState struct {
	ticks *ring[model.Tick]
	bars  map[string]*ring[model.Bar]
}

// Store is the thread-safe, bounded memory store of ticks and bars. A
// single RWMutex guards all state: writes are exclusive, reads share the
// read lock; readers receive a point-in-time copy and no iterator
// outlives the lock.
type Store struct {
	maxTicks int
	maxBars  int

	mu   sync.RWMutex
	data map[string]*symbolState

	tickCount  int64
	lastUpdate time.Time
}

// New creates a store with the given per-symbol ring capacities.
func New(maxTicks, maxBars int) *Store {
	return &Store{
		maxTicks: maxTicks,
		maxBars:  maxBars,
		data:     make(map[string]*symbolState),
	}
}

func (s *Store) symbolStateLocked(symbol string) *symbolState {
	symbol = strings.ToUpper(symbol)
	st, ok := s.data[symbol]
	if !ok {
		st = &symbolState{
			ticks: newRing[model.Tick](s.maxTicks),
			bars:  make(map[string]*ring[model.Bar]),
		}
		s.data[symbol] = st
	}
	return st
}

// AddTick appends a tick to its symbol's ring, bumps the global counter,
// and updates last_update. Re-adding an identical tick appends again —
// the store does not deduplicate.
func (s *Store) AddTick(t model.Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.symbolStateLocked(t.Symbol)
	st.ticks.add(t)
	s.tickCount++
	s.lastUpdate = t.Timestamp
}

// AddBar appends a bar to the (symbol, timeframe) ring.
func (s *Store) AddBar(b model.Bar, timeframe string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.symbolStateLocked(b.Symbol)
	r, ok := st.bars[timeframe]
	if !ok {
		r = newRing[model.Bar](s.maxBars)
		st.bars[timeframe] = r
	}
	r.add(b)
}

// GetTicks returns up to n most recent ticks for symbol in chronological
// order; empty if the symbol is unknown.
func (s *Store) GetTicks(symbol string, n int) []model.Tick {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[strings.ToUpper(symbol)]
	if !ok {
		return nil
	}
	return st.ticks.snapshot(n)
}

// GetBars returns up to n most recent bars for (symbol, timeframe) in
// chronological order; empty if unknown.
func (s *Store) GetBars(symbol, timeframe string, n int) []model.Bar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.data[strings.ToUpper(symbol)]
	if !ok {
		return nil
	}
	r, ok := st.bars[timeframe]
	if !ok {
		return nil
	}
	return r.snapshot(n)
}

// GetPrices returns the time-indexed close-price series for (symbol, timeframe).
func (s *Store) GetPrices(symbol, timeframe string, n int) model.Series {
	bars := s.GetBars(symbol, timeframe, n)
	if len(bars) == 0 {
		return model.Series{}
	}
	times := make([]time.Time, len(bars))
	values := make([]float64, len(bars))
	for i, b := range bars {
		times[i] = b.BarStart
		values[i] = b.Close
	}
	return model.NewSeries(times, values)
}

// GetDataFrame returns the time-indexed OHLCV table for (symbol, timeframe).
func (s *Store) GetDataFrame(symbol, timeframe string, n int) model.DataFrame {
	bars := s.GetBars(symbol, timeframe, n)
	if len(bars) == 0 {
		return model.DataFrame{}
	}
	times := make([]time.Time, len(bars))
	for i, b := range bars {
		times[i] = b.BarStart
	}
	return model.DataFrame{Times: times, Bars: bars}
}

// MultiSymbolPrices is a column-aligned table of close prices across
// symbols; missing indices produce NaN.
type MultiSymbolPrices struct {
	Times   []time.Time
	Columns map[string][]float64
}

// GetMultiSymbolPrices aligns close-price series for several symbols on
// the union of their timestamps, filling gaps with NaN.
func (s *Store) GetMultiSymbolPrices(symbols []string, timeframe string, n int) MultiSymbolPrices {
	perSymbol := make(map[string]model.Series, len(symbols))
	timeSet := make(map[int64]time.Time)
	for _, sym := range symbols {
		series := s.GetPrices(sym, timeframe, n)
		if series.Len() == 0 {
			continue
		}
		perSymbol[sym] = series
		for _, t := range series.Times {
			timeSet[t.UnixNano()] = t
		}
	}
	if len(perSymbol) == 0 {
		return MultiSymbolPrices{}
	}

	unionTimes := make([]time.Time, 0, len(timeSet))
	for _, t := range timeSet {
		unionTimes = append(unionTimes, t)
	}
	sortTimes(unionTimes)

	indexOf := make(map[int64]int, len(unionTimes))
	for i, t := range unionTimes {
		indexOf[t.UnixNano()] = i
	}

	columns := make(map[string][]float64, len(perSymbol))
	for sym, series := range perSymbol {
		col := make([]float64, len(unionTimes))
		for i := range col {
			col[i] = nan
		}
		for i, t := range series.Times {
			col[indexOf[t.UnixNano()]] = series.Values[i]
		}
		columns[sym] = col
	}
	return MultiSymbolPrices{Times: unionTimes, Columns: columns}
}

// Symbols returns a snapshot of known symbols.
func (s *Store) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for sym := range s.data {
		out = append(out, sym)
	}
	return out
}

// BarCount returns bar counts, narrowed by symbol and/or timeframe when given.
func (s *Store) BarCount(symbol, timeframe string) map[string]map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := func(st *symbolState) map[string]int {
		if timeframe != "" {
			if r, ok := st.bars[timeframe]; ok {
				return map[string]int{timeframe: r.count()}
			}
			return map[string]int{}
		}
		out := make(map[string]int, len(st.bars))
		for tf, r := range st.bars {
			out[tf] = r.count()
		}
		return out
	}

	if symbol != "" {
		st, ok := s.data[strings.ToUpper(symbol)]
		if !ok {
			return map[string]map[string]int{}
		}
		return map[string]map[string]int{strings.ToUpper(symbol): counts(st)}
	}

	out := make(map[string]map[string]int, len(s.data))
	for sym, st := range s.data {
		out[sym] = counts(st)
	}
	return out
}

// TickCount returns the global tick counter. May be read lock-free in
// spirit (best-effort) but uses the read lock for correctness here.
func (s *Store) TickCount() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tickCount
}

// LastUpdate returns the timestamp of the most recently added tick.
func (s *Store) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// Clear removes all state, or just one symbol's state when given.
func (s *Store) Clear(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if symbol == "" {
		s.data = make(map[string]*symbolState)
		s.tickCount = 0
		return
	}
	delete(s.data, strings.ToUpper(symbol))
}

func sortTimes(times []time.Time) {
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
}
