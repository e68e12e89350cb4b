package ingest

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gemscap/statarb-engine/internal/metrics"
	"github.com/gemscap/statarb-engine/internal/model"
)

// replayLine is one NDJSON record: {"symbol":...,"ts":...,"price":...,
// "size":...}. "quantity" is accepted as a synonym for "size".
type replayLine struct {
	Symbol   string  `json:"symbol"`
	TS       string  `json:"ts"`
	Price    float64 `json:"price"`
	Size     float64 `json:"size"`
	Quantity float64 `json:"quantity"`
}

// Replay reads ticks from an NDJSON stream, one JSON object per line, and
// dispatches them to handler in file order. Malformed lines are skipped.
// It never reconnects; callers close r when the source is exhausted.
func Replay(r io.Reader, handler TickHandler) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec replayLine
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Warn().Err(err).Str("line", line).Msg("replay: skipping malformed line")
			metrics.TicksDropped.WithLabelValues("", "parse").Inc()
			continue
		}

		tick, ok := normalizeReplayLine(rec)
		if !ok {
			metrics.TicksDropped.WithLabelValues(rec.Symbol, "parse").Inc()
			continue
		}
		metrics.TicksIngested.WithLabelValues(tick.Symbol, "replay").Inc()
		handler(tick)
	}
	return scanner.Err()
}

func normalizeReplayLine(rec replayLine) (model.Tick, bool) {
	ts, err := time.Parse(time.RFC3339Nano, rec.TS)
	if err != nil {
		ts, err = time.Parse(time.RFC3339, rec.TS)
		if err != nil {
			return model.Tick{}, false
		}
	}

	qty := rec.Size
	if qty == 0 {
		qty = rec.Quantity
	}

	tick := model.Tick{
		Symbol:    strings.ToUpper(rec.Symbol),
		Timestamp: ts.UTC(),
		Price:     rec.Price,
		Quantity:  qty,
	}
	if !tick.Valid() {
		return model.Tick{}, false
	}
	return tick, true
}
