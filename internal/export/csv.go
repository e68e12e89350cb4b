// Package export writes OHLCV bar series to CSV, the one durable output
// format the core prescribes (the UI's export button is out of scope).
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/gemscap/statarb-engine/internal/model"
)

var header = []string{"timestamp", "open", "high", "low", "close", "volume", "vwap", "trade_count"}

// WriteCSV writes bars as UTF-8 CSV: first column the bar timestamp in
// ISO-8601, remaining columns open,high,low,close,volume,vwap,trade_count.
func WriteCSV(w io.Writer, bars []model.Bar) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, b := range bars {
		row := append([]string{b.BarStart.UTC().Format(time.RFC3339Nano)}, b.Columns()...)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
