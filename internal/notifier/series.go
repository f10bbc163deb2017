package notifier

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"StockAnalyzer/internal/model"
)

// WriteSeriesJSON writes the snapshots as a JSON array; absent readings are null.
func WriteSeriesJSON(w io.Writer, snaps []model.IndicatorSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if snaps == nil {
		snaps = []model.IndicatorSnapshot{}
	}
	if err := enc.Encode(snaps); err != nil {
		return fmt.Errorf("encode series: %w", err)
	}
	return nil
}

var seriesHeader = []string{"Date", "Close", "SMA_50", "SMA_200", "RSI", "EMA_12", "EMA_26", "MACD", "Signal_Line"}

// WriteSeriesCSV writes the snapshots as CSV; absent readings are empty cells.
func WriteSeriesCSV(w io.Writer, snaps []model.IndicatorSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(seriesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range snaps {
		rec := []string{
			s.Date.Format(model.DateLayout),
			strconv.FormatFloat(s.Close, 'f', -1, 64),
			cell(s.SMA50),
			cell(s.SMA200),
			cell(s.RSI14),
			cell(s.EMA12),
			cell(s.EMA26),
			cell(s.MACD),
			cell(s.SignalLine),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", rec[0], err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(v model.Value) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
