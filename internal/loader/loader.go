// Package loader turns a raw price table into a validated, date-ordered
// model.PriceSeries.
package loader

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockAnalyzer/internal/model"
)

// DefaultDateLayouts are tried in order when parsing the date column.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Options names the columns to read and the accepted date layouts.
type Options struct {
	DateColumn  string
	CloseColumn string
	DateLayouts []string
}

// DefaultOptions matches the usual Yahoo-style export: Date, Close.
func DefaultOptions() Options {
	return Options{
		DateColumn:  "Date",
		CloseColumn: "Close",
		DateLayouts: DefaultDateLayouts,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DateColumn == "" {
		o.DateColumn = d.DateColumn
	}
	if o.CloseColumn == "" {
		o.CloseColumn = d.CloseColumn
	}
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = d.DateLayouts
	}
	return o
}

// Duplicate records a date seen more than once. Only the last row survives.
type Duplicate struct {
	Date      time.Time
	KeptRow   int
	Discarded []int
}

// Stats describes what validation did to the input.
type Stats struct {
	Rows       int
	Reordered  bool
	Duplicates []Duplicate
}

var (
	errBadDate  = errors.New("unrecognised date")
	errBadPrice = errors.New("not a number")
	errNegative = errors.New("negative price")
)

// Load validates t and returns its price series.
func Load(t *Table, opts Options) (*model.PriceSeries, error) {
	s, _, err := LoadWithStats(t, opts)
	return s, err
}

// LoadWithStats is Load plus a description of the reordering and duplicate
// collapsing it applied. On duplicate dates the row appearing last in the
// input wins.
func LoadWithStats(t *Table, opts Options) (*model.PriceSeries, Stats, error) {
	opts = opts.withDefaults()
	var stats Stats

	if t == nil || len(t.Rows) == 0 {
		return nil, stats, &EmptyInputError{}
	}
	for _, col := range []string{opts.DateColumn, opts.CloseColumn} {
		if !t.HasColumn(col) {
			return nil, stats, &ParseError{Column: col, Err: errors.New("column not found")}
		}
	}

	type parsedRow struct {
		row   int
		point model.PricePoint
	}
	parsed := make([]parsedRow, 0, len(t.Rows))
	for i, r := range t.Rows {
		rowNum := i + 1
		rawDate := r[opts.DateColumn]
		date, err := parseDate(rawDate, opts.DateLayouts)
		if err != nil {
			return nil, stats, &ParseError{Row: rowNum, Column: opts.DateColumn, Value: rawDate, Err: err}
		}
		rawClose := r[opts.CloseColumn]
		price, err := parsePrice(rawClose)
		if err != nil {
			return nil, stats, &ParseError{Row: rowNum, Column: opts.CloseColumn, Value: rawClose, Err: err}
		}
		parsed = append(parsed, parsedRow{row: rowNum, point: model.PricePoint{Date: date, Close: price}})
	}

	if !sort.SliceIsSorted(parsed, func(i, j int) bool {
		return parsed[i].point.Date.Before(parsed[j].point.Date)
	}) {
		stats.Reordered = true
		sort.SliceStable(parsed, func(i, j int) bool {
			return parsed[i].point.Date.Before(parsed[j].point.Date)
		})
	}

	// Stable sort keeps equal dates in input order, so the last of a run is
	// the last-seen row.
	points := make([]model.PricePoint, 0, len(parsed))
	for i := 0; i < len(parsed); {
		j := i + 1
		for j < len(parsed) && parsed[j].point.Date.Equal(parsed[i].point.Date) {
			j++
		}
		last := parsed[j-1]
		if j-i > 1 {
			d := Duplicate{Date: last.point.Date, KeptRow: last.row}
			for _, p := range parsed[i : j-1] {
				d.Discarded = append(d.Discarded, p.row)
			}
			stats.Duplicates = append(stats.Duplicates, d)
		}
		points = append(points, last.point)
		i = j
	}

	stats.Rows = len(points)
	series, err := model.NewPriceSeries(points)
	if err != nil {
		return nil, stats, fmt.Errorf("build series: %w", err)
	}
	return series, stats, nil
}

func parseDate(raw string, layouts []string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errBadDate
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errBadDate
}

func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errBadPrice
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}
