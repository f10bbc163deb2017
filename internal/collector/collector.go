package collector

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"StockAnalyzer/internal/loader"
	"StockAnalyzer/internal/model"
)

// FileSource reads a delimited file from disk on every Fetch, so a reload
// always sees the current contents.
type FileSource struct {
	Path      string
	Delimiter rune
}

func NewFileSource(path string, delim rune) *FileSource {
	return &FileSource{Path: path, Delimiter: delim}
}

func (f *FileSource) Name() string { return f.Path }

func (f *FileSource) Fetch(_ context.Context) (*loader.Table, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer fh.Close()

	t, err := loader.ReadCSV(fh, f.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return t, nil
}

// MockSource returns a fixed table for development and testing. When
// Closes is set, it is rendered as consecutive daily rows ending at End.
type MockSource struct {
	Table  *loader.Table
	Closes []float64
	End    time.Time
	Err    error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Fetch(_ context.Context) (*loader.Table, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Table != nil {
		return m.Table, nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	return TableFromCloses(m.Closes, end), nil
}

// TableFromCloses builds a Date/Close table of consecutive days whose last
// row falls on end.
func TableFromCloses(closes []float64, end time.Time) *loader.Table {
	t := &loader.Table{Header: []string{"Date", "Close"}}
	for i, c := range closes {
		d := end.AddDate(0, 0, -(len(closes) - 1 - i))
		t.Rows = append(t.Rows, map[string]string{
			"Date":  d.Format(model.DateLayout),
			"Close": strconv.FormatFloat(c, 'f', -1, 64),
		})
	}
	return t
}

// DemoCloses generates a deterministic drifting zig-zag, enough history for
// every indicator.
func DemoCloses(count int, base float64) []float64 {
	closes := make([]float64, count)
	p := base
	for i := 0; i < count; i++ {
		switch i % 3 {
		case 0:
			p *= 1.012
		case 1:
			p *= 0.995
		default:
			p *= 0.999
		}
		closes[i] = p
	}
	return closes
}
