package loader

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRead(t *testing.T, csv string) *Table {
	t.Helper()
	tbl, err := ReadCSV(strings.NewReader(csv), 0)
	require.NoError(t, err)
	return tbl
}

func TestReadCSV_HeaderAndExtraColumns(t *testing.T) {
	tbl := mustRead(t, "\ufeffDate, Open ,Close,Volume\n2024-01-02,1,2,3\n\n2024-01-03,4,5\n")
	assert.Equal(t, []string{"Date", "Open", "Close", "Volume"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "2", tbl.Rows[0]["Close"])
	assert.Equal(t, "5", tbl.Rows[1]["Close"])
	_, ok := tbl.Rows[1]["Volume"]
	assert.False(t, ok, "short row should not invent a cell")
}

func TestReadCSV_Semicolon(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("Date;Close\n2024-01-02;10.5\n"), ';')
	require.NoError(t, err)
	assert.Equal(t, "10.5", tbl.Rows[0]["Close"])
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), 0)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestLoad_SortsAscending(t *testing.T) {
	tbl := mustRead(t, "Date,Close\n2024-01-04,3\n2024-01-02,1\n2024-01-03,2\n")
	s, stats, err := LoadWithStats(tbl, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, stats.Reordered)
	assert.Equal(t, []float64{1, 2, 3}, s.Closes())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), s.First().Date)
}

func TestLoad_DuplicateLastSeenWins(t *testing.T) {
	tbl := mustRead(t, "Date,Close\n2024-01-03,9\n2024-01-02,1\n2024-01-03,7\n2024-01-03 00:00:00,8\n")
	s, stats, err := LoadWithStats(tbl, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 8}, s.Closes())
	require.Len(t, stats.Duplicates, 1)
	assert.Equal(t, 4, stats.Duplicates[0].KeptRow)
	assert.Equal(t, []int{1, 3}, stats.Duplicates[0].Discarded)
	assert.Equal(t, 2, stats.Rows)
}

func TestLoad_CustomColumnsAndLayouts(t *testing.T) {
	tbl := mustRead(t, "day,adj\n01/05/2024,10\n01/08/2024,11\n")
	s, err := Load(tbl, Options{DateColumn: "day", CloseColumn: "adj"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, time.January, s.First().Date.Month())
	assert.Equal(t, 5, s.First().Date.Day())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		row    int
		column string
	}{
		{"bad date", "Date,Close\n2024-01-02,1\nyesterday,2\n", 2, "Date"},
		{"empty date", "Date,Close\n,1\n", 1, "Date"},
		{"bad price", "Date,Close\n2024-01-02,abc\n", 1, "Close"},
		{"negative price", "Date,Close\n2024-01-02,-1\n", 1, "Close"},
		{"nan price", "Date,Close\n2024-01-02,NaN\n", 1, "Close"},
		{"missing column", "Date,Price\n2024-01-02,1\n", 0, "Close"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(mustRead(t, tt.csv), DefaultOptions())
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
			assert.Equal(t, tt.row, pe.Row)
			assert.Equal(t, tt.column, pe.Column)
		})
	}
}

func TestLoad_NegativeIsDistinct(t *testing.T) {
	_, err := Load(mustRead(t, "Date,Close\n2024-01-02,-3.5\n"), DefaultOptions())
	assert.ErrorIs(t, err, errNegative)
}

func TestLoad_EmptyInput(t *testing.T) {
	_, err := Load(mustRead(t, "Date,Close\n"), DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyInput)
	var ee *EmptyInputError
	assert.True(t, errors.As(err, &ee))

	_, err = Load(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestLoad_ZeroPriceAllowed(t *testing.T) {
	s, err := Load(mustRead(t, "Date,Close\n2024-01-02,0\n"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Last().Close)
}
