package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAnalyzer/internal/loader"
)

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Open,Close\n2024-01-02,1,2\n2024-01-03,2,3\n"), 0o644))

	src := NewFileSource(path, 0)
	assert.Equal(t, path, src.Name())
	tbl, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "3", tbl.Rows[1]["Close"])
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.csv"), 0).Fetch(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMockSource(t *testing.T) {
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	src := &MockSource{Closes: []float64{1, 2.5, 3}, End: end}
	tbl, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "2024-06-28", tbl.Rows[0]["Date"])
	assert.Equal(t, "2024-06-30", tbl.Rows[2]["Date"])
	assert.Equal(t, "2.5", tbl.Rows[1]["Close"])

	s, err := loader.Load(tbl, loader.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 3}, s.Closes())

	boom := errors.New("boom")
	_, err = (&MockSource{Err: boom}).Fetch(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDemoCloses(t *testing.T) {
	a := DemoCloses(300, 100)
	b := DemoCloses(300, 100)
	assert.Equal(t, a, b)
	for _, c := range a {
		assert.Greater(t, c, 0.0)
	}
}

const yahooBody = `{"chart":{"result":[{"timestamp":[1704292200,1704205800,1704378600],
"indicators":{"quote":[{"close":[185.5,null,184.25]}]}}],"error":null}}`

func TestYahooSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/^GSPC", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		_, _ = w.Write([]byte(yahooBody))
	}))
	defer srv.Close()

	src := NewYahooSource("SPX500", "1y", "")
	src.BaseURL = srv.URL
	tbl, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "2024-01-03", tbl.Rows[0]["Date"])
	assert.Equal(t, "185.5", tbl.Rows[0]["Close"])
	assert.Equal(t, "2024-01-04", tbl.Rows[1]["Date"])
}

func TestYahooSource_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	src := NewYahooSource("ZZZZ", "", "")
	src.BaseURL = srv.URL
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}
