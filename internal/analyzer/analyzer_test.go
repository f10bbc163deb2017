package analyzer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/loader"
	"StockAnalyzer/internal/metrics"
	"StockAnalyzer/internal/model"
)

var end = time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

func zigzag(n int, start float64) []float64 {
	out := make([]float64, n)
	out[0] = start
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			out[i] = out[i-1] + 2
		} else {
			out[i] = out[i-1] - 1
		}
	}
	return out
}

type fakeObserver struct {
	mu       sync.Mutex
	outcomes []string
	rows     int
	rec      model.Recommendation
}

func (f *fakeObserver) ObserveRun(outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

func (f *fakeObserver) ObserveSeries(rows, _ int) { f.rows = rows }

func (f *fakeObserver) SetRecommendation(rec model.Recommendation, _ time.Time) { f.rec = rec }

func newTest(src collector.Source) (*Analyzer, *fakeObserver) {
	obs := &fakeObserver{}
	a := New(src, zerolog.Nop())
	a.Ticker = "TEST"
	a.Metrics = obs
	return a, obs
}

func TestRun_ZigzagUptrendIsBuy(t *testing.T) {
	a, obs := newTest(&collector.MockSource{Closes: zigzag(300, 100), End: end})

	res, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Buy, res.Recommendation())
	assert.Len(t, res.Signal.Reasons, 4)
	assert.Equal(t, 300, res.Series.Len())
	assert.Len(t, res.Snapshots, 300)
	assert.Len(t, res.Charted(), 101)
	assert.Equal(t, end, res.Latest.Date)
	assert.Equal(t, "mock", res.Source)
	assert.Contains(t, res.Report, "Ticker: TEST (2024-06-28)")
	assert.Contains(t, res.Report, "Recommendation: Buy")

	assert.Same(t, res, a.Current())
	assert.Equal(t, []string{metrics.OutcomeOK}, obs.outcomes)
	assert.Equal(t, 300, obs.rows)
	assert.Equal(t, model.Buy, obs.rec)
}

func TestRun_FailureKeepsPreviousResult(t *testing.T) {
	src := &collector.MockSource{Closes: zigzag(300, 100), End: end}
	a, obs := newTest(src)
	assert.Nil(t, a.Current())

	first, err := a.Run(context.Background())
	require.NoError(t, err)

	src.Err = errors.New("disk gone")
	_, err = a.Run(context.Background())
	var se *SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "mock", se.Source)
	assert.Same(t, first, a.Current())
	assert.Equal(t, []string{metrics.OutcomeOK, metrics.OutcomeSourceError}, obs.outcomes)
}

func TestRun_Errors(t *testing.T) {
	header := []string{"Date", "Close"}
	tests := []struct {
		name    string
		src     *collector.MockSource
		outcome string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "short history",
			src:     &collector.MockSource{Closes: zigzag(150, 100), End: end},
			outcome: metrics.OutcomeInsufficientHistory,
			check: func(t *testing.T, err error) {
				var ih *calculator.InsufficientHistoryError
				require.ErrorAs(t, err, &ih)
				assert.Equal(t, 150, ih.Have)
				assert.Equal(t, 200, ih.Need)
			},
		},
		{
			name:    "empty",
			src:     &collector.MockSource{Table: &loader.Table{Header: header}},
			outcome: metrics.OutcomeEmptyInput,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, loader.ErrEmptyInput)
				assert.Contains(t, err.Error(), "mock")
			},
		},
		{
			name: "bad price",
			src: &collector.MockSource{Table: &loader.Table{Header: header, Rows: []map[string]string{
				{"Date": "2024-01-02", "Close": "1"},
				{"Date": "2024-01-03", "Close": "n/a"},
			}}},
			outcome: metrics.OutcomeParseError,
			check: func(t *testing.T, err error) {
				var pe *loader.ParseError
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, 2, pe.Row)
				assert.Equal(t, "Close", pe.Column)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, obs := newTest(tt.src)
			res, err := a.Run(context.Background())
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Nil(t, a.Current())
			tt.check(t, err)
			assert.Equal(t, []string{tt.outcome}, obs.outcomes)
			assert.Equal(t, tt.outcome, Outcome(err))
		})
	}
}

func TestRun_InvalidParams(t *testing.T) {
	a, _ := newTest(&collector.MockSource{Closes: zigzag(300, 100), End: end})
	a.Params.SMAFast = 0
	_, err := a.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "error", Outcome(err))
}

func TestRun_CanceledContext(t *testing.T) {
	a, _ := newTest(&collector.MockSource{Closes: zigzag(300, 100), End: end})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Concurrent(t *testing.T) {
	a, obs := newTest(&collector.MockSource{Closes: zigzag(300, 100), End: end})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Run(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, obs.outcomes, 8)
	require.NotNil(t, a.Current())
	assert.Equal(t, model.Buy, a.Current().Recommendation())
}

func TestRun_WithRecorder(t *testing.T) {
	rec := metrics.New()
	a := New(&collector.MockSource{Closes: zigzag(300, 100), End: end}, zerolog.Nop())
	a.Metrics = rec
	a.now = func() time.Time { return end }
	res, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, end, res.LoadedAt)
}
