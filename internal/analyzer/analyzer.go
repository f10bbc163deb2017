// Package analyzer runs the load, compute and classify pipeline and keeps
// the most recent result.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/loader"
	"StockAnalyzer/internal/logger"
	"StockAnalyzer/internal/metrics"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/strategy"
)

// Result is the outcome of one run. It is never modified after Run returns.
type Result struct {
	Source    string
	Series    *model.PriceSeries
	Snapshots []model.IndicatorSnapshot
	Latest    model.LatestSnapshot
	Signal    model.Signal
	Report    string
	Stats     loader.Stats
	LoadedAt  time.Time
}

// Recommendation is shorthand for r.Signal.Recommendation.
func (r *Result) Recommendation() model.Recommendation { return r.Signal.Recommendation }

// Charted is the part of the series where every indicator is defined.
func (r *Result) Charted() []model.IndicatorSnapshot { return calculator.Complete(r.Snapshots) }

// Observer receives run telemetry. *metrics.Recorder implements it.
type Observer interface {
	ObserveRun(outcome string, elapsed time.Duration)
	ObserveSeries(rows, duplicates int)
	SetRecommendation(rec model.Recommendation, at time.Time)
}

// Analyzer serialises runs against one Source. A new successful result fully
// replaces the previous one; a failed run leaves it in place.
type Analyzer struct {
	Source  collector.Source
	Options loader.Options
	Params  calculator.Params
	Ticker  string
	Logger  zerolog.Logger
	Metrics Observer

	mu      sync.Mutex
	current *Result
	now     func() time.Time
}

// New builds an Analyzer with default loader options and indicator windows.
func New(src collector.Source, log zerolog.Logger) *Analyzer {
	return &Analyzer{
		Source:  src,
		Options: loader.DefaultOptions(),
		Params:  calculator.DefaultParams(),
		Logger:  logger.Component(log, "analyzer"),
	}
}

// Current returns the last successful result, or nil before the first one.
func (a *Analyzer) Current() *Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Run fetches, validates, computes and classifies. Only one run executes at
// a time; a concurrent call waits for the in-flight one to finish.
func (a *Analyzer) Run(ctx context.Context) (*Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	start := a.clock()
	res, err := a.run(ctx)
	elapsed := a.clock().Sub(start)

	outcome := Outcome(err)
	if a.Metrics != nil {
		a.Metrics.ObserveRun(outcome, elapsed)
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("source", a.Source.Name()).Str("outcome", outcome).Msg("analysis failed")
		return nil, err
	}

	a.current = res
	if a.Metrics != nil {
		a.Metrics.ObserveSeries(res.Stats.Rows, len(res.Stats.Duplicates))
		a.Metrics.SetRecommendation(res.Recommendation(), res.LoadedAt)
	}
	a.Logger.Info().
		Str("source", res.Source).
		Int("rows", res.Series.Len()).
		Str("latest", res.Latest.Date.Format(model.DateLayout)).
		Str("recommendation", string(res.Recommendation())).
		Dur("elapsed", elapsed).
		Msg("analysis complete")
	return res, nil
}

func (a *Analyzer) run(ctx context.Context) (*Result, error) {
	if err := a.Params.Validate(); err != nil {
		return nil, fmt.Errorf("indicator params: %w", err)
	}
	src := a.Source.Name()

	tbl, err := a.Source.Fetch(ctx)
	if err != nil {
		return nil, &SourceError{Source: src, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, stats, err := loader.LoadWithStats(tbl, a.Options)
	if err != nil {
		var empty *loader.EmptyInputError
		if errors.As(err, &empty) && empty.Source == "" {
			empty.Source = src
		}
		return nil, err
	}
	if stats.Reordered {
		a.Logger.Warn().Str("source", src).Msg("rows were not in date order; sorted ascending")
	}
	for _, d := range stats.Duplicates {
		a.Logger.Warn().
			Str("source", src).
			Str("date", d.Date.Format(model.DateLayout)).
			Int("kept_row", d.KeptRow).
			Ints("discarded_rows", d.Discarded).
			Msg("duplicate date, last row wins")
	}

	snaps := calculator.Compute(series, a.Params)
	latest, err := calculator.Latest(snaps, a.Params.Warmup())
	if err != nil {
		return nil, err
	}
	sig := strategy.Evaluate(latest)

	return &Result{
		Source:    src,
		Series:    series,
		Snapshots: snaps,
		Latest:    latest,
		Signal:    sig,
		Report:    notifier.FormatReport(a.Ticker, latest, sig.Recommendation),
		Stats:     stats,
		LoadedAt:  a.clock(),
	}, nil
}

func (a *Analyzer) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// SourceError wraps a failure of the collector before validation starts.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string { return fmt.Sprintf("source %s: %v", e.Source, e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

// Outcome maps a run error to its metrics label.
func Outcome(err error) string {
	var (
		pe *loader.ParseError
		se *SourceError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &se):
		return metrics.OutcomeSourceError
	case errors.As(err, &pe):
		return metrics.OutcomeParseError
	case errors.Is(err, loader.ErrEmptyInput):
		return metrics.OutcomeEmptyInput
	case errors.Is(err, calculator.ErrInsufficientHistory):
		return metrics.OutcomeInsufficientHistory
	default:
		return "error"
	}
}
