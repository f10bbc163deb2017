package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockAnalyzer/internal/analyzer"
	"StockAnalyzer/internal/logger"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/notifier"
)

// Scheduler re-runs the analyzer on a cron schedule and delivers the report
// whenever the recommendation changes.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer *analyzer.Analyzer
	Notifier notifier.Notifier
	Logger   zerolog.Logger
	Ctx      context.Context

	mu       sync.Mutex
	last     model.Recommendation
	notified bool
}

// NewScheduler creates a Scheduler. Overlapping triggers are skipped rather
// than queued.
func NewScheduler(ctx context.Context, a *analyzer.Analyzer, n notifier.Notifier, log zerolog.Logger) *Scheduler {
	log = logger.Component(log, "scheduler")
	cl := cronLogger{l: log}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Analyzer: a,
		Notifier: n,
		Logger:   log,
		Ctx:      ctx,
	}
}

// Register adds the reload job. expr uses the six-field form with seconds.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.reload); err != nil {
		return fmt.Errorf("register reload task %q: %w", expr, err)
	}
	s.Logger.Info().Str("cron", expr).Msg("reload task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Msg("scheduler started")
}

// Stop waits for a running reload to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info().Msg("scheduler stopped")
}

// RunNow executes one reload immediately, outside the cron schedule.
func (s *Scheduler) RunNow() (*analyzer.Result, error) {
	return s.runOnce()
}

func (s *Scheduler) reload() {
	_, _ = s.runOnce()
}

func (s *Scheduler) runOnce() (*analyzer.Result, error) {
	s.Logger.Info().Msg("running reload")
	res, err := s.Analyzer.Run(s.Ctx)
	if err != nil {
		s.trySend(notifier.FormatFailure(s.Analyzer.Source.Name(), err))
		return nil, err
	}

	s.mu.Lock()
	changed := !s.notified || res.Recommendation() != s.last
	prev := s.last
	s.last = res.Recommendation()
	s.notified = true
	s.mu.Unlock()

	if !changed {
		s.Logger.Debug().Str("recommendation", string(res.Recommendation())).Msg("recommendation unchanged")
		return res, nil
	}
	if prev != "" {
		s.Logger.Info().Str("from", string(prev)).Str("to", string(res.Recommendation())).Msg("recommendation changed")
	}
	s.trySend(res.Report + "\n\n" + notifier.FormatReasons(res.Signal))
	return res, nil
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Send(s.Ctx, text); err != nil {
		s.Logger.Error().Err(err).Str("notifier", s.Notifier.Name()).Msg("send notification")
	}
}

// cronLogger routes robfig/cron's key-value logging through zerolog.
type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg("cron: " + strings.TrimSpace(msg))
}
