// Package metrics exposes analysis run counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockAnalyzer/internal/model"
)

// Outcome labels for runs_total.
const (
	OutcomeOK                  = "ok"
	OutcomeParseError          = "parse_error"
	OutcomeEmptyInput          = "empty_input"
	OutcomeInsufficientHistory = "insufficient_history"
	OutcomeSourceError         = "source_error"
)

var recommendations = []model.Recommendation{model.Buy, model.Sell, model.Hold}

// Recorder holds the collectors on its own registry so tests and multiple
// instances never collide on the default one.
type Recorder struct {
	registry       *prometheus.Registry
	runs           *prometheus.CounterVec
	duration       prometheus.Histogram
	rows           prometheus.Gauge
	duplicates     prometheus.Counter
	recommendation *prometheus.GaugeVec
	lastSuccess    prometheus.Gauge
}

// New creates a recorder with every collector registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockanalyzer",
			Name:      "runs_total",
			Help:      "Analysis runs by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stockanalyzer",
			Name:      "run_duration_seconds",
			Help:      "Wall time of one load-compute-classify run",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stockanalyzer",
			Name:      "series_rows",
			Help:      "Rows in the currently loaded price series",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockanalyzer",
			Name:      "duplicate_dates_total",
			Help:      "Dates collapsed by the last-seen-wins rule",
		}),
		recommendation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "stockanalyzer",
			Name:      "recommendation",
			Help:      "1 for the current recommendation, 0 otherwise",
		}, []string{"label"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stockanalyzer",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}
	r.registry.MustRegister(r.runs, r.duration, r.rows, r.duplicates, r.recommendation, r.lastSuccess)
	return r
}

// Registry is exposed for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveRun records one finished run.
func (r *Recorder) ObserveRun(outcome string, elapsed time.Duration) {
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveSeries records the size of a freshly loaded series.
func (r *Recorder) ObserveSeries(rows, duplicates int) {
	r.rows.Set(float64(rows))
	r.duplicates.Add(float64(duplicates))
}

// SetRecommendation flags rec as current.
func (r *Recorder) SetRecommendation(rec model.Recommendation, at time.Time) {
	for _, c := range recommendations {
		v := 0.0
		if c == rec {
			v = 1
		}
		r.recommendation.WithLabelValues(string(c)).Set(v)
	}
	r.lastSuccess.Set(float64(at.Unix()))
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
