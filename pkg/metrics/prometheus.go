package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	finalEquity *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trendpull_runs_total",
				Help: "Total number of backtest runs by outcome",
			},
			[]string{"symbol", "status"},
		),
		runDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trendpull_run_duration_seconds",
				Help:    "Duration of backtest runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		finalEquity: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trendpull_final_equity",
				Help: "Final rebased equity of the most recent run",
			},
			[]string{"symbol", "series"},
		),
	}
}

// RecordRun records a completed or failed run.
func (r *Recorder) RecordRun(symbol, status string) {
	r.runsTotal.WithLabelValues(symbol, status).Inc()
}

// RecordRunDuration records how long a run took.
func (r *Recorder) RecordRunDuration(seconds float64) {
	r.runDuration.Observe(seconds)
}

// RecordFinalEquity records the final equity of a curve ("strategy" or "buyhold").
func (r *Recorder) RecordFinalEquity(symbol, series string, equity float64) {
	r.finalEquity.WithLabelValues(symbol, series).Set(equity)
}
