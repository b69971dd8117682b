package usecase

import (
	"context"
	"testing"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/pkg/config"
)

// stubPriceSource serves a synthetic business-day series and records the
// requested window.
type stubPriceSource struct {
	series   *models.PriceSeries
	from, to time.Time
}

func (s *stubPriceSource) Fetch(_ context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error) {
	s.from, s.to = from, to
	out := &models.PriceSeries{Symbol: symbol}
	for _, p := range s.series.Points {
		if p.Date.Before(from) || p.Date.After(to) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out, nil
}

type stubMetrics struct {
	runs      map[string]int
	durations int
	equities  map[string]float64
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{runs: map[string]int{}, equities: map[string]float64{}}
}

func (m *stubMetrics) RecordRun(_, status string)         { m.runs[status]++ }
func (m *stubMetrics) RecordRunDuration(float64)          { m.durations++ }
func (m *stubMetrics) RecordFinalEquity(_, series string, eq float64) {
	m.equities[series] = eq
}

func syntheticSeries(start time.Time, n int) *models.PriceSeries {
	s := &models.PriceSeries{Symbol: "TEST"}
	day := start
	price := 100.0
	for len(s.Points) < n {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			drift := 1.0004
			if len(s.Points)%2 == 0 {
				drift = 1.0011
			}
			price *= drift
			s.Points = append(s.Points, models.PricePoint{Date: day, Close: price, AdjClose: price})
		}
		day = day.AddDate(0, 0, 1)
	}
	return s
}

func testRunnerConfig(t *testing.T, series *models.PriceSeries) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.Environment = "test"
	c.Data.Symbol = "TEST"
	c.Data.WarmupStart = series.Points[0].Date.Format("2006-01-02")
	c.Data.ReportStart = series.Points[30].Date.Format("2006-01-02")
	c.Data.ReportEnd = series.Points[len(series.Points)-1].Date.Format("2006-01-02")
	c.Strategy.FastWindow = 5
	c.Strategy.SlowWindow = 10
	c.Strategy.VolWindow = 5
	c.Strategy.TargetVol = 0.12
	c.Strategy.MaxLeverage = 1.5
	c.Rebalance.Cadence = "weekly"
	c.Rebalance.Weekday = "friday"
	c.Rebalance.Threshold = 0.15
	c.Costs.FeeBps = 2
	c.Perf.TradingDays = 252
	return c
}

func TestRunnerRunProducesReport(t *testing.T) {
	series := syntheticSeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 80)
	cfg := testRunnerConfig(t, series)
	src := &stubPriceSource{series: series}
	m := newStubMetrics()

	runner := NewBacktestRunner(cfg, src, nil, nil, m, nil)
	runID, rep, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runID) != 16 {
		t.Fatalf("run id = %q, want 16-char fingerprint", runID)
	}
	if rep.Symbol != "TEST" {
		t.Fatalf("symbol = %q", rep.Symbol)
	}
	if rep.Equity[0].Strategy != 1.0 || rep.Equity[0].Benchmark != 1.0 {
		t.Fatalf("equity must rebase to 1.0, got %+v", rep.Equity[0])
	}

	// The fetch window spans warm-up through report end.
	if !src.from.Equal(cfg.WarmupStartDate()) || !src.to.Equal(cfg.ReportEndDate()) {
		t.Fatalf("fetch window %v..%v, want %v..%v",
			src.from, src.to, cfg.WarmupStartDate(), cfg.ReportEndDate())
	}

	if m.runs["ok"] != 1 || m.durations != 1 {
		t.Fatalf("metrics not recorded: %+v", m)
	}
	if m.equities["strategy"] != rep.Equity[len(rep.Equity)-1].Strategy {
		t.Fatalf("final equity gauge mismatch")
	}
}

func TestRunnerRunRecordsFailure(t *testing.T) {
	series := syntheticSeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 80)
	cfg := testRunnerConfig(t, series)
	// Report start too early for the slow window to warm up.
	cfg.Data.ReportStart = series.Points[3].Date.Format("2006-01-02")
	m := newStubMetrics()

	runner := NewBacktestRunner(cfg, &stubPriceSource{series: series}, nil, nil, m, nil)
	if _, _, err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected warm-up error")
	}
	if m.runs["error"] != 1 {
		t.Fatalf("failed run not counted: %+v", m.runs)
	}
}

func TestParamsFromRequestOverlay(t *testing.T) {
	series := syntheticSeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 80)
	cfg := testRunnerConfig(t, series)
	runner := NewBacktestRunner(cfg, &stubPriceSource{series: series}, nil, nil, nil, nil)

	threshold := 0.05
	req := &models.RunRequest{
		Symbol:     "OTHER",
		FastWindow: 20,
		SlowWindow: 60,
		Threshold:  &threshold,
	}
	p, err := runner.ParamsFromRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Symbol != "OTHER" || p.FastWindow != 20 || p.SlowWindow != 60 || p.Threshold != 0.05 {
		t.Fatalf("overlay broke: %+v", p)
	}
	// Untouched fields inherit the configured defaults.
	if p.VolWindow != 5 || p.MaxLeverage != 1.5 {
		t.Fatalf("defaults lost: %+v", p)
	}

	if p.Fingerprint() == runner.DefaultParams().Fingerprint() {
		t.Fatalf("different parameters must produce different fingerprints")
	}

	req = &models.RunRequest{FastWindow: 60, SlowWindow: 60}
	if _, err := runner.ParamsFromRequest(req); err == nil {
		t.Fatalf("expected error for fast_window >= slow_window")
	}
}
