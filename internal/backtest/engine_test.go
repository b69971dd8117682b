package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/strategy"
)

func priceSeries(closes []float64) *models.PriceSeries {
	dates := businessDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), len(closes))
	points := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = models.PricePoint{Date: dates[i], Close: c, AdjClose: c}
	}
	return &models.PriceSeries{Symbol: "TEST", Points: points}
}

func testConfig(reportStart time.Time) Config {
	return Config{
		Signal:      strategy.SignalConfig{FastWindow: 5, SlowWindow: 10},
		Vol:         strategy.VolConfig{Window: 5, TargetVol: 0.12, MaxLeverage: 1.5, TradingDays: 252},
		Cadence:     "weekly",
		Weekday:     time.Friday,
		Threshold:   0.15,
		Costs:       CostModel{FeeBps: 2},
		ReportStart: reportStart,
	}
}

func risingCloses(n int) []float64 {
	closes := make([]float64, n)
	closes[0] = 100
	for i := 1; i < n; i++ {
		drift := 1.0004
		if i%2 == 0 {
			drift = 1.0011
		}
		closes[i] = closes[i-1] * drift
	}
	return closes
}

func TestRunRisingSeriesProperties(t *testing.T) {
	series := priceSeries(risingCloses(60))
	reportStart := series.Points[15].Date
	days, err := Run(series, testConfig(reportStart))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, d := range days {
		if !math.IsNaN(d.TargetWeight) && math.Abs(d.TargetWeight) > 1.5 {
			t.Fatalf("day %d: target weight %v exceeds max leverage", i, d.TargetWeight)
		}
		if (d.Turnover > 0) != d.Rebalanced {
			t.Fatalf("day %d: turnover %v inconsistent with rebalanced %v", i, d.Turnover, d.Rebalanced)
		}
		if i > 0 && !d.Rebalanced && d.LiveWeight != days[i-1].LiveWeight {
			t.Fatalf("day %d: live weight drifted without a rebalance", i)
		}
		if d.Cost != 0 && !d.Rebalanced {
			t.Fatalf("day %d: cost charged without a rebalance", i)
		}
		if d.Rebalanced {
			want := d.Turnover * 0.0002
			if math.Abs(d.Cost-want) > 1e-15 {
				t.Fatalf("day %d: cost %v, want %v", i, d.Cost, want)
			}
		}
	}

	// Steady uptrend with vol below target: full signal, capped scaling.
	last := days[len(days)-1]
	if last.Signal != 1.0 {
		t.Fatalf("signal = %v, want 1.0 in a steady uptrend", last.Signal)
	}
	if last.Scaling != 1.5 {
		t.Fatalf("scaling = %v, want leverage cap 1.5 with vol below target", last.Scaling)
	}
	if math.Abs(last.TargetWeight-1.5) > 1e-12 {
		t.Fatalf("target weight = %v, want 1.5", last.TargetWeight)
	}
}

func TestRunSharpDropShrinksScaling(t *testing.T) {
	closes := risingCloses(40)
	closes[30] = closes[29] * 0.90 // single-day -10%
	for i := 31; i < len(closes); i++ {
		closes[i] = closes[i-1] * 1.0004
	}
	series := priceSeries(closes)
	days, err := Run(series, testConfig(series.Points[15].Date))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := days[29]
	after := days[32] // vol window now includes the drop
	if !(after.RealizedVol > before.RealizedVol) {
		t.Fatalf("realized vol must spike after the drop: %v -> %v", before.RealizedVol, after.RealizedVol)
	}
	want := math.Min(1.5, 0.12/after.RealizedVol)
	if math.Abs(after.Scaling-want) > 1e-12 {
		t.Fatalf("scaling = %v, want min(1.5, 0.12/vol) = %v", after.Scaling, want)
	}
	if !(after.Scaling < before.Scaling) {
		t.Fatalf("scaling must shrink after the vol spike: %v -> %v", before.Scaling, after.Scaling)
	}
}

func TestRunConstantSeriesFails(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	series := priceSeries(closes)

	_, err := Run(series, testConfig(series.Points[15].Date))
	var de *models.DataError
	if !errors.As(err, &de) {
		t.Fatalf("flat series must fail with DataError, got %v", err)
	}
}

func TestRunInsufficientWarmup(t *testing.T) {
	series := priceSeries(risingCloses(40))
	// Report starts on day 3: nowhere near the 10-day slow window.
	_, err := Run(series, testConfig(series.Points[3].Date))
	var ih *models.InsufficientHistoryError
	if !errors.As(err, &ih) {
		t.Fatalf("expected InsufficientHistoryError, got %v", err)
	}
}

func TestRunRejectsDuplicateDates(t *testing.T) {
	series := priceSeries(risingCloses(40))
	series.Points[5].Date = series.Points[4].Date

	_, err := Run(series, testConfig(series.Points[15].Date))
	var ive *models.InputValidationError
	if !errors.As(err, &ive) {
		t.Fatalf("expected InputValidationError, got %v", err)
	}
}

func TestRunLaggedReturns(t *testing.T) {
	series := priceSeries(risingCloses(60))
	days, err := Run(series, testConfig(series.Points[15].Date))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i < len(days); i++ {
		if math.IsNaN(days[i].StrategyReturn) {
			continue
		}
		want := days[i-1].LiveWeight*days[i].Return - days[i].Cost
		if math.Abs(days[i].StrategyReturn-want) > 1e-15 {
			t.Fatalf("day %d: strategy return %v, want %v (yesterday's weight)", i, days[i].StrategyReturn, want)
		}
	}
}
