package strategy

import (
	"errors"
	"math"
	"testing"

	"TrendPull/internal/domain/models"
)

func TestRollingVolWarmupAndValue(t *testing.T) {
	// Alternating +1%/-1% returns: sample std of any 2-window is sqrt(2)*0.01.
	returns := []float64{math.NaN(), 0.01, -0.01, 0.01, -0.01}
	vol := RollingVol(returns, 2, 252)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(vol[i]) {
			t.Fatalf("vol[%d] = %v, want NaN during warm-up", i, vol[i])
		}
	}
	want := math.Sqrt(2) * 0.01 * math.Sqrt(252)
	for i := 2; i < len(vol); i++ {
		if math.Abs(vol[i]-want) > 1e-12 {
			t.Fatalf("vol[%d] = %v, want %v", i, vol[i], want)
		}
	}
}

func TestScalingCapsAtMaxLeverage(t *testing.T) {
	// Tiny uneven drift: realized vol far below target, cap must bind.
	closes := make([]float64, 10)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		drift := 1.0001
		if i%2 == 0 {
			drift = 1.0003
		}
		closes[i] = closes[i-1] * drift
	}
	s := testSeries(closes)

	pts := VolatilityPoints(s, VolConfig{Window: 3, TargetVol: 0.12, MaxLeverage: 1.5, TradingDays: 252})
	last := pts[len(pts)-1]
	if math.IsNaN(last.Scaling) {
		t.Fatalf("expected populated scaling, got NaN (vol %v)", last.RealizedVol)
	}
	if last.Scaling != 1.5 {
		t.Fatalf("scaling = %v, want cap 1.5", last.Scaling)
	}
}

func TestScalingShrinksWithVol(t *testing.T) {
	closes := []float64{100, 101, 99, 102, 98, 103}
	s := testSeries(closes)

	pts := VolatilityPoints(s, VolConfig{Window: 3, TargetVol: 0.12, MaxLeverage: 1.5, TradingDays: 252})
	last := pts[len(pts)-1]
	if math.IsNaN(last.RealizedVol) || last.RealizedVol <= 0 {
		t.Fatalf("expected positive realized vol, got %v", last.RealizedVol)
	}
	want := math.Min(1.5, 0.12/last.RealizedVol)
	if math.Abs(last.Scaling-want) > 1e-12 {
		t.Fatalf("scaling = %v, want %v", last.Scaling, want)
	}
}

func TestTargetWeightsZeroVolFails(t *testing.T) {
	// Constant prices: zero realized vol must surface as DataError, never as a
	// silent max-leverage default.
	s := testSeries([]float64{50, 50, 50, 50, 50, 50})
	sigs, err := TrendSignal(s, SignalConfig{FastWindow: 2, SlowWindow: 3})
	if err != nil {
		t.Fatalf("unexpected signal error: %v", err)
	}
	vols := VolatilityPoints(s, VolConfig{Window: 3, TargetVol: 0.12, MaxLeverage: 1.5, TradingDays: 252})

	_, err = TargetWeights(sigs, vols)
	var de *models.DataError
	if !errors.As(err, &de) {
		t.Fatalf("expected DataError, got %v", err)
	}
}

func TestTargetWeightsCappedByLeverage(t *testing.T) {
	closes := make([]float64, 12)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		drift := 1.0002
		if i%2 == 0 {
			drift = 1.0005
		}
		closes[i] = closes[i-1] * drift
	}
	s := testSeries(closes)

	sigs, err := TrendSignal(s, SignalConfig{FastWindow: 2, SlowWindow: 3})
	if err != nil {
		t.Fatalf("unexpected signal error: %v", err)
	}
	vols := VolatilityPoints(s, VolConfig{Window: 3, TargetVol: 0.12, MaxLeverage: 1.5, TradingDays: 252})
	weights, err := TargetWeights(sigs, vols)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, w := range weights {
		if !math.IsNaN(w) && math.Abs(w) > 1.5 {
			t.Fatalf("weight[%d] = %v exceeds max leverage", i, w)
		}
	}
}
