package strategy

import (
	"errors"
	"math"
	"testing"
	"time"

	"TrendPull/internal/domain/models"
)

// testSeries builds a series over consecutive business days starting on a Monday.
func testSeries(closes []float64) *models.PriceSeries {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // Monday
	points := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		points[i] = models.PricePoint{Date: day, Close: c, AdjClose: c}
		day = day.AddDate(0, 0, 1)
	}
	return &models.PriceSeries{Symbol: "TEST", Points: points}
}

func TestSMAWarmup(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("expected NaN before window populated, got %v", got[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if math.Abs(got[i+2]-w) > 1e-12 {
			t.Fatalf("sma[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestTrendSignalFullAlignment(t *testing.T) {
	s := testSeries([]float64{10, 11, 12, 13, 14})
	sigs, err := TrendSignal(s, SignalConfig{FastWindow: 2, SlowWindow: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(sigs[1].Signal) {
		t.Fatalf("expected NaN signal before slow MA populated")
	}
	// Rising prices: close > fast MA > slow MA on every populated day.
	for i := 2; i < len(sigs); i++ {
		if sigs[i].Signal != 1.0 {
			t.Fatalf("day %d signal = %v, want 1.0", i, sigs[i].Signal)
		}
	}
}

func TestTrendSignalPartialAlignment(t *testing.T) {
	// close > slow MA but below the fast MA: half exposure.
	s := testSeries([]float64{8, 14, 12})
	sigs, err := TrendSignal(s, SignalConfig{FastWindow: 2, SlowWindow: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sigs[2].Signal != 0.5 {
		t.Fatalf("signal = %v, want 0.5", sigs[2].Signal)
	}
}

func TestTrendSignalFlat(t *testing.T) {
	s := testSeries([]float64{10, 10, 10, 10})
	sigs, err := TrendSignal(s, SignalConfig{FastWindow: 2, SlowWindow: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Price equals both MAs: no trend, stay in cash.
	for i := 2; i < len(sigs); i++ {
		if sigs[i].Signal != 0.0 {
			t.Fatalf("day %d signal = %v, want 0.0", i, sigs[i].Signal)
		}
	}
}

func TestTrendSignalInsufficientHistory(t *testing.T) {
	s := testSeries([]float64{10, 11})
	_, err := TrendSignal(s, SignalConfig{FastWindow: 2, SlowWindow: 3})
	var ih *models.InsufficientHistoryError
	if !errors.As(err, &ih) {
		t.Fatalf("expected InsufficientHistoryError, got %v", err)
	}
}
