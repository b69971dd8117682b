package strategy

import (
	"math"

	"TrendPull/internal/domain/models"
)

// SignalConfig holds the moving-average windows of the trend signal.
type SignalConfig struct {
	FastWindow int
	SlowWindow int
}

// SMA computes a causal simple moving average: entry i uses values[i-window+1..i]
// only. Entries before the window is fully populated are NaN.
func SMA(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// TrendSignal derives the 3-level long-only exposure signal per day:
//
//	1.0 if close > fast MA and fast MA > slow MA
//	0.5 if close > slow MA but not in full alignment
//	0.0 otherwise
//
// Days before the slow MA is populated carry NaN. The series must hold at
// least SlowWindow observations.
func TrendSignal(series *models.PriceSeries, cfg SignalConfig) ([]models.SignalPoint, error) {
	closes := series.Closes()
	if len(closes) < cfg.SlowWindow {
		return nil, &models.InsufficientHistoryError{
			What: "slow moving average",
			Need: cfg.SlowWindow,
			Have: len(closes),
		}
	}

	fast := SMA(closes, cfg.FastWindow)
	slow := SMA(closes, cfg.SlowWindow)

	out := make([]models.SignalPoint, len(closes))
	for i := range closes {
		sp := models.SignalPoint{
			Date:   series.Points[i].Date,
			FastMA: fast[i],
			SlowMA: slow[i],
			Signal: math.NaN(),
		}
		if !math.IsNaN(slow[i]) {
			switch {
			case closes[i] > fast[i] && fast[i] > slow[i]:
				sp.Signal = 1.0
			case closes[i] > slow[i]:
				sp.Signal = 0.5
			default:
				sp.Signal = 0.0
			}
		}
		out[i] = sp
	}
	return out, nil
}
