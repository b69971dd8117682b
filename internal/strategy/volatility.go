package strategy

import (
	"math"

	"TrendPull/internal/domain/models"

	"gonum.org/v1/gonum/stat"
)

// VolConfig holds the realized-volatility estimator parameters.
type VolConfig struct {
	Window      int
	TargetVol   float64
	MaxLeverage float64
	TradingDays int
}

// RollingVol computes the rolling sample standard deviation of the daily
// returns over the given window, annualized by sqrt(tradingDays). Entry i uses
// returns[i-window+1..i]; entries with fewer than window finite returns are NaN.
func RollingVol(returns []float64, window, tradingDays int) []float64 {
	out := make([]float64, len(returns))
	ann := math.Sqrt(float64(tradingDays))
	buf := make([]float64, 0, window)
	for i := range returns {
		out[i] = math.NaN()
		if i < window {
			// returns[0] is NaN, so the first full window ends at index window
			continue
		}
		buf = buf[:0]
		ok := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(returns[j]) {
				ok = false
				break
			}
			buf = append(buf, returns[j])
		}
		if !ok {
			continue
		}
		out[i] = stat.StdDev(buf, nil) * ann
	}
	return out
}

// VolatilityPoints combines realized volatility with the risk scaling factor
// min(max_leverage, target_vol / realized_vol). Scaling stays NaN while the
// window is filling and when realized volatility is zero; the position sizer
// decides how to surface the latter.
func VolatilityPoints(series *models.PriceSeries, cfg VolConfig) []models.VolatilityPoint {
	vol := RollingVol(series.Returns(), cfg.Window, cfg.TradingDays)

	out := make([]models.VolatilityPoint, len(vol))
	for i, v := range vol {
		vp := models.VolatilityPoint{
			Date:        series.Points[i].Date,
			RealizedVol: v,
			Scaling:     math.NaN(),
		}
		if !math.IsNaN(v) && v > 0 {
			vp.Scaling = math.Min(cfg.MaxLeverage, cfg.TargetVol/v)
		}
		out[i] = vp
	}
	return out
}
