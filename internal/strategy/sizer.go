package strategy

import (
	"math"

	"TrendPull/internal/domain/models"
)

// TargetWeights combines the trend signal with the risk scaling into one
// target weight per day: weight = signal * scaling. The leverage cap is
// already embedded in the scaling factor.
//
// Zero realized volatility makes the scaling undefined; that is surfaced as a
// DataError for the first offending day instead of silently defaulting to max
// leverage. Days where signal or scaling are still warming up yield NaN and
// the rebalancer holds through them.
func TargetWeights(signals []models.SignalPoint, vols []models.VolatilityPoint) ([]float64, error) {
	out := make([]float64, len(signals))
	for i := range signals {
		v := vols[i]
		if !math.IsNaN(v.RealizedVol) && v.RealizedVol == 0 {
			return nil, &models.DataError{
				Date:   v.Date,
				Reason: "zero realized volatility, risk scaling undefined",
			}
		}
		out[i] = signals[i].Signal * v.Scaling
	}
	return out, nil
}
