package models

import (
	"encoding/json"
	"math"
	"time"
)

// nullableFloat marshals NaN and infinities as JSON null. Warm-up days carry
// NaN indicator values and several KPIs are undefined on degenerate windows;
// encoding/json rejects those outright.
type nullableFloat float64

func (v nullableFloat) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (s Stats) MarshalJSON() ([]byte, error) {
	type doc struct {
		CAGR           nullableFloat `json:"cagr"`
		AnnVol         nullableFloat `json:"ann_vol"`
		Sharpe         nullableFloat `json:"sharpe"`
		Sortino        nullableFloat `json:"sortino"`
		MaxDrawdown    nullableFloat `json:"max_drawdown"`
		Calmar         nullableFloat `json:"calmar"`
		HitRate        nullableFloat `json:"hit_rate"`
		AvgDailyWin    nullableFloat `json:"avg_daily_win"`
		AvgDailyLoss   nullableFloat `json:"avg_daily_loss"`
		Skew           nullableFloat `json:"skew"`
		ExcessKurtosis nullableFloat `json:"excess_kurtosis"`
		TotalReturn    nullableFloat `json:"total_return"`
		NumDays        int           `json:"num_days"`
	}
	return json.Marshal(doc{
		CAGR:           nullableFloat(s.CAGR),
		AnnVol:         nullableFloat(s.AnnVol),
		Sharpe:         nullableFloat(s.Sharpe),
		Sortino:        nullableFloat(s.Sortino),
		MaxDrawdown:    nullableFloat(s.MaxDrawdown),
		Calmar:         nullableFloat(s.Calmar),
		HitRate:        nullableFloat(s.HitRate),
		AvgDailyWin:    nullableFloat(s.AvgDailyWin),
		AvgDailyLoss:   nullableFloat(s.AvgDailyLoss),
		Skew:           nullableFloat(s.Skew),
		ExcessKurtosis: nullableFloat(s.ExcessKurtosis),
		TotalReturn:    nullableFloat(s.TotalReturn),
		NumDays:        s.NumDays,
	})
}

func (d DayRecord) MarshalJSON() ([]byte, error) {
	type doc struct {
		Date           time.Time     `json:"date"`
		Close          nullableFloat `json:"close"`
		AdjClose       nullableFloat `json:"adj_close"`
		Return         nullableFloat `json:"ret"`
		FastMA         nullableFloat `json:"fast_ma"`
		SlowMA         nullableFloat `json:"slow_ma"`
		Signal         nullableFloat `json:"signal"`
		RealizedVol    nullableFloat `json:"realized_vol"`
		Scaling        nullableFloat `json:"scaling_factor"`
		TargetWeight   nullableFloat `json:"target_weight"`
		LiveWeight     nullableFloat `json:"live_weight"`
		Rebalanced     bool          `json:"rebalanced"`
		Turnover       nullableFloat `json:"turnover"`
		Cost           nullableFloat `json:"cost"`
		StrategyReturn nullableFloat `json:"strategy_return"`
	}
	return json.Marshal(doc{
		Date:           d.Date,
		Close:          nullableFloat(d.Close),
		AdjClose:       nullableFloat(d.AdjClose),
		Return:         nullableFloat(d.Return),
		FastMA:         nullableFloat(d.FastMA),
		SlowMA:         nullableFloat(d.SlowMA),
		Signal:         nullableFloat(d.Signal),
		RealizedVol:    nullableFloat(d.RealizedVol),
		Scaling:        nullableFloat(d.Scaling),
		TargetWeight:   nullableFloat(d.TargetWeight),
		LiveWeight:     nullableFloat(d.LiveWeight),
		Rebalanced:     d.Rebalanced,
		Turnover:       nullableFloat(d.Turnover),
		Cost:           nullableFloat(d.Cost),
		StrategyReturn: nullableFloat(d.StrategyReturn),
	})
}
