package models

import (
	"time"
)

// SignalPoint is the daily trend-signal state. Signal is 0.0, 0.5 or 1.0 once
// the slow moving average is populated, NaN before that.
type SignalPoint struct {
	Date   time.Time `json:"date"`
	FastMA float64   `json:"fast_ma"`
	SlowMA float64   `json:"slow_ma"`
	Signal float64   `json:"signal"`
}

// VolatilityPoint is the daily risk state. Scaling is
// min(max_leverage, target_vol / realized_vol); NaN while the return window is
// filling or when realized volatility is zero.
type VolatilityPoint struct {
	Date        time.Time `json:"date"`
	RealizedVol float64   `json:"realized_vol"`
	Scaling     float64   `json:"scaling_factor"`
}

// DayRecord is the full per-day audit trail of a run: inputs, indicator state,
// position state and cost. LiveWeight only changes on rebalance days.
type DayRecord struct {
	Date           time.Time `json:"date"`
	Close          float64   `json:"close"`
	AdjClose       float64   `json:"adj_close"`
	Return         float64   `json:"ret"`
	FastMA         float64   `json:"fast_ma"`
	SlowMA         float64   `json:"slow_ma"`
	Signal         float64   `json:"signal"`
	RealizedVol    float64   `json:"realized_vol"`
	Scaling        float64   `json:"scaling_factor"`
	TargetWeight   float64   `json:"target_weight"`
	LiveWeight     float64   `json:"live_weight"`
	Rebalanced     bool      `json:"rebalanced"`
	Turnover       float64   `json:"turnover"`
	Cost           float64   `json:"cost"`
	StrategyReturn float64   `json:"strategy_return"`
}

// EquityPoint is one day of the rebased equity curves.
type EquityPoint struct {
	Date      time.Time `json:"date"`
	Strategy  float64   `json:"strategy_equity"`
	Benchmark float64   `json:"benchmark_equity"`
}

// Stats is the KPI block computed over the reporting window.
type Stats struct {
	CAGR           float64 `json:"cagr"`
	AnnVol         float64 `json:"ann_vol"`
	Sharpe         float64 `json:"sharpe"`
	Sortino        float64 `json:"sortino"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	Calmar         float64 `json:"calmar"`
	HitRate        float64 `json:"hit_rate"`
	AvgDailyWin    float64 `json:"avg_daily_win"`
	AvgDailyLoss   float64 `json:"avg_daily_loss"`
	Skew           float64 `json:"skew"`
	ExcessKurtosis float64 `json:"excess_kurtosis"`
	TotalReturn    float64 `json:"total_return"`
	NumDays        int     `json:"num_days"`
}

// Report is the result of one backtest run, sliced to the reporting window and
// rebased to 1.0 on its first day.
type Report struct {
	Symbol      string        `json:"symbol"`
	ReportStart time.Time     `json:"report_start"`
	ReportEnd   time.Time     `json:"report_end"`
	Strategy    Stats         `json:"kpi_strategy"`
	Benchmark   Stats         `json:"kpi_buyhold"`
	Equity      []EquityPoint `json:"equity"`
	Days        []DayRecord   `json:"days,omitempty"`
}
