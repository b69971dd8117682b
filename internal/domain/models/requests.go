package models

// RunRequest is the HTTP payload for an on-demand backtest run. Zero-valued
// fields inherit the server's configured defaults; pointer fields distinguish
// "absent" from a legitimate zero.
type RunRequest struct {
	Symbol      string `json:"symbol" validate:"omitempty,max=24"`
	WarmupStart string `json:"warmup_start" validate:"omitempty,datetime=2006-01-02"`
	ReportStart string `json:"report_start" validate:"omitempty,datetime=2006-01-02"`
	ReportEnd   string `json:"report_end" validate:"omitempty,datetime=2006-01-02"`

	FastWindow  int     `json:"fast_window" validate:"omitempty,gt=0"`
	SlowWindow  int     `json:"slow_window" validate:"omitempty,gt=0"`
	VolWindow   int     `json:"vol_window" validate:"omitempty,gt=1"`
	TargetVol   float64 `json:"target_vol" validate:"omitempty,gt=0"`
	MaxLeverage float64 `json:"max_leverage" validate:"omitempty,gt=0,lte=10"`

	Threshold   *float64 `json:"rebalance_threshold" validate:"omitempty,gte=0"`
	FeeBps      *float64 `json:"fee_bps" validate:"omitempty,gte=0"`
	SlippageBps *float64 `json:"slippage_bps" validate:"omitempty,gte=0"`

	IncludeDays bool `json:"include_days"`
}
