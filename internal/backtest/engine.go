package backtest

import (
	"fmt"
	"math"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/strategy"
)

// Config drives one engine run over a warm-up + reporting price series.
type Config struct {
	Signal    strategy.SignalConfig
	Vol       strategy.VolConfig
	Cadence   string // weekly or daily
	Weekday   time.Weekday
	Threshold float64
	Costs     CostModel

	// ReportStart anchors the warm-up check: the series must carry enough
	// observations before it to populate the slow MA and the vol window.
	ReportStart time.Time
}

// Run executes the full day-by-day simulation over the series: trend signal,
// realized volatility, vol-targeted weights, weekly execution with threshold,
// turnover costs, and lagged daily strategy returns. The result covers the
// whole warm-up + reporting range; slicing and rebasing happen in the
// performance evaluator.
func Run(series *models.PriceSeries, cfg Config) ([]models.DayRecord, error) {
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("price series: %w", err)
	}

	if !cfg.ReportStart.IsZero() {
		need := cfg.Signal.SlowWindow
		if v := cfg.Vol.Window + 1; v > need {
			need = v
		}
		if have := series.CountBefore(cfg.ReportStart); have < need {
			return nil, &models.InsufficientHistoryError{What: "indicator warm-up", Need: need, Have: have}
		}
	}

	signals, err := strategy.TrendSignal(series, cfg.Signal)
	if err != nil {
		return nil, err
	}
	vols := strategy.VolatilityPoints(series, cfg.Vol)

	targets, err := strategy.TargetWeights(signals, vols)
	if err != nil {
		return nil, err
	}

	var rebalanceDays []bool
	if cfg.Cadence == "daily" {
		rebalanceDays = DailyRebalanceDays(series.Dates())
	} else {
		rebalanceDays = WeeklyRebalanceDays(series.Dates(), cfg.Weekday)
	}

	steps := ApplyRebalance(targets, rebalanceDays, cfg.Threshold)
	returns := series.Returns()

	out := make([]models.DayRecord, len(series.Points))
	for i, p := range series.Points {
		rec := models.DayRecord{
			Date:         p.Date,
			Close:        p.Close,
			AdjClose:     p.AdjClose,
			Return:       returns[i],
			FastMA:       signals[i].FastMA,
			SlowMA:       signals[i].SlowMA,
			Signal:       signals[i].Signal,
			RealizedVol:  vols[i].RealizedVol,
			Scaling:      vols[i].Scaling,
			TargetWeight: steps[i].TargetWeight,
			LiveWeight:   steps[i].LiveWeight,
			Rebalanced:   steps[i].Rebalanced,
			Turnover:     steps[i].Turnover,
			Cost:         cfg.Costs.Charge(steps[i].Turnover),
		}

		// No look-ahead: today's pnl runs on yesterday's executed weight.
		if i == 0 || math.IsNaN(returns[i]) {
			rec.StrategyReturn = math.NaN()
		} else {
			rec.StrategyReturn = steps[i-1].LiveWeight*returns[i] - rec.Cost
		}
		out[i] = rec
	}
	return out, nil
}
