package perf

import (
	"fmt"
	"math"
	"time"

	"TrendPull/internal/domain/models"

	"gonum.org/v1/gonum/stat"
)

// Config holds the annualization and risk-free assumptions.
type Config struct {
	TradingDays int
	RFAnnual    float64
}

// Evaluate slices the engine output to the inclusive reporting window, rebases
// both equity curves to 1.0 on the first reporting day, and computes the KPI
// blocks for the strategy and the buy-and-hold benchmark.
//
// The first reporting day is the rebase anchor: statistics run over the
// window's day-over-day equity returns, so curve, CAGR and total return stay
// mutually consistent.
func Evaluate(days []models.DayRecord, start, end time.Time, cfg Config) (*models.Report, error) {
	window := slice(days, start, end)
	if len(window) == 0 {
		return nil, fmt.Errorf("no observations in reporting window %s..%s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	stratRets := make([]float64, 0, len(window)-1)
	benchRets := make([]float64, 0, len(window)-1)
	equity := make([]models.EquityPoint, len(window))
	eqS, eqB := 1.0, 1.0
	equity[0] = models.EquityPoint{Date: window[0].Date, Strategy: 1.0, Benchmark: 1.0}

	for i := 1; i < len(window); i++ {
		d := window[i]
		if math.IsNaN(d.StrategyReturn) || math.IsNaN(d.Return) {
			return nil, &models.DataError{Date: d.Date, Reason: "undefined return inside reporting window"}
		}
		stratRets = append(stratRets, d.StrategyReturn)
		benchRets = append(benchRets, d.Return)
		eqS *= 1.0 + d.StrategyReturn
		eqB *= 1.0 + d.Return
		equity[i] = models.EquityPoint{Date: d.Date, Strategy: eqS, Benchmark: eqB}
	}

	rep := &models.Report{
		Symbol:      "",
		ReportStart: window[0].Date,
		ReportEnd:   window[len(window)-1].Date,
		Strategy:    computeStats(stratRets, equityOf(equity, true), cfg),
		Benchmark:   computeStats(benchRets, equityOf(equity, false), cfg),
		Equity:      equity,
		Days:        window,
	}
	return rep, nil
}

func slice(days []models.DayRecord, start, end time.Time) []models.DayRecord {
	out := make([]models.DayRecord, 0, len(days))
	for _, d := range days {
		if d.Date.Before(start) || d.Date.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func equityOf(points []models.EquityPoint, isStrategy bool) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		if isStrategy {
			out[i] = p.Strategy
		} else {
			out[i] = p.Benchmark
		}
	}
	return out
}

// computeStats derives the KPI block from daily returns and the matching
// rebased equity curve (equity[0] == 1.0, len(equity) == len(returns)+1).
func computeStats(returns, equity []float64, cfg Config) models.Stats {
	n := len(equity)
	s := models.Stats{NumDays: n}
	if len(returns) == 0 {
		return s
	}

	td := float64(cfg.TradingDays)
	end := equity[len(equity)-1]

	s.TotalReturn = end - 1.0
	s.CAGR = math.Pow(end, td/float64(n)) - 1.0
	s.AnnVol = stat.StdDev(returns, nil) * math.Sqrt(td)

	rfDaily := math.Pow(1.0+cfg.RFAnnual, 1.0/td) - 1.0
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - rfDaily
	}
	meanExcess := stat.Mean(excess, nil)

	if s.AnnVol > 0 {
		s.Sharpe = meanExcess * td / s.AnnVol
	} else {
		s.Sharpe = math.NaN()
	}

	var wins, losses []float64
	for _, r := range returns {
		if r > 0 {
			wins = append(wins, r)
		} else if r < 0 {
			losses = append(losses, r)
		}
	}
	s.HitRate = float64(len(wins)) / float64(len(returns))
	s.AvgDailyWin = math.NaN()
	if len(wins) > 0 {
		s.AvgDailyWin = stat.Mean(wins, nil)
	}
	s.AvgDailyLoss = math.NaN()
	if len(losses) > 0 {
		s.AvgDailyLoss = stat.Mean(losses, nil)
	}

	s.Sortino = math.NaN()
	if len(losses) > 1 {
		downside := stat.StdDev(losses, nil) * math.Sqrt(td)
		if downside > 0 {
			s.Sortino = meanExcess * td / downside
		}
	}

	s.MaxDrawdown = maxDrawdown(equity)
	s.Calmar = math.NaN()
	if s.MaxDrawdown < 0 {
		s.Calmar = s.CAGR / math.Abs(s.MaxDrawdown)
	}

	s.Skew = math.NaN()
	s.ExcessKurtosis = math.NaN()
	if len(returns) > 2 {
		s.Skew = stat.Skew(returns, nil)
		s.ExcessKurtosis = stat.ExKurtosis(returns, nil)
	}
	return s
}

// maxDrawdown is the deepest peak-to-trough decline: min over time of
// equity / running-max(equity) - 1.
func maxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return math.NaN()
	}
	peak := equity[0]
	mdd := 0.0
	for _, e := range equity {
		if e > peak {
			peak = e
		}
		if dd := e/peak - 1.0; dd < mdd {
			mdd = dd
		}
	}
	return mdd
}
