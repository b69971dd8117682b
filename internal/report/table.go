package report

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"TrendPull/internal/domain/models"
)

// WriteTable prints the side-by-side KPI comparison of the strategy and the
// buy-and-hold benchmark.
func WriteTable(w io.Writer, rep *models.Report) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\n%s  %s .. %s  (%d trading days)\n",
		rep.Symbol,
		rep.ReportStart.Format("2006-01-02"),
		rep.ReportEnd.Format("2006-01-02"),
		rep.Strategy.NumDays,
	)
	p.Fprintf(w, "%-18s %14s %14s\n", "", "strategy", "buy & hold")
	line := func(name string, s, b float64, pct bool) {
		p.Fprintf(w, "%-18s %14s %14s\n", name, formatStat(s, pct), formatStat(b, pct))
	}

	line("CAGR", rep.Strategy.CAGR, rep.Benchmark.CAGR, true)
	line("Total return", rep.Strategy.TotalReturn, rep.Benchmark.TotalReturn, true)
	line("Ann. vol", rep.Strategy.AnnVol, rep.Benchmark.AnnVol, true)
	line("Sharpe", rep.Strategy.Sharpe, rep.Benchmark.Sharpe, false)
	line("Sortino", rep.Strategy.Sortino, rep.Benchmark.Sortino, false)
	line("Max drawdown", rep.Strategy.MaxDrawdown, rep.Benchmark.MaxDrawdown, true)
	line("Calmar", rep.Strategy.Calmar, rep.Benchmark.Calmar, false)
	line("Hit rate", rep.Strategy.HitRate, rep.Benchmark.HitRate, true)
	line("Avg daily win", rep.Strategy.AvgDailyWin, rep.Benchmark.AvgDailyWin, true)
	line("Avg daily loss", rep.Strategy.AvgDailyLoss, rep.Benchmark.AvgDailyLoss, true)
	line("Skew", rep.Strategy.Skew, rep.Benchmark.Skew, false)
	line("Excess kurtosis", rep.Strategy.ExcessKurtosis, rep.Benchmark.ExcessKurtosis, false)
}

// WritePositions prints the executed rebalances, one line per trade.
func WritePositions(w io.Writer, rep *models.Report) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "\nrebalances:\n")
	for _, d := range rep.Days {
		if d.Rebalanced {
			p.Fprintf(w, "  %s  weight -> %7.4f  turnover %.4f  cost %.6f\n",
				d.Date.Format("2006-01-02"), d.LiveWeight, d.Turnover, d.Cost)
		}
	}
}

func formatStat(v float64, pct bool) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	if pct {
		return fmt.Sprintf("%.2f%%", v*100)
	}
	return fmt.Sprintf("%.3f", v)
}
