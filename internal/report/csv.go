package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"TrendPull/internal/domain/models"
)

// WriteDailyCSV writes the per-day audit trail plus the rebased equity curves
// to <outDir>/daily_timeseries.csv.
func WriteDailyCSV(outDir string, rep *models.Report) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, "daily_timeseries.csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"date", "close", "adj_close", "ret",
		"fast_ma", "slow_ma", "signal",
		"realized_vol", "scaling_factor",
		"target_weight", "live_weight", "rebalanced", "turnover", "cost",
		"strategy_return", "strategy_equity", "benchmark_equity",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i, d := range rep.Days {
		row := []string{
			d.Date.Format("2006-01-02"),
			num(d.Close), num(d.AdjClose), num(d.Return),
			num(d.FastMA), num(d.SlowMA), num(d.Signal),
			num(d.RealizedVol), num(d.Scaling),
			num(d.TargetWeight), num(d.LiveWeight),
			strconv.FormatBool(d.Rebalanced), num(d.Turnover), num(d.Cost),
			num(d.StrategyReturn),
			num(rep.Equity[i].Strategy), num(rep.Equity[i].Benchmark),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
