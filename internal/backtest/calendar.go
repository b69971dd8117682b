package backtest

import (
	"time"

	"TrendPull/pkg/util"
)

// WeeklyRebalanceDays marks the designated rebalance day of each trading week:
// the last trading day on or before the week-ending weekday. When that weekday
// is a holiday the designation shifts back to the previous trading day, so no
// week silently loses its rebalance.
func WeeklyRebalanceDays(dates []time.Time, weekEnd time.Weekday) []bool {
	out := make([]bool, len(dates))
	for i := range dates {
		if i == len(dates)-1 {
			out[i] = true
			continue
		}
		cur := util.WeekEndDate(dates[i], weekEnd)
		next := util.WeekEndDate(dates[i+1], weekEnd)
		out[i] = !cur.Equal(next)
	}
	return out
}

// DailyRebalanceDays designates every trading day, for configurations that
// rebalance daily.
func DailyRebalanceDays(dates []time.Time) []bool {
	out := make([]bool, len(dates))
	for i := range out {
		out[i] = true
	}
	return out
}
