package backtest

import (
	"math"
)

// relChangeEpsilon floors the denominator of the relative weight change so a
// move out of a flat position is always large enough to execute.
const relChangeEpsilon = 1e-6

// PositionStep is the daily output of the rebalancing state machine.
type PositionStep struct {
	TargetWeight float64
	LiveWeight   float64
	Rebalanced   bool
	Turnover     float64
}

// ApplyRebalance folds the target weights into executed weights day by day.
// The live weight starts flat and only moves on designated rebalance days, and
// only when the relative change clears the threshold (entries from zero always
// execute). Non-finite targets mean the indicators are still warming up, so
// the current weight is held. Turnover is the absolute weight change on
// execution, zero otherwise.
func ApplyRebalance(targets []float64, rebalanceDays []bool, threshold float64) []PositionStep {
	out := make([]PositionStep, len(targets))
	live := 0.0
	for i, target := range targets {
		step := PositionStep{TargetWeight: target, LiveWeight: live}
		if math.IsNaN(target) || math.IsInf(target, 0) {
			out[i] = step
			continue
		}
		if rebalanceDays[i] {
			relChange := math.Abs(target-live) / math.Max(math.Abs(live), relChangeEpsilon)
			if (relChange >= threshold && target != live) || (live == 0 && target != 0) {
				step.Turnover = math.Abs(target - live)
				step.Rebalanced = true
				live = target
				step.LiveWeight = live
			}
		}
		out[i] = step
	}
	return out
}
