package backtest

import (
	"math"
	"testing"
)

func TestApplyRebalanceEntryFromFlat(t *testing.T) {
	targets := []float64{0, 0.01, 0.01}
	days := []bool{true, true, true}
	steps := ApplyRebalance(targets, days, 0.15)

	// Any move out of a flat book executes, however small.
	if !steps[1].Rebalanced || steps[1].LiveWeight != 0.01 {
		t.Fatalf("entry from flat must execute: %+v", steps[1])
	}
	if steps[1].Turnover != 0.01 {
		t.Fatalf("turnover = %v, want 0.01", steps[1].Turnover)
	}
}

func TestApplyRebalanceHoldsBelowThreshold(t *testing.T) {
	targets := []float64{1.0, 1.10, 1.20}
	days := []bool{true, true, true}
	steps := ApplyRebalance(targets, days, 0.15)

	if !steps[0].Rebalanced {
		t.Fatalf("initial entry must execute")
	}
	// 10% relative drift: below the 15% threshold, hold.
	if steps[1].Rebalanced || steps[1].LiveWeight != 1.0 {
		t.Fatalf("drift below threshold must hold: %+v", steps[1])
	}
	// 20% relative to the live 1.0: execute.
	if !steps[2].Rebalanced || steps[2].LiveWeight != 1.20 {
		t.Fatalf("drift above threshold must execute: %+v", steps[2])
	}
	if math.Abs(steps[2].Turnover-0.20) > 1e-12 {
		t.Fatalf("turnover = %v, want 0.20", steps[2].Turnover)
	}
}

func TestApplyRebalanceCarriesOnNonDesignatedDays(t *testing.T) {
	targets := []float64{0.8, 1.5, 1.5, 0.1}
	days := []bool{true, false, false, false}
	steps := ApplyRebalance(targets, days, 0.15)

	for i := 1; i < len(steps); i++ {
		if steps[i].Rebalanced || steps[i].Turnover != 0 {
			t.Fatalf("day %d: no execution allowed off the calendar: %+v", i, steps[i])
		}
		if steps[i].LiveWeight != steps[0].LiveWeight {
			t.Fatalf("day %d: live weight must carry forward exactly", i)
		}
	}
}

func TestApplyRebalanceHoldsThroughWarmup(t *testing.T) {
	targets := []float64{math.NaN(), math.NaN(), 0.5}
	days := []bool{true, true, true}
	steps := ApplyRebalance(targets, days, 0.15)

	if steps[0].Rebalanced || steps[1].Rebalanced {
		t.Fatalf("undefined targets must not trade")
	}
	if steps[0].LiveWeight != 0 || steps[1].LiveWeight != 0 {
		t.Fatalf("live weight must stay flat through warm-up")
	}
	if !steps[2].Rebalanced || steps[2].LiveWeight != 0.5 {
		t.Fatalf("first defined target must execute: %+v", steps[2])
	}
}

func TestApplyRebalanceTurnoverIffRebalanced(t *testing.T) {
	targets := []float64{0.5, 0.52, 1.2, 1.2, 0.0}
	days := []bool{true, true, false, true, true}
	steps := ApplyRebalance(targets, days, 0.15)

	for i, s := range steps {
		if (s.Turnover > 0) != s.Rebalanced {
			t.Fatalf("day %d: turnover %v inconsistent with rebalanced %v", i, s.Turnover, s.Rebalanced)
		}
	}
}
