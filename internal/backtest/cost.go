package backtest

// CostModel charges transaction cost proportional to turnover: fee plus
// slippage, both quoted in basis points of traded notional.
type CostModel struct {
	FeeBps      float64
	SlippageBps float64
}

// Rate is the combined per-unit-turnover cost rate.
func (m CostModel) Rate() float64 {
	return (m.FeeBps + m.SlippageBps) / 10000.0
}

// Charge returns the cost drag for a day with the given turnover.
func (m CostModel) Charge(turnover float64) float64 {
	return turnover * m.Rate()
}
