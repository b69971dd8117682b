package models

import (
	"fmt"
	"time"
)

// InputValidationError reports a malformed price series: non-monotonic or
// duplicate dates, or non-positive prices.
type InputValidationError struct {
	Index  int
	Date   time.Time
	Reason string
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid price series at index %d (%s): %s",
		e.Index, e.Date.Format("2006-01-02"), e.Reason)
}

// InsufficientHistoryError reports that the warm-up slice before the reporting
// window is too short to populate the slowest indicator.
type InsufficientHistoryError struct {
	What string
	Need int
	Have int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient warm-up history for %s: need %d observations, have %d",
		e.What, e.Need, e.Have)
}

// DataError reports a data condition that would silently corrupt the backtest,
// such as zero realized volatility making the risk scaling undefined.
type DataError struct {
	Date   time.Time
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error on %s: %s", e.Date.Format("2006-01-02"), e.Reason)
}
