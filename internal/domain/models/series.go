package models

import (
	"math"
	"time"
)

// PricePoint is one daily observation. AdjClose carries dividend adjustments
// when the source provides them; loaders fall back to Close otherwise.
type PricePoint struct {
	Date     time.Time `json:"date"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
}

// PriceSeries is an ordered daily price history for one instrument.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// Validate checks ordering and sanity of the series. Dates must be strictly
// increasing and prices positive; a flawed series must fail loudly rather than
// feed the backtest.
func (s *PriceSeries) Validate() error {
	for i, p := range s.Points {
		if p.Close <= 0 || p.AdjClose <= 0 {
			return &InputValidationError{Index: i, Date: p.Date, Reason: "non-positive price"}
		}
		if i == 0 {
			continue
		}
		prev := s.Points[i-1].Date
		if p.Date.Equal(prev) {
			return &InputValidationError{Index: i, Date: p.Date, Reason: "duplicate date"}
		}
		if p.Date.Before(prev) {
			return &InputValidationError{Index: i, Date: p.Date, Reason: "dates not increasing"}
		}
	}
	return nil
}

// Closes returns the close prices, which drive the trend signal.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// Returns computes simple daily returns on the adjusted close. The first entry
// is NaN: no prior observation exists.
func (s *PriceSeries) Returns() []float64 {
	out := make([]float64, len(s.Points))
	for i := range s.Points {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = s.Points[i].AdjClose/s.Points[i-1].AdjClose - 1.0
	}
	return out
}

// Dates returns the trading calendar of the series.
func (s *PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Date
	}
	return out
}

// CountBefore returns how many observations precede the given date. Used to
// verify the warm-up slice covers the slowest indicator.
func (s *PriceSeries) CountBefore(t time.Time) int {
	n := 0
	for _, p := range s.Points {
		if !p.Date.Before(t) {
			break
		}
		n++
	}
	return n
}
