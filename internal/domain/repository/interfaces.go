package repository

import (
	"context"
	"time"

	"TrendPull/internal/domain/models"
)

// PriceSource loads an ordered daily price series covering [from, to]
// inclusive. Implementations read already-stored data; downloading from a
// market-data provider is out of scope.
type PriceSource interface {
	Fetch(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error)
}

// ResultStore persists a finished run for later inspection.
type ResultStore interface {
	SaveRun(ctx context.Context, runID string, report *models.Report) error
}

// ResultPublisher emits a run-summary event to downstream consumers.
type ResultPublisher interface {
	PublishRun(ctx context.Context, runID string, report *models.Report) error
}

// Metrics records operational counters for runs.
type Metrics interface {
	RecordRun(symbol, status string)
	RecordRunDuration(seconds float64)
	RecordFinalEquity(symbol, series string, equity float64)
}
