package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/domain/repository"
	pkgch "TrendPull/pkg/clickhouse"
	applogger "TrendPull/pkg/logger"
)

// CHPriceSource implements PriceSource backed by a ClickHouse daily-bar table.
type CHPriceSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHPriceSource(ch *pkgch.Client, table string) repository.PriceSource {
	return &CHPriceSource{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHPriceSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHPriceSource) Fetch(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error) {
	start := time.Now()
	const qtpl = `
		SELECT day, close, adj_close
		FROM %s
		WHERE symbol = ? AND day >= ? AND day <= ?
		ORDER BY day ASC
	`
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse daily_bars query error",
				applogger.String("table", s.table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get daily bars: %w", err)
	}
	defer rows.Close()

	points := make([]models.PricePoint, 0, 4096)
	for rows.Next() {
		var p models.PricePoint
		var adj sql.NullFloat64
		if err := rows.Scan(&p.Date, &p.Close, &adj); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse daily_bars scan error",
					applogger.String("table", s.table),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan daily bar: %w", err)
		}
		p.AdjClose = p.Close
		if adj.Valid && adj.Float64 > 0 {
			p.AdjClose = adj.Float64
		}
		p.Date = p.Date.UTC()
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse daily_bars rows error",
				applogger.String("table", s.table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("rows: %w", err)
	}

	series := &models.PriceSeries{Symbol: symbol, Points: points}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	if s.l != nil {
		s.l.Info("clickhouse daily_bars ok",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(points)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}
