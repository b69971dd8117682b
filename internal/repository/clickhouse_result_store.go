package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/domain/repository"
	pkgch "TrendPull/pkg/clickhouse"
	applogger "TrendPull/pkg/logger"
)

// CHResultStore persists finished runs into a ClickHouse equity table, one row
// per reporting day plus the run identity, for later inspection and dashboards.
type CHResultStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHResultStore(ch *pkgch.Client, table string) repository.ResultStore {
	return &CHResultStore{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHResultStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHResultStore) SaveRun(ctx context.Context, runID string, report *models.Report) error {
	if report == nil || len(report.Equity) == 0 {
		return nil
	}
	start := time.Now()

	// Chunked multi-row VALUES insert to keep round-trips down.
	const chunkSize = 2000
	for lo := 0; lo < len(report.Equity); lo += chunkSize {
		hi := lo + chunkSize
		if hi > len(report.Equity) {
			hi = len(report.Equity)
		}

		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*6)
		for _, p := range report.Equity[lo:hi] {
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				runID,
				report.Symbol,
				p.Date,
				p.Strategy,
				p.Benchmark,
				time.Now().UTC(),
			)
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (run_id, symbol, day, strategy_equity, benchmark_equity, created_at) VALUES %s",
			s.table, strings.Join(values, ","),
		)
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse save_run insert error",
					applogger.String("table", s.table),
					applogger.String("run_id", runID),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("save run: %w", err)
		}
	}

	if s.l != nil {
		s.l.Info("clickhouse save_run ok",
			applogger.String("table", s.table),
			applogger.String("run_id", runID),
			applogger.String("symbol", report.Symbol),
			applogger.Int("rows", len(report.Equity)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}
