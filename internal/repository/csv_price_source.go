package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"TrendPull/internal/domain/models"
	"TrendPull/internal/domain/repository"
	applogger "TrendPull/pkg/logger"
	"TrendPull/pkg/util"
)

// CSVPriceSource reads daily bars from a local CSV file. The file must carry a
// header row with at least "date" and "close" columns; "adj_close" is used
// when present and falls back to the raw close otherwise.
type CSVPriceSource struct {
	path string
	l    *applogger.Logger
}

func NewCSVPriceSource(path string) repository.PriceSource {
	return &CSVPriceSource{path: path}
}

// SetLogger injects a structured logger.
func (s *CSVPriceSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CSVPriceSource) Fetch(ctx context.Context, symbol string, from, to time.Time) (*models.PriceSeries, error) {
	start := time.Now()

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateCol, closeCol, adjCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "close":
			closeCol = i
		case "adj_close", "adjclose", "adj close":
			adjCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("csv %s: header must carry date and close columns", s.path)
	}

	points := make([]models.PricePoint, 0, 4096)
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		day, ok := util.ParseDate(rec[dateCol])
		if !ok {
			return nil, &models.InputValidationError{
				Index:  line,
				Reason: fmt.Sprintf("unparseable date '%s'", rec[dateCol]),
			}
		}
		if day.Before(from) || day.After(to) {
			continue
		}

		closePx, err := strconv.ParseFloat(rec[closeCol], 64)
		if err != nil {
			return nil, &models.InputValidationError{
				Index:  line,
				Date:   day,
				Reason: fmt.Sprintf("unparseable close '%s'", rec[closeCol]),
			}
		}
		adjPx := closePx
		if adjCol >= 0 && rec[adjCol] != "" {
			adjPx, err = strconv.ParseFloat(rec[adjCol], 64)
			if err != nil {
				return nil, &models.InputValidationError{
					Index:  line,
					Date:   day,
					Reason: fmt.Sprintf("unparseable adj_close '%s'", rec[adjCol]),
				}
			}
		}

		points = append(points, models.PricePoint{Date: day, Close: closePx, AdjClose: adjPx})
	}

	series := &models.PriceSeries{Symbol: symbol, Points: points}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	if s.l != nil {
		s.l.Info("csv price series loaded",
			applogger.String("path", s.path),
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(points)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}
