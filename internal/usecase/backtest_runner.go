package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"TrendPull/internal/backtest"
	"TrendPull/internal/domain/models"
	"TrendPull/internal/domain/repository"
	"TrendPull/internal/perf"
	"TrendPull/internal/strategy"
	"TrendPull/pkg/config"
	applogger "TrendPull/pkg/logger"
)

// RunParams is the fully resolved parameter set of one run. Its fingerprint
// identifies the run for caching and persistence.
type RunParams struct {
	Symbol      string    `json:"symbol"`
	WarmupStart time.Time `json:"warmup_start"`
	ReportStart time.Time `json:"report_start"`
	ReportEnd   time.Time `json:"report_end"`

	FastWindow  int     `json:"fast_window"`
	SlowWindow  int     `json:"slow_window"`
	VolWindow   int     `json:"vol_window"`
	TargetVol   float64 `json:"target_vol"`
	MaxLeverage float64 `json:"max_leverage"`

	Cadence   string       `json:"cadence"`
	Weekday   time.Weekday `json:"weekday"`
	Threshold float64      `json:"threshold"`

	FeeBps      float64 `json:"fee_bps"`
	SlippageBps float64 `json:"slippage_bps"`

	TradingDays int     `json:"trading_days"`
	RFAnnual    float64 `json:"rf_annual"`
}

// Fingerprint is a stable run identifier derived from the parameter set.
func (p RunParams) Fingerprint() string {
	b, _ := json.Marshal(p)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])[:16]
}

// JSON returns the canonical parameter encoding for artifacts.
func (p RunParams) JSON() json.RawMessage {
	b, _ := json.Marshal(p)
	return b
}

// BacktestRunner wires the price source, the simulation engine, the
// performance evaluator and the optional result sinks into one operation.
type BacktestRunner struct {
	cfg     *config.Config
	prices  repository.PriceSource
	store   repository.ResultStore
	pub     repository.ResultPublisher
	metrics repository.Metrics
	l       *applogger.Logger
}

func NewBacktestRunner(
	cfg *config.Config,
	prices repository.PriceSource,
	store repository.ResultStore,
	pub repository.ResultPublisher,
	metrics repository.Metrics,
	l *applogger.Logger,
) *BacktestRunner {
	return &BacktestRunner{cfg: cfg, prices: prices, store: store, pub: pub, metrics: metrics, l: l}
}

// DefaultParams resolves the configured parameter set.
func (r *BacktestRunner) DefaultParams() RunParams {
	weekday, _ := r.cfg.RebalanceWeekday()
	return RunParams{
		Symbol:      r.cfg.Data.Symbol,
		WarmupStart: r.cfg.WarmupStartDate(),
		ReportStart: r.cfg.ReportStartDate(),
		ReportEnd:   r.cfg.ReportEndDate(),
		FastWindow:  r.cfg.Strategy.FastWindow,
		SlowWindow:  r.cfg.Strategy.SlowWindow,
		VolWindow:   r.cfg.Strategy.VolWindow,
		TargetVol:   r.cfg.Strategy.TargetVol,
		MaxLeverage: r.cfg.Strategy.MaxLeverage,
		Cadence:     r.cfg.Rebalance.Cadence,
		Weekday:     weekday,
		Threshold:   r.cfg.Rebalance.Threshold,
		FeeBps:      r.cfg.Costs.FeeBps,
		SlippageBps: r.cfg.Costs.SlippageBps,
		TradingDays: r.cfg.Perf.TradingDays,
		RFAnnual:    r.cfg.Perf.RFAnnual,
	}
}

// ParamsFromRequest overlays a run request onto the configured defaults.
func (r *BacktestRunner) ParamsFromRequest(req *models.RunRequest) (RunParams, error) {
	p := r.DefaultParams()
	if req.Symbol != "" {
		p.Symbol = req.Symbol
	}
	var err error
	if p.WarmupStart, err = overlayDate(req.WarmupStart, p.WarmupStart); err != nil {
		return p, fmt.Errorf("warmup_start: %w", err)
	}
	if p.ReportStart, err = overlayDate(req.ReportStart, p.ReportStart); err != nil {
		return p, fmt.Errorf("report_start: %w", err)
	}
	if p.ReportEnd, err = overlayDate(req.ReportEnd, p.ReportEnd); err != nil {
		return p, fmt.Errorf("report_end: %w", err)
	}
	if req.FastWindow > 0 {
		p.FastWindow = req.FastWindow
	}
	if req.SlowWindow > 0 {
		p.SlowWindow = req.SlowWindow
	}
	if req.VolWindow > 0 {
		p.VolWindow = req.VolWindow
	}
	if req.TargetVol > 0 {
		p.TargetVol = req.TargetVol
	}
	if req.MaxLeverage > 0 {
		p.MaxLeverage = req.MaxLeverage
	}
	if req.Threshold != nil {
		p.Threshold = *req.Threshold
	}
	if req.FeeBps != nil {
		p.FeeBps = *req.FeeBps
	}
	if req.SlippageBps != nil {
		p.SlippageBps = *req.SlippageBps
	}

	if p.FastWindow >= p.SlowWindow {
		return p, fmt.Errorf("fast_window %d must be smaller than slow_window %d", p.FastWindow, p.SlowWindow)
	}
	if !p.WarmupStart.Before(p.ReportStart) || !p.ReportStart.Before(p.ReportEnd) {
		return p, fmt.Errorf("dates must satisfy warmup_start < report_start < report_end")
	}
	return p, nil
}

// Run executes the configured default run.
func (r *BacktestRunner) Run(ctx context.Context) (string, *models.Report, error) {
	return r.RunWith(ctx, r.DefaultParams())
}

// RunWith executes one full backtest: load prices, simulate, evaluate, then
// persist and publish through whichever sinks are wired. Sink failures are
// logged and do not fail the run; the report is already computed.
func (r *BacktestRunner) RunWith(ctx context.Context, p RunParams) (string, *models.Report, error) {
	start := time.Now()
	runID := p.Fingerprint()

	rep, err := r.execute(ctx, p)
	if r.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		r.metrics.RecordRun(p.Symbol, status)
		r.metrics.RecordRunDuration(time.Since(start).Seconds())
	}
	if err != nil {
		if r.l != nil {
			r.l.Error("backtest run failed",
				applogger.String("run_id", runID),
				applogger.String("symbol", p.Symbol),
				applogger.Error(err),
			)
		}
		return runID, nil, err
	}

	if r.metrics != nil && len(rep.Equity) > 0 {
		last := rep.Equity[len(rep.Equity)-1]
		r.metrics.RecordFinalEquity(p.Symbol, "strategy", last.Strategy)
		r.metrics.RecordFinalEquity(p.Symbol, "buyhold", last.Benchmark)
	}

	if r.store != nil {
		if err := r.store.SaveRun(ctx, runID, rep); err != nil && r.l != nil {
			r.l.Warn("result store save failed",
				applogger.String("run_id", runID),
				applogger.Error(err),
			)
		}
	}
	if r.pub != nil {
		if err := r.pub.PublishRun(ctx, runID, rep); err != nil && r.l != nil {
			r.l.Warn("result publish failed",
				applogger.String("run_id", runID),
				applogger.Error(err),
			)
		}
	}

	if r.l != nil {
		r.l.Info("backtest run complete",
			applogger.String("run_id", runID),
			applogger.String("symbol", p.Symbol),
			applogger.Int("days", rep.Strategy.NumDays),
			applogger.Float64("cagr", rep.Strategy.CAGR),
			applogger.Float64("sharpe", rep.Strategy.Sharpe),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return runID, rep, nil
}

func (r *BacktestRunner) execute(ctx context.Context, p RunParams) (*models.Report, error) {
	series, err := r.prices.Fetch(ctx, p.Symbol, p.WarmupStart, p.ReportEnd)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	if len(series.Points) == 0 {
		return nil, fmt.Errorf("no price data for %s in %s..%s",
			p.Symbol, p.WarmupStart.Format("2006-01-02"), p.ReportEnd.Format("2006-01-02"))
	}

	days, err := backtest.Run(series, backtest.Config{
		Signal: strategy.SignalConfig{FastWindow: p.FastWindow, SlowWindow: p.SlowWindow},
		Vol: strategy.VolConfig{
			Window:      p.VolWindow,
			TargetVol:   p.TargetVol,
			MaxLeverage: p.MaxLeverage,
			TradingDays: p.TradingDays,
		},
		Cadence:     p.Cadence,
		Weekday:     p.Weekday,
		Threshold:   p.Threshold,
		Costs:       backtest.CostModel{FeeBps: p.FeeBps, SlippageBps: p.SlippageBps},
		ReportStart: p.ReportStart,
	})
	if err != nil {
		return nil, err
	}

	rep, err := perf.Evaluate(days, p.ReportStart, p.ReportEnd, perf.Config{
		TradingDays: p.TradingDays,
		RFAnnual:    p.RFAnnual,
	})
	if err != nil {
		return nil, err
	}
	rep.Symbol = p.Symbol
	return rep, nil
}

func overlayDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return def, err
	}
	return t.UTC(), nil
}
