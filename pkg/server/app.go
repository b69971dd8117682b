package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"TrendPull/internal/report"
	"TrendPull/internal/usecase"
	"TrendPull/pkg/cache"
	pkgch "TrendPull/pkg/clickhouse"
	"TrendPull/pkg/config"
	xhttp "TrendPull/pkg/http"
	pkgkafka "TrendPull/pkg/kafka"
	applogger "TrendPull/pkg/logger"
)

// App encapsulates the application lifecycle: a one-shot backtest run by
// default, or a long-running HTTP API when the server is enabled.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	runner     *usecase.BacktestRunner
	handler    xhttp.Handler
	httpServer *xhttp.Server

	chClient *pkgch.Client
	producer *pkgkafka.Producer
	cache    cache.Service
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	runner *usecase.BacktestRunner,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	cacheSvc cache.Service,
) *App {
	return &App{
		cfg:      cfg,
		l:        l,
		runner:   runner,
		handler:  handler,
		chClient: chClient,
		producer: producer,
		cache:    cacheSvc,
	}
}

// Run executes the application and blocks until done or interrupted.
func (a *App) Run() error {
	defer a.closeResources()

	if !a.cfg.Server.Enabled {
		return a.runOnce()
	}
	return a.serve()
}

// runOnce executes the configured backtest, prints the KPI table and writes
// the enabled artifacts.
func (a *App) runOnce() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params := a.runner.DefaultParams()
	runID, rep, err := a.runner.RunWith(ctx, params)
	if err != nil {
		return err
	}

	report.WriteTable(os.Stdout, rep)
	if a.cfg.Report.PrintPositions {
		report.WritePositions(os.Stdout, rep)
	}

	if a.cfg.Report.WriteCSV {
		path, err := report.WriteDailyCSV(a.cfg.Report.OutDir, rep)
		if err != nil {
			a.l.Error("daily csv write failed", applogger.Error(err))
			return err
		}
		a.l.Info("daily timeseries written", applogger.String("path", path))
	}
	if a.cfg.Report.WriteJSON {
		path, err := report.WriteSummaryJSON(a.cfg.Report.OutDir, runID, rep, params.JSON())
		if err != nil {
			a.l.Error("summary json write failed", applogger.Error(err))
			return err
		}
		a.l.Info("summary written", applogger.String("path", path))
	}
	return nil
}

// serve runs the HTTP API until interrupted.
func (a *App) serve() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.l),
	)

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.l.Info("shutdown complete")
	return nil
}

// closeResources closes infrastructure clients, best effort.
func (a *App) closeResources() {
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.l.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}
}
