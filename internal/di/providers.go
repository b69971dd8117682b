package di

import (
	"context"
	"fmt"
	"time"

	"TrendPull/internal/domain/repository"
	"TrendPull/internal/handler/api"
	internalrepo "TrendPull/internal/repository"
	"TrendPull/internal/usecase"
	"TrendPull/pkg/cache"
	pkgch "TrendPull/pkg/clickhouse"
	"TrendPull/pkg/config"
	xhttp "TrendPull/pkg/http"
	pkgkafka "TrendPull/pkg/kafka"
	applogger "TrendPull/pkg/logger"
	"TrendPull/pkg/metrics"
	"TrendPull/pkg/server"
)

// ProvideLogger creates the structured application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates a ClickHouse client when either the price
// source or the result sink needs one; nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Data.Source != "clickhouse" && !cfg.Sinks.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Data.ClickHouse.Host),
		pkgch.WithPort(cfg.Data.ClickHouse.Port),
		pkgch.WithDatabase(cfg.Data.ClickHouse.Database),
		pkgch.WithCredentials(cfg.Data.ClickHouse.User, cfg.Data.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.Data.ClickHouse.DialTimeout, cfg.Data.ClickHouse.ReadTimeout, 0),
		// Equity rows are append-only; async inserts keep run latency down.
		pkgch.WithAsyncInsert(cfg.Sinks.ClickHouse.Enabled, true),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if cfg.Sinks.ClickHouse.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stmt := fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (run_id String, symbol String, day Date, strategy_equity Float64, benchmark_equity Float64, created_at DateTime) ENGINE=MergeTree ORDER BY (run_id, day)",
			cfg.Sinks.ClickHouse.Table,
		)
		if err := client.InitSchema(ctx, []string{stmt}); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	return client, nil
}

// ProvidePriceSource selects the configured daily-bar loader.
func ProvidePriceSource(cfg *config.Config, chClient *pkgch.Client, l *applogger.Logger) (repository.PriceSource, error) {
	switch cfg.Data.Source {
	case "clickhouse":
		if chClient == nil {
			return nil, fmt.Errorf("clickhouse source requires a client")
		}
		src := internalrepo.NewCHPriceSource(chClient, cfg.Data.ClickHouse.Table)
		if s, ok := src.(*internalrepo.CHPriceSource); ok {
			s.SetLogger(l)
		}
		return src, nil
	default:
		src := internalrepo.NewCSVPriceSource(cfg.Data.CSV.Path)
		if s, ok := src.(*internalrepo.CSVPriceSource); ok {
			s.SetLogger(l)
		}
		return src, nil
	}
}

// ProvideKafkaProducer creates a Kafka producer when the sink is enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Sinks.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Sinks.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Sinks.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Sinks.Kafka.RequiredAcks),
		pkgkafka.WithTimeouts(cfg.Sinks.Kafka.WriteTimeout, cfg.Sinks.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideResultStore creates the ClickHouse run store when enabled.
func ProvideResultStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.ResultStore {
	if !cfg.Sinks.ClickHouse.Enabled || chClient == nil {
		return nil
	}
	store := internalrepo.NewCHResultStore(chClient, cfg.Sinks.ClickHouse.Table)
	if s, ok := store.(*internalrepo.CHResultStore); ok {
		s.SetLogger(l)
	}
	return store
}

// ProvideResultPublisher creates the Kafka run publisher when enabled.
func ProvideResultPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ResultPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaResultPublisher(producer, cfg.Sinks.Kafka.Topic)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache selects the configured report cache backend.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Backend == "redis" {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideRunner creates the backtest runner use case.
func ProvideRunner(
	cfg *config.Config,
	prices repository.PriceSource,
	store repository.ResultStore,
	pub repository.ResultPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.BacktestRunner {
	return usecase.NewBacktestRunner(cfg, prices, store, pub, m, l)
}

// ProvideBacktestHandler creates the HTTP handler.
func ProvideBacktestHandler(
	cfg *config.Config,
	l *applogger.Logger,
	runner *usecase.BacktestRunner,
	cacheSvc cache.Service,
) xhttp.Handler {
	return api.NewBacktestHandler(l, runner, cacheSvc, cfg.Server.CacheTTL)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	runner *usecase.BacktestRunner,
	handler xhttp.Handler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	cacheSvc cache.Service,
) *server.App {
	return server.New(cfg, l, runner, handler, chClient, producer, cacheSvc)
}
