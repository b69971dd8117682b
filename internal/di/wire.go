//go:build wireinject
// +build wireinject

package di

import (
	"TrendPull/pkg/config"
	"TrendPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvidePriceSource,
		ProvideResultStore,
		ProvideResultPublisher,

		// Use cases
		ProvideRunner,

		// HTTP
		ProvideBacktestHandler,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
