//go:build wireinject
// +build wireinject

package di

import (
	"TaPulse/pkg/config"
	"TaPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideRedisClient,

		// Repositories and domain services
		ProvideCandleRepository,
		ProvideTickerStore,
		ProvideSymbolRegistry,
		ProvideQuoteStream,
		ProvideIndicatorEngine,
		ProvideSnapshotPublisher,

		// Use cases
		ProvideSnapshotUseCase,
		ProvideSnapshotBroadcaster,
		ProvideQuoteCollector,
		ProvideBackfillJob,
		ProvideQueue,
		ProvideBackfillUseCase,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
