//go:build wireinject
// +build wireinject

package di

import (
	"AlphaPulse/pkg/config"
	"AlphaPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvidePostgresClient,
		ProvideSharedCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Stores and publishers
		ProvideAlphaStore,
		ProvideBiasStore,
		ProvideSignalStore,
		ProvidePortfolioStores,
		ProvidePortfolioStore,
		ProvideSettingsStore,
		ProvideEventPublisher,
		ProvideScoreCache,

		// Quote plumbing
		ProvideLiveCache,
		ProvideQuoteService,
		ProvideQuoteProvider,
		ProvideFinnhubStream,
		ProvideQuoteCollector,

		// Analysis building blocks
		ProvideDetectors,
		ProvideSignalModel,
		ProvideScoreParams,

		// Use cases
		ProvideValuation,
		ProvideBiasPipeline,
		ProvideSignalGenerator,
		ProvideScoreComposer,
		ProvideInsights,
		ProvidePortfolioEventsHandler,

		// HTTP surface
		ProvideRateLimiter,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
