//go:build wireinject
// +build wireinject

package di

import (
	"TrustTrace/pkg/config"
	"TrustTrace/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideRateLimiter,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideTradeArchive,
		ProvidePrintPublisher,
		ProvideReportPublisher,

		// Source adapters
		ProvideFilingSource,
		ProvideIdentifierSource,
		ProvideRegistrantSource,
		ProvideComplaintSource,
		ProvideEconomicSource,
		ProvideTradeSource,
		ProvideTradeFeed,

		// Use cases
		ProvideGenerator,
		ProvideRegistrantCache,
		ProvideInvestigator,
		ProvidePrintProcessor,
		ProvidePrintCollector,
		ProvideKafkaPrintsHandler,
		ProvideQueue,

		// HTTP surface
		ProvideSummaryCache,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
