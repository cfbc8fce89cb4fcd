//go:build wireinject
// +build wireinject

package di

import (
	"ValueScan/pkg/config"
	"ValueScan/pkg/server"

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
		ProvideRedisClient,

		// Repositories
		ProvideStockStore,
		ProvideRunLock,
		ProvideListingSource,
		ProvideQuoteService,

		// Use cases
		ProvidePipelineRunner,
		ProvideStockQuery,

		// HTTP and scheduling
		ProvideHTTPHandler,
		ProvideScheduler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
