//go:build wireinject
// +build wireinject

package di

import (
	"EtfView/pkg/config"
	"EtfView/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideClock,

		// Market-data clients
		ProvideLimiter,
		ProvideYahooClient,
		ProvideHistoryProvider,
		ProvideCandleProvider,
		ProvideInstrumentLister,
		ProvideBytesCache,

		// FX alert channel
		ProvideNotifier,
		ProvideAnalyst,

		// Use cases
		ProvideEngine,
		ProvideDashboard,
		ProvideFXWatcher,

		// HTTP handlers
		ProvideEtfsHandler,
		ProvideFXHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
