//go:build wireinject
// +build wireinject

package di

import (
	"SentinelShield/pkg/config"
	"SentinelShield/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideLedger,

		// Feeds and scoring
		ProvideMarketFeed,
		ProvideSocialBuffer,
		ProvideEvaluator,

		// Alert fan-out
		ProvidePublisher,
		ProvideArchive,
		ProvideAlertPipeline,
		ProvideKafkaConsumer,
		ProvideSocialHandler,

		// Use cases
		ProvideMonitor,
		ProvideAlertService,
		ProvideThreatService,

		// HTTP surface and application server
		ProvideHandlers,
		ProvideApp,
	)
	return &server.App{}, nil
}
