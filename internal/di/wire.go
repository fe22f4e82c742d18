//go:build wireinject
// +build wireinject

package di

import (
	"github.com/Ak47-369/bookticket-api-gateway/pkg/config"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedis,
		ProvidePublisher,
		ProvideDecisionPublisher,

		// Admission components
		ProvideLimiter,
		ProvideCodec,
		ProvideForwarder,
		ProvideChain,

		// HTTP surface
		ProvideHandlers,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
