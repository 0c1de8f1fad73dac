//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"relationmap/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogLevel,
	ProvideLogger,
	ProvideRepositories,
	ProvidePointRepository,
	ProvideConnectionRepository,
	ProvideNoteRepository,
	ProvideTagRepository,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	ProvideCache,
	ProvidePointService,
	ProvideConnectionService,
	ProvideNoteService,
	ProvideTagService,
	ProvideNewsService,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
