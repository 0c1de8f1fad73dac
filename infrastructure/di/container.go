package di

import (
	"go.uber.org/zap"

	"relationmap/application/ports"
	"relationmap/application/services"
	"relationmap/infrastructure/config"
	"relationmap/infrastructure/persistence"
	"relationmap/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	LogLevel     zap.AtomicLevel
	Repositories persistence.Repositories
	Publisher    ports.EventPublisher
	Cache        ports.Cache
	Metrics      *observability.Collector
	Tracer       *observability.Tracer
	Points       *services.PointService
	Connections  *services.ConnectionService
	Notes        *services.NoteService
	Tags         *services.TagService
	News         *services.NewsService
}
