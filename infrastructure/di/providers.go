package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"relationmap/application/ports"
	"relationmap/application/services"
	"relationmap/infrastructure/cache"
	"relationmap/infrastructure/config"
	"relationmap/infrastructure/messaging"
	"relationmap/infrastructure/messaging/eventbridge"
	"relationmap/infrastructure/news"
	"relationmap/infrastructure/persistence"
	"relationmap/infrastructure/persistence/dynamodb"
	"relationmap/infrastructure/persistence/memory"
	"relationmap/infrastructure/persistence/sqlite"
	"relationmap/pkg/observability"
)

const serviceName = "relationmap"

// ProvideLogLevel creates the level shared by the logger and the config
// watcher
func ProvideLogLevel(cfg *config.Config) zap.AtomicLevel {
	return zap.NewAtomicLevelAt(cfg.Level())
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", serviceName)), nil
}

// loadAWSConfig creates AWS configuration. Only the AWS-backed drivers call
// it so local runs need no credentials.
func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideRepositories opens the configured storage driver
func ProvideRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (persistence.Repositories, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return persistence.Repositories{}, nil, err
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				logger.Warn("Failed to close SQLite store", zap.Error(err))
			}
		}
		return persistence.Repositories{
			Points:      store.Points(),
			Connections: store.Connections(),
			Notes:       store.Notes(),
			Tags:        store.Tags(),
		}, cleanup, nil

	case config.DriverDynamoDB:
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			return persistence.Repositories{}, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client := awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		})
		store := dynamodb.NewStore(client, cfg.TableName, cfg.BoardID, logger)
		logger.Info("DynamoDB store ready",
			zap.String("table", cfg.TableName),
			zap.String("board", cfg.BoardID),
		)
		return persistence.Repositories{
			Points:      store.Points(),
			Connections: store.Connections(),
			Notes:       store.Notes(),
			Tags:        store.Tags(),
		}, func() {}, nil

	default:
		store := memory.NewStore()
		logger.Info("In-memory store ready")
		return persistence.Repositories{
			Points:      store.Points(),
			Connections: store.Connections(),
			Notes:       store.Notes(),
			Tags:        store.Tags(),
		}, func() {}, nil
	}
}

// ProvidePointRepository exposes the point repository of the driver
func ProvidePointRepository(r persistence.Repositories) ports.PointRepository { return r.Points }

// ProvideConnectionRepository exposes the connection repository of the driver
func ProvideConnectionRepository(r persistence.Repositories) ports.ConnectionRepository {
	return r.Connections
}

// ProvideNoteRepository exposes the note repository of the driver
func ProvideNoteRepository(r persistence.Repositories) ports.NoteRepository { return r.Notes }

// ProvideTagRepository exposes the tag repository of the driver
func ProvideTagRepository(r persistence.Repositories) ports.TagRepository { return r.Tags }

// ProvideEventPublisher publishes to EventBridge when events are enabled and
// to the log otherwise
func ProvideEventPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.EventPublisher, error) {
	if !cfg.EnableEvents {
		return messaging.NewLogPublisher(logger), nil
	}
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.EventBusName, logger), nil
}

// ProvideMetrics creates the Prometheus collector, or nil when metrics are
// disabled
func ProvideMetrics(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector(serviceName)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideCache creates the in-memory cache
func ProvideCache() (ports.Cache, func()) {
	c := cache.NewInMemoryCache(time.Minute)
	return c, c.Close
}

// ProvidePointService creates the point service
func ProvidePointService(
	points ports.PointRepository,
	connections ports.ConnectionRepository,
	notes ports.NoteRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *services.PointService {
	return services.NewPointService(points, connections, notes, publisher, metrics, tracer, logger)
}

// ProvideConnectionService creates the connection service
func ProvideConnectionService(
	connections ports.ConnectionRepository,
	points ports.PointRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.ConnectionService {
	return services.NewConnectionService(connections, points, publisher, metrics, logger)
}

// ProvideNoteService creates the note service
func ProvideNoteService(
	notes ports.NoteRepository,
	points ports.PointRepository,
	connections ports.ConnectionRepository,
	tags ports.TagRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.NoteService {
	return services.NewNoteService(notes, points, connections, tags, publisher, metrics, logger)
}

// ProvideTagService creates the tag service
func ProvideTagService(
	tags ports.TagRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.TagService {
	return services.NewTagService(tags, publisher, metrics, logger)
}

// ProvideNewsService creates the news service. Without an API key the
// service is created disabled.
func ProvideNewsService(
	cfg *config.Config,
	c ports.Cache,
	points *services.PointService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *services.NewsService {
	if !cfg.NewsEnabled() {
		logger.Info("News disabled, NEWS_API_KEY is not set")
		return services.NewNewsService(nil, nil, c, points, cfg.News.CacheTTL, metrics, logger)
	}

	source := news.NewEventRegistry(news.EventRegistryConfig{
		APIKey:   cfg.News.APIKey,
		Endpoint: cfg.News.Endpoint,
		Keyword:  cfg.News.Keyword,
		PageSize: cfg.News.PageSize,
	}, &http.Client{Timeout: cfg.RequestTimeout}, logger)

	return services.NewNewsService(source, news.NewProseExtractor(), c, points, cfg.News.CacheTTL, metrics, logger)
}
