package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"relationmap/application/commands"
	"relationmap/application/dto"
	"relationmap/application/ports"
	"relationmap/domain/core/entities"
	"relationmap/domain/events"
	pkgerrors "relationmap/pkg/errors"
	"relationmap/pkg/observability"
)

// ConnectionService owns connection CRUD. Deleting a connection leaves its
// note in place.
type ConnectionService struct {
	connections ports.ConnectionRepository
	points      ports.PointRepository
	events      eventSink
	metrics     *observability.Collector
	logger      *zap.Logger
}

// NewConnectionService creates a new connection service
func NewConnectionService(
	connections ports.ConnectionRepository,
	points ports.PointRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		points:      points,
		events:      eventSink{publisher: publisher, metrics: metrics, logger: logger},
		metrics:     metrics,
		logger:      logger,
	}
}

// List returns every connection with its endpoints resolved
func (s *ConnectionService) List(ctx context.Context) ([]dto.ConnectionView, error) {
	var (
		conns  []*entities.Connection
		points []*entities.Point
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		conns, err = s.connections.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		points, err = s.points.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(err, "list connections")
	}

	lookup := dto.NewLookup(points, nil, nil)
	views := make([]dto.ConnectionView, 0, len(conns))
	for _, c := range conns {
		views = append(views, lookup.ResolveConnection(c))
	}
	return views, nil
}

// Create links two points and returns the connection with endpoints resolved
func (s *ConnectionService) Create(ctx context.Context, cmd commands.CreateConnectionCommand) (*dto.ConnectionView, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	conn := cmd.Connection()
	if err := s.connections.Create(ctx, conn); err != nil {
		return nil, pkgerrors.Wrap(err, "create connection")
	}

	from, err := s.resolvePoint(ctx, conn.From)
	if err != nil {
		return nil, err
	}
	to, err := s.resolvePoint(ctx, conn.To)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCreated("connection")
	s.events.publish(ctx, events.NewConnectionCreated(conn.ID, conn.From, conn.To, time.Now()))
	return &dto.ConnectionView{ID: conn.ID, From: from, To: to}, nil
}

// Delete removes a connection. Its note, if any, is kept.
func (s *ConnectionService) Delete(ctx context.Context, id string) error {
	if err := commands.ValidateID("connection", id); err != nil {
		return err
	}
	if err := s.connections.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "delete connection")
	}

	s.metrics.RecordDeleted("connection")
	s.events.publish(ctx, events.NewConnectionDeleted(id, time.Now()))
	return nil
}

func (s *ConnectionService) resolvePoint(ctx context.Context, id string) (*entities.Point, error) {
	if id == "" {
		return nil, nil
	}
	p, err := s.points.GetByID(ctx, id)
	if pkgerrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "resolve connection endpoint")
	}
	return p, nil
}
