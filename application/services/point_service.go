package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"relationmap/application/commands"
	"relationmap/application/ports"
	"relationmap/domain/core/entities"
	"relationmap/domain/events"
	pkgerrors "relationmap/pkg/errors"
	"relationmap/pkg/observability"
)

// CascadeResult reports what a point deletion removed
type CascadeResult struct {
	PointID            string `json:"pointId"`
	RemovedConnections int    `json:"removedConnections"`
	RemovedNotes       int    `json:"removedNotes"`
}

// PointService owns point CRUD and the point deletion cascade
type PointService struct {
	points      ports.PointRepository
	connections ports.ConnectionRepository
	notes       ports.NoteRepository
	events      eventSink
	metrics     *observability.Collector
	tracer      *observability.Tracer
	logger      *zap.Logger
}

// NewPointService creates a new point service
func NewPointService(
	points ports.PointRepository,
	connections ports.ConnectionRepository,
	notes ports.NoteRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	tracer *observability.Tracer,
	logger *zap.Logger,
) *PointService {
	return &PointService{
		points:      points,
		connections: connections,
		notes:       notes,
		events:      eventSink{publisher: publisher, metrics: metrics, logger: logger},
		metrics:     metrics,
		tracer:      tracer,
		logger:      logger,
	}
}

// List returns every point
func (s *PointService) List(ctx context.Context) ([]*entities.Point, error) {
	points, err := s.points.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list points")
	}
	return points, nil
}

// FindByName returns the first point whose name is exactly name, or nil
func (s *PointService) FindByName(ctx context.Context, name string) (*entities.Point, error) {
	points, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range points {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

// Create stores a new point
func (s *PointService) Create(ctx context.Context, cmd commands.CreatePointCommand) (*entities.Point, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	point := cmd.Point()
	if err := s.points.Create(ctx, point); err != nil {
		return nil, pkgerrors.Wrap(err, "create point")
	}

	s.metrics.RecordCreated("point")
	s.events.publish(ctx, events.NewPointCreated(point.ID, point.Name, point.Type, time.Now()))
	s.logger.Debug("Point created", zap.String("point_id", point.ID), zap.String("type", point.Type))
	return point, nil
}

// Update merges the provided fields into a stored point
func (s *PointService) Update(ctx context.Context, cmd commands.UpdatePointCommand) (*entities.Point, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	point, err := s.points.GetByID(ctx, cmd.PointID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "update point")
	}

	fields := cmd.Apply(point)
	if err := s.points.Update(ctx, point); err != nil {
		return nil, pkgerrors.Wrap(err, "update point")
	}

	if len(fields) > 0 {
		s.events.publish(ctx, events.NewPointUpdated(point.ID, fields, time.Now()))
	}
	return point, nil
}

// Delete removes a point together with every connection touching it and
// every note attached to it. Dependents go first so a failure part way leaves
// the point in place and the call can simply be repeated. Deleting a point
// that does not exist still sweeps its dependents.
func (s *PointService) Delete(ctx context.Context, id string) (*CascadeResult, error) {
	if err := commands.ValidateID("point", id); err != nil {
		return nil, err
	}

	result := &CascadeResult{PointID: id}
	err := s.tracer.TraceFunction(ctx, "DeletePointCascade", func(ctx context.Context) error {
		s.tracer.AddAnnotation(ctx, "point_id", id)

		removed, err := s.connections.DeleteByPoint(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(err, "delete connections of point")
		}
		result.RemovedConnections = removed

		removed, err = s.notes.DeleteByPoint(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(err, "delete notes of point")
		}
		result.RemovedNotes = removed

		if err := s.points.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(err, "delete point")
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Point cascade delete failed",
			zap.String("point_id", id),
			zap.Int("removed_connections", result.RemovedConnections),
			zap.Int("removed_notes", result.RemovedNotes),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordDeleted("point")
	s.metrics.RecordCascade("connection", result.RemovedConnections)
	s.metrics.RecordCascade("note", result.RemovedNotes)
	s.events.publish(ctx, events.NewPointDeleted(id, result.RemovedConnections, result.RemovedNotes, time.Now()))
	s.logger.Info("Point deleted",
		zap.String("point_id", id),
		zap.Int("removed_connections", result.RemovedConnections),
		zap.Int("removed_notes", result.RemovedNotes),
	)
	return result, nil
}
