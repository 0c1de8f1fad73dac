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

// TagService lists and creates tags
type TagService struct {
	tags    ports.TagRepository
	events  eventSink
	metrics *observability.Collector
}

// NewTagService creates a new tag service
func NewTagService(tags ports.TagRepository, publisher ports.EventPublisher, metrics *observability.Collector, logger *zap.Logger) *TagService {
	return &TagService{
		tags:    tags,
		events:  eventSink{publisher: publisher, metrics: metrics, logger: logger},
		metrics: metrics,
	}
}

// List returns every tag
func (s *TagService) List(ctx context.Context) ([]*entities.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list tags")
	}
	return tags, nil
}

// Create stores a new tag
func (s *TagService) Create(ctx context.Context, cmd commands.CreateTagCommand) (*entities.Tag, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	tag := cmd.Tag()
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, pkgerrors.Wrap(err, "create tag")
	}

	s.metrics.RecordCreated("tag")
	s.events.publish(ctx, events.NewTagCreated(tag.ID, tag.Name, tag.Color, time.Now()))
	return tag, nil
}
