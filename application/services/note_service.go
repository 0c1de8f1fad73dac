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
	"relationmap/domain/rules"
	pkgerrors "relationmap/pkg/errors"
	"relationmap/pkg/observability"
)

// NoteService owns note CRUD and the note-to-point tag propagation
type NoteService struct {
	notes       ports.NoteRepository
	points      ports.PointRepository
	connections ports.ConnectionRepository
	tags        ports.TagRepository
	events      eventSink
	metrics     *observability.Collector
	logger      *zap.Logger
}

// NewNoteService creates a new note service
func NewNoteService(
	notes ports.NoteRepository,
	points ports.PointRepository,
	connections ports.ConnectionRepository,
	tags ports.TagRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *NoteService {
	return &NoteService{
		notes:       notes,
		points:      points,
		connections: connections,
		tags:        tags,
		events:      eventSink{publisher: publisher, metrics: metrics, logger: logger},
		metrics:     metrics,
		logger:      logger,
	}
}

// List returns every note with owner and tags resolved
func (s *NoteService) List(ctx context.Context) ([]dto.NoteView, error) {
	var notes []*entities.Note
	lookup, err := s.lookup(ctx, func(gctx context.Context) error {
		var err error
		notes, err = s.notes.List(gctx)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list notes")
	}

	views := make([]dto.NoteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, lookup.ResolveNote(n))
	}
	return views, nil
}

// Create stores a new note and returns it resolved
func (s *NoteService) Create(ctx context.Context, cmd commands.CreateNoteCommand) (*dto.NoteView, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	note := cmd.Note()
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, pkgerrors.Wrap(err, "create note")
	}

	s.metrics.RecordCreated("note")
	s.events.publish(ctx, events.NewNoteChanged(events.TypeNoteCreated, note.ID, note.PointID, note.ConnectionID, time.Now()))

	lookup, err := s.lookup(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "resolve note")
	}
	view := lookup.ResolveNote(note)
	return &view, nil
}

// Update merges the provided fields into a stored note. When the note belongs
// to a point and the update carries tags, the point's tags become the union
// of its own and the carried ones.
func (s *NoteService) Update(ctx context.Context, cmd commands.UpdateNoteCommand) (*entities.Note, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	note, err := s.notes.GetByID(ctx, cmd.NoteID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "update note")
	}

	cmd.Apply(note)
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, pkgerrors.Wrap(err, "update note")
	}
	s.events.publish(ctx, events.NewNoteChanged(events.TypeNoteUpdated, note.ID, note.PointID, note.ConnectionID, time.Now()))

	if pointID, tags, ok := rules.NoteTagPropagation(note, cmd.RequestedTags()); ok {
		if err := s.propagateTags(ctx, note.ID, pointID, tags); err != nil {
			return nil, err
		}
	}
	return note, nil
}

// Delete removes a note
func (s *NoteService) Delete(ctx context.Context, id string) error {
	if err := commands.ValidateID("note", id); err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "delete note")
	}

	s.metrics.RecordDeleted("note")
	s.events.publish(ctx, events.NewNoteChanged(events.TypeNoteDeleted, id, "", "", time.Now()))
	return nil
}

func (s *NoteService) propagateTags(ctx context.Context, noteID, pointID string, tags []string) error {
	point, err := s.points.AddTags(ctx, pointID, tags)
	if pkgerrors.IsNotFound(err) {
		s.logger.Warn("Note refers to a missing point, tags not propagated",
			zap.String("note_id", noteID),
			zap.String("point_id", pointID),
		)
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(err, "propagate note tags to point")
	}

	s.metrics.RecordPropagation()
	s.events.publish(ctx, events.NewPointTagsPropagated(pointID, noteID, tags, time.Now()))
	s.logger.Debug("Note tags propagated",
		zap.String("note_id", noteID),
		zap.String("point_id", pointID),
		zap.Strings("point_tags", point.Tags),
	)
	return nil
}

// lookup loads points, connections and tags concurrently, plus whatever
// extra load the caller passes in the same group
func (s *NoteService) lookup(ctx context.Context, extra func(context.Context) error) (dto.Lookup, error) {
	var (
		points []*entities.Point
		conns  []*entities.Connection
		tags   []*entities.Tag
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		points, err = s.points.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		conns, err = s.connections.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = s.tags.List(gctx)
		return err
	})
	if extra != nil {
		g.Go(func() error { return extra(gctx) })
	}
	if err := g.Wait(); err != nil {
		return dto.Lookup{}, err
	}
	return dto.NewLookup(points, conns, tags), nil
}
