// Package board holds the client side of the relationship map: the local copy
// of the graph, the mode and selection state machine, and the gestures that
// turn clicks and drags into API calls.
//
// Every API call a gesture makes is a command. The board snapshots its state,
// applies the change locally, calls the API and restores the snapshot if the
// call fails. Gestures that need several calls run several commands, so calls
// that already succeeded stay applied. Gestures hold the board's lock for their whole duration, so writes
// reach the server in gesture order.
package board

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"relationmap/application/commands"
	"relationmap/application/dto"
	"relationmap/domain/core/entities"
	"relationmap/domain/rules"
	"relationmap/pkg/apiclient"
)

var (
	// ErrUnknownPoint is returned for gestures on a point the board does not hold
	ErrUnknownPoint = errors.New("board: unknown point")
	// ErrUnknownConnection is returned for gestures on a connection the board does not hold
	ErrUnknownConnection = errors.New("board: unknown connection")
	// ErrNotEditing is returned by EditNote when no target is selected
	ErrNotEditing = errors.New("board: no note target selected")
	// ErrNotDragging is returned by DragTo without a preceding BeginDrag
	ErrNotDragging = errors.New("board: no drag in progress")
)

// API is the server surface the board drives
type API interface {
	ListPoints(ctx context.Context) ([]*entities.Point, error)
	CreatePoint(ctx context.Context, cmd commands.CreatePointCommand) (*entities.Point, error)
	UpdatePoint(ctx context.Context, id string, cmd commands.UpdatePointCommand) (*entities.Point, error)
	DeletePoint(ctx context.Context, id string) (*apiclient.PointDeleted, error)
	ListConnections(ctx context.Context) ([]dto.ConnectionView, error)
	CreateConnection(ctx context.Context, from, to string) (*dto.ConnectionView, error)
	DeleteConnection(ctx context.Context, id string) error
	ListNotes(ctx context.Context) ([]dto.NoteView, error)
	CreateNote(ctx context.Context, cmd commands.CreateNoteCommand) (*dto.NoteView, error)
	UpdateNote(ctx context.Context, id string, cmd commands.UpdateNoteCommand) (*entities.Note, error)
	DeleteNote(ctx context.Context, id string) error
	ListTags(ctx context.Context) ([]*entities.Tag, error)
	CreateTag(ctx context.Context, cmd commands.CreateTagCommand) (*entities.Tag, error)
}

var _ API = (*apiclient.Client)(nil)

type graph struct {
	points      []*entities.Point
	connections []*entities.Connection
	notes       []*entities.Note
	tags        []*entities.Tag
}

func (g graph) clone() graph {
	c := graph{
		points:      make([]*entities.Point, len(g.points)),
		connections: make([]*entities.Connection, len(g.connections)),
		notes:       make([]*entities.Note, len(g.notes)),
		tags:        make([]*entities.Tag, len(g.tags)),
	}
	for i, p := range g.points {
		c.points[i] = p.Clone()
	}
	for i, conn := range g.connections {
		c.connections[i] = conn.Clone()
	}
	for i, n := range g.notes {
		c.notes[i] = n.Clone()
	}
	for i, t := range g.tags {
		c.tags[i] = t.Clone()
	}
	return c
}

type snapshot struct {
	graph     graph
	selection Selection
}

// Board is the client's view of the graph
type Board struct {
	mu        sync.Mutex
	api       API
	logger    *zap.Logger
	graph     graph
	mode      Mode
	selection Selection
	drag      dragState
	// point whose next click is swallowed because a drag on it moved
	suppress string
}

// New creates an empty board in normal mode
func New(api API, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{api: api, logger: logger, selection: Idle()}
}

// Load replaces the local graph with the server's collections. Connections
// with a missing endpoint are dropped.
func (b *Board) Load(ctx context.Context) error {
	var (
		points []*entities.Point
		conns  []dto.ConnectionView
		notes  []dto.NoteView
		tags   []*entities.Tag
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		points, err = b.api.ListPoints(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		conns, err = b.api.ListConnections(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = b.api.ListNotes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = b.api.ListTags(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		b.logger.Error("Failed to load board", zap.Error(err))
		return err
	}

	all := make([]*entities.Connection, 0, len(conns))
	for _, v := range conns {
		all = append(all, v.Connection())
	}
	loaded := graph{
		points:      points,
		connections: rules.ResolvableConnections(all, points),
		notes:       make([]*entities.Note, 0, len(notes)),
		tags:        tags,
	}
	for _, v := range notes {
		loaded.notes = append(loaded.notes, v.Note())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.graph = loaded
	b.selection = Idle()
	b.drag = dragState{}
	b.suppress = ""

	b.logger.Debug("Board loaded",
		zap.Int("points", len(loaded.points)),
		zap.Int("connections", len(loaded.connections)),
		zap.Int("notes", len(loaded.notes)),
		zap.Int("tags", len(loaded.tags)),
	)
	return nil
}

// Mode returns the active mode
func (b *Board) Mode() Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// SetMode switches mode and clears the selection
func (b *Board) SetMode(m Mode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = m
	b.selection = Idle()
}

// Selection returns the current selection
func (b *Board) Selection() Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection
}

// Points returns a copy of every point
func (b *Board) Points() []*entities.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.graph.clone().points
}

// Point returns a copy of the point with id, or nil
func (b *Board) Point(id string) *entities.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.findPoint(id).Clone()
}

// Connections returns a copy of every connection
func (b *Board) Connections() []*entities.Connection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.graph.clone().connections
}

// Notes returns a copy of every note
func (b *Board) Notes() []*entities.Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.graph.clone().notes
}

// Tags returns a copy of every tag
func (b *Board) Tags() []*entities.Tag {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.graph.clone().tags
}

// NoteFor returns a copy of the note bound to t, or nil
func (b *Board) NoteFor(t Target) *entities.Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.noteFor(t).Clone()
}

// run executes one command: apply changes local state, call talks to the
// server. A failed call restores the state from before apply.
func (b *Board) run(ctx context.Context, name string, apply func(), call func(context.Context) error) error {
	snap := snapshot{graph: b.graph.clone(), selection: b.selection}
	if apply != nil {
		apply()
	}
	if err := call(ctx); err != nil {
		b.graph = snap.graph
		b.selection = snap.selection
		b.logger.Warn("Board command rolled back",
			zap.String("command", name),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (b *Board) findPoint(id string) *entities.Point {
	for _, p := range b.graph.points {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (b *Board) findConnection(id string) *entities.Connection {
	for _, c := range b.graph.connections {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (b *Board) noteFor(t Target) *entities.Note {
	for _, n := range b.graph.notes {
		switch t.Kind {
		case TargetPoint:
			if n.BelongsToPoint(t.ID) {
				return n
			}
		case TargetConnection:
			if n.BelongsToConnection(t.ID) {
				return n
			}
		}
	}
	return nil
}

func (b *Board) removeConnection(id string) {
	b.graph.connections = filter(b.graph.connections, func(c *entities.Connection) bool { return c.ID != id })
}

func (b *Board) removeNote(id string) {
	b.graph.notes = filter(b.graph.notes, func(n *entities.Note) bool { return n.ID != id })
}

func (b *Board) replaceNote(n *entities.Note) {
	for i, existing := range b.graph.notes {
		if existing.ID == n.ID {
			b.graph.notes[i] = n
			return
		}
	}
	b.graph.notes = append(b.graph.notes, n)
}

func (b *Board) replacePoint(p *entities.Point) {
	for i, existing := range b.graph.points {
		if existing.ID == p.ID {
			b.graph.points[i] = p
			return
		}
	}
	b.graph.points = append(b.graph.points, p)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
