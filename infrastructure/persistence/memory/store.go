// Package memory keeps the four record collections in process memory. It
// backs local development and the service tests.
package memory

import (
	"context"
	"sync"

	"relationmap/application/ports"
	"relationmap/domain/core/entities"
	"relationmap/domain/core/valueobjects"
	"relationmap/domain/rules"
	pkgerrors "relationmap/pkg/errors"
)

// table is an insertion-ordered collection of records keyed by id
type table[T any] struct {
	order []string
	rows  map[string]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) put(id string, v *T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) each(fn func(id string, v *T)) {
	for _, id := range t.order {
		fn(id, t.rows[id])
	}
}

// Store holds every collection behind one lock
type Store struct {
	mu          sync.RWMutex
	points      *table[entities.Point]
	connections *table[entities.Connection]
	notes       *table[entities.Note]
	tags        *table[entities.Tag]
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		points:      newTable[entities.Point](),
		connections: newTable[entities.Connection](),
		notes:       newTable[entities.Note](),
		tags:        newTable[entities.Tag](),
	}
}

// Points returns the point repository view of the store
func (s *Store) Points() *PointRepository { return &PointRepository{s: s} }

// Connections returns the connection repository view of the store
func (s *Store) Connections() *ConnectionRepository { return &ConnectionRepository{s: s} }

// Notes returns the note repository view of the store
func (s *Store) Notes() *NoteRepository { return &NoteRepository{s: s} }

// Tags returns the tag repository view of the store
func (s *Store) Tags() *TagRepository { return &TagRepository{s: s} }

var (
	_ ports.PointRepository      = (*PointRepository)(nil)
	_ ports.ConnectionRepository = (*ConnectionRepository)(nil)
	_ ports.NoteRepository       = (*NoteRepository)(nil)
	_ ports.TagRepository        = (*TagRepository)(nil)
)

// PointRepository implements ports.PointRepository
type PointRepository struct{ s *Store }

func (r *PointRepository) List(ctx context.Context) ([]*entities.Point, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Point, 0, len(r.s.points.order))
	r.s.points.each(func(_ string, p *entities.Point) { out = append(out, p.Clone()) })
	return out, nil
}

func (r *PointRepository) GetByID(ctx context.Context, id string) (*entities.Point, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.points.rows[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("point")
	}
	return p.Clone(), nil
}

func (r *PointRepository) Create(ctx context.Context, point *entities.Point) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	point.ID = valueobjects.NewRecordID().String()
	point.Normalize()
	r.s.points.put(point.ID, point.Clone())
	return nil
}

func (r *PointRepository) Update(ctx context.Context, point *entities.Point) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.points.rows[point.ID]; !ok {
		return pkgerrors.NewNotFoundError("point")
	}
	point.Normalize()
	r.s.points.put(point.ID, point.Clone())
	return nil
}

func (r *PointRepository) AddTags(ctx context.Context, id string, tagIDs []string) (*entities.Point, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.points.rows[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("point")
	}
	p.Tags = rules.UnionTags(p.Tags, tagIDs...)
	return p.Clone(), nil
}

func (r *PointRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.points.remove(id)
	return nil
}

// ConnectionRepository implements ports.ConnectionRepository
type ConnectionRepository struct{ s *Store }

func (r *ConnectionRepository) List(ctx context.Context) ([]*entities.Connection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Connection, 0, len(r.s.connections.order))
	r.s.connections.each(func(_ string, c *entities.Connection) { out = append(out, c.Clone()) })
	return out, nil
}

func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*entities.Connection, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.connections.rows[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("connection")
	}
	return c.Clone(), nil
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *entities.Connection) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conn.ID = valueobjects.NewRecordID().String()
	r.s.connections.put(conn.ID, conn.Clone())
	return nil
}

func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.connections.remove(id)
	return nil
}

func (r *ConnectionRepository) DeleteByPoint(ctx context.Context, pointID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var doomed []string
	r.s.connections.each(func(id string, c *entities.Connection) {
		if c.Touches(pointID) {
			doomed = append(doomed, id)
		}
	})
	for _, id := range doomed {
		r.s.connections.remove(id)
	}
	return len(doomed), nil
}

// NoteRepository implements ports.NoteRepository
type NoteRepository struct{ s *Store }

func (r *NoteRepository) List(ctx context.Context) ([]*entities.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Note, 0, len(r.s.notes.order))
	r.s.notes.each(func(_ string, n *entities.Note) { out = append(out, n.Clone()) })
	return out, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*entities.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notes.rows[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("note")
	}
	return n.Clone(), nil
}

func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	note.ID = valueobjects.NewRecordID().String()
	note.Normalize()
	r.s.notes.put(note.ID, note.Clone())
	return nil
}

func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.notes.rows[note.ID]; !ok {
		return pkgerrors.NewNotFoundError("note")
	}
	note.Normalize()
	r.s.notes.put(note.ID, note.Clone())
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.notes.remove(id)
	return nil
}

func (r *NoteRepository) DeleteByPoint(ctx context.Context, pointID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var doomed []string
	r.s.notes.each(func(id string, n *entities.Note) {
		if n.BelongsToPoint(pointID) {
			doomed = append(doomed, id)
		}
	})
	for _, id := range doomed {
		r.s.notes.remove(id)
	}
	return len(doomed), nil
}

// TagRepository implements ports.TagRepository
type TagRepository struct{ s *Store }

func (r *TagRepository) List(ctx context.Context) ([]*entities.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Tag, 0, len(r.s.tags.order))
	r.s.tags.each(func(_ string, t *entities.Tag) { out = append(out, t.Clone()) })
	return out, nil
}

func (r *TagRepository) Create(ctx context.Context, tag *entities.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tag.ID = valueobjects.NewRecordID().String()
	r.s.tags.put(tag.ID, tag.Clone())
	return nil
}
