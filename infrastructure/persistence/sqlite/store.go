// Package sqlite stores the record collections in an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"relationmap/application/ports"
	"relationmap/domain/core/entities"
	"relationmap/domain/core/valueobjects"
	"relationmap/domain/rules"
	pkgerrors "relationmap/pkg/errors"
)

// Store is a SQLite-backed store. One connection is kept open so writes are
// serialized and in-memory databases survive for the store's lifetime.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=off&_busy_timeout=5000")
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("open sqlite", err)
	}
	db.SetMaxOpenConns(1)

	version, err := migrate(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store ready", zap.String("path", path), zap.Int("schema_version", version))
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
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

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	return string(b), err
}

func decodeTags(raw string) ([]string, error) {
	tags := []string{}
	if raw == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// PointRepository implements ports.PointRepository
type PointRepository struct{ s *Store }

const pointColumns = `id, type, x, y, name, tags`

func scanPoint(row scanner) (*entities.Point, error) {
	var (
		p    entities.Point
		tags string
	)
	if err := row.Scan(&p.ID, &p.Type, &p.X, &p.Y, &p.Name, &tags); err != nil {
		return nil, err
	}
	decoded, err := decodeTags(tags)
	if err != nil {
		return nil, fmt.Errorf("point %s tags: %w", p.ID, err)
	}
	p.Tags = decoded
	return &p, nil
}

func (r *PointRepository) List(ctx context.Context) ([]*entities.Point, error) {
	rows, err := r.s.db.QueryContext(ctx, `SELECT `+pointColumns+` FROM points ORDER BY seq`)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list points", err)
	}
	defer rows.Close()

	out := []*entities.Point{}
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan point", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list points", err)
	}
	return out, nil
}

func (r *PointRepository) GetByID(ctx context.Context, id string) (*entities.Point, error) {
	return r.get(ctx, r.s.db, id)
}

func (r *PointRepository) get(ctx context.Context, q queryer, id string) (*entities.Point, error) {
	p, err := scanPoint(q.QueryRowContext(ctx, `SELECT `+pointColumns+` FROM points WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.NewNotFoundError("point")
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get point", err)
	}
	return p, nil
}

func (r *PointRepository) Create(ctx context.Context, point *entities.Point) error {
	point.ID = valueobjects.NewRecordID().String()
	point.Normalize()
	tags, err := encodeTags(point.Tags)
	if err != nil {
		return pkgerrors.NewDatabaseError("encode point tags", err)
	}
	if _, err := r.s.db.ExecContext(ctx,
		`INSERT INTO points (id, type, x, y, name, tags) VALUES (?, ?, ?, ?, ?, ?)`,
		point.ID, point.Type, point.X, point.Y, point.Name, tags,
	); err != nil {
		return pkgerrors.NewDatabaseError("create point", err)
	}
	return nil
}

func (r *PointRepository) Update(ctx context.Context, point *entities.Point) error {
	point.Normalize()
	tags, err := encodeTags(point.Tags)
	if err != nil {
		return pkgerrors.NewDatabaseError("encode point tags", err)
	}
	res, err := r.s.db.ExecContext(ctx,
		`UPDATE points SET type = ?, x = ?, y = ?, name = ?, tags = ? WHERE id = ?`,
		point.Type, point.X, point.Y, point.Name, tags, point.ID,
	)
	if err != nil {
		return pkgerrors.NewDatabaseError("update point", err)
	}
	return requireAffected(res, "point")
}

func (r *PointRepository) AddTags(ctx context.Context, id string, tagIDs []string) (*entities.Point, error) {
	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("begin add tags", err)
	}
	defer tx.Rollback()

	p, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	p.Tags = rules.UnionTags(p.Tags, tagIDs...)
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("encode point tags", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE points SET tags = ? WHERE id = ?`, tags, id); err != nil {
		return nil, pkgerrors.NewDatabaseError("add point tags", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, pkgerrors.NewDatabaseError("commit add tags", err)
	}
	return p, nil
}

func (r *PointRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.s.db.ExecContext(ctx, `DELETE FROM points WHERE id = ?`, id); err != nil {
		return pkgerrors.NewDatabaseError("delete point", err)
	}
	return nil
}

// ConnectionRepository implements ports.ConnectionRepository
type ConnectionRepository struct{ s *Store }

func scanConnection(row scanner) (*entities.Connection, error) {
	var c entities.Connection
	if err := row.Scan(&c.ID, &c.From, &c.To); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConnectionRepository) List(ctx context.Context) ([]*entities.Connection, error) {
	rows, err := r.s.db.QueryContext(ctx, `SELECT id, from_id, to_id FROM connections ORDER BY seq`)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list connections", err)
	}
	defer rows.Close()

	out := []*entities.Connection{}
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan connection", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list connections", err)
	}
	return out, nil
}

func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*entities.Connection, error) {
	c, err := scanConnection(r.s.db.QueryRowContext(ctx, `SELECT id, from_id, to_id FROM connections WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.NewNotFoundError("connection")
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get connection", err)
	}
	return c, nil
}

func (r *ConnectionRepository) Create(ctx context.Context, conn *entities.Connection) error {
	conn.ID = valueobjects.NewRecordID().String()
	if _, err := r.s.db.ExecContext(ctx,
		`INSERT INTO connections (id, from_id, to_id) VALUES (?, ?, ?)`,
		conn.ID, conn.From, conn.To,
	); err != nil {
		return pkgerrors.NewDatabaseError("create connection", err)
	}
	return nil
}

func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.s.db.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id); err != nil {
		return pkgerrors.NewDatabaseError("delete connection", err)
	}
	return nil
}

func (r *ConnectionRepository) DeleteByPoint(ctx context.Context, pointID string) (int, error) {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM connections WHERE from_id = ? OR to_id = ?`, pointID, pointID)
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("delete connections by point", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("delete connections by point", err)
	}
	return int(n), nil
}

// NoteRepository implements ports.NoteRepository
type NoteRepository struct{ s *Store }

const noteColumns = `id, point_id, connection_id, text, image, tags`

func scanNote(row scanner) (*entities.Note, error) {
	var (
		n    entities.Note
		tags string
	)
	if err := row.Scan(&n.ID, &n.PointID, &n.ConnectionID, &n.Text, &n.Image, &tags); err != nil {
		return nil, err
	}
	decoded, err := decodeTags(tags)
	if err != nil {
		return nil, fmt.Errorf("note %s tags: %w", n.ID, err)
	}
	n.Tags = decoded
	return &n, nil
}

func (r *NoteRepository) List(ctx context.Context) ([]*entities.Note, error) {
	rows, err := r.s.db.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY seq`)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list notes", err)
	}
	defer rows.Close()

	out := []*entities.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan note", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list notes", err)
	}
	return out, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*entities.Note, error) {
	n, err := scanNote(r.s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.NewNotFoundError("note")
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get note", err)
	}
	return n, nil
}

func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) error {
	note.ID = valueobjects.NewRecordID().String()
	note.Normalize()
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return pkgerrors.NewDatabaseError("encode note tags", err)
	}
	if _, err := r.s.db.ExecContext(ctx,
		`INSERT INTO notes (id, point_id, connection_id, text, image, tags) VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, note.PointID, note.ConnectionID, note.Text, note.Image, tags,
	); err != nil {
		return pkgerrors.NewDatabaseError("create note", err)
	}
	return nil
}

func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	note.Normalize()
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return pkgerrors.NewDatabaseError("encode note tags", err)
	}
	res, err := r.s.db.ExecContext(ctx,
		`UPDATE notes SET point_id = ?, connection_id = ?, text = ?, image = ?, tags = ? WHERE id = ?`,
		note.PointID, note.ConnectionID, note.Text, note.Image, tags, note.ID,
	)
	if err != nil {
		return pkgerrors.NewDatabaseError("update note", err)
	}
	return requireAffected(res, "note")
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return pkgerrors.NewDatabaseError("delete note", err)
	}
	return nil
}

func (r *NoteRepository) DeleteByPoint(ctx context.Context, pointID string) (int, error) {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM notes WHERE point_id = ? AND point_id <> ''`, pointID)
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("delete notes by point", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("delete notes by point", err)
	}
	return int(n), nil
}

// TagRepository implements ports.TagRepository
type TagRepository struct{ s *Store }

func (r *TagRepository) List(ctx context.Context) ([]*entities.Tag, error) {
	rows, err := r.s.db.QueryContext(ctx, `SELECT id, name, color FROM tags ORDER BY seq`)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("list tags", err)
	}
	defer rows.Close()

	out := []*entities.Tag{}
	for rows.Next() {
		var t entities.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, pkgerrors.NewDatabaseError("scan tag", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.NewDatabaseError("list tags", err)
	}
	return out, nil
}

func (r *TagRepository) Create(ctx context.Context, tag *entities.Tag) error {
	tag.ID = valueobjects.NewRecordID().String()
	if _, err := r.s.db.ExecContext(ctx,
		`INSERT INTO tags (id, name, color) VALUES (?, ?, ?)`,
		tag.ID, tag.Name, tag.Color,
	); err != nil {
		return pkgerrors.NewDatabaseError("create tag", err)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return pkgerrors.NewDatabaseError("update "+resource, err)
	}
	if n == 0 {
		return pkgerrors.NewNotFoundError(resource)
	}
	return nil
}
