package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	pkgerrors "relationmap/pkg/errors"
)

// migration moves the schema from version-1 to version. Applied versions are
// tracked in PRAGMA user_version.
type migration struct {
	version     int
	description string
	up          string
}

var migrations = []migration{
	{
		version:     1,
		description: "record tables",
		up: `
CREATE TABLE IF NOT EXISTS points (
	seq  INTEGER PRIMARY KEY AUTOINCREMENT,
	id   TEXT NOT NULL UNIQUE,
	type TEXT NOT NULL DEFAULT '',
	x    REAL NOT NULL DEFAULT 0,
	y    REAL NOT NULL DEFAULT 0,
	name TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS connections (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      TEXT NOT NULL UNIQUE,
	from_id TEXT NOT NULL DEFAULT '',
	to_id   TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS notes (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL UNIQUE,
	point_id      TEXT NOT NULL DEFAULT '',
	connection_id TEXT NOT NULL DEFAULT '',
	text          TEXT NOT NULL DEFAULT '',
	image         TEXT NOT NULL DEFAULT '',
	tags          TEXT NOT NULL DEFAULT '[]'
);
CREATE TABLE IF NOT EXISTS tags (
	seq   INTEGER PRIMARY KEY AUTOINCREMENT,
	id    TEXT NOT NULL UNIQUE,
	name  TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		version:     2,
		description: "cascade lookup indexes",
		up: `
CREATE INDEX IF NOT EXISTS connections_from ON connections(from_id);
CREATE INDEX IF NOT EXISTS connections_to ON connections(to_id);
CREATE INDEX IF NOT EXISTS notes_point ON notes(point_id);
CREATE INDEX IF NOT EXISTS notes_connection ON notes(connection_id);`,
	},
}

// migrate applies every migration newer than the database's version, each in
// its own transaction, and returns the resulting version
func migrate(ctx context.Context, db *sql.DB, logger *zap.Logger) (int, error) {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return 0, err
	}
	if latest := migrations[len(migrations)-1].version; current > latest {
		return 0, pkgerrors.NewDatabaseError("migrate sqlite",
			fmt.Errorf("database schema version %d is newer than supported version %d", current, latest))
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return current, pkgerrors.NewDatabaseError(fmt.Sprintf("migrate sqlite to version %d", m.version), err)
		}
		current = m.version
		logger.Info("SQLite migration applied",
			zap.Int("version", m.version),
			zap.String("description", m.description),
		)
	}
	return current, nil
}

func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.up); err != nil {
		return err
	}
	// PRAGMA does not take bound parameters
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return err
	}
	return tx.Commit()
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, pkgerrors.NewDatabaseError("read sqlite schema version", err)
	}
	return v, nil
}
