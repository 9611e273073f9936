package savegame

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/samdwyer/zompanion/internal/savegame/migrations"
)

// DBFileName is the save database name inside the data directory.
const DBFileName = "save.db"

// SQLiteStore keeps the save in a single-row SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and applies embedded migrations.
// An empty path means DBFileName under DefaultDir.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, DBFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save writes data, replacing any previous save.
func (s *SQLiteStore) Save(ctx context.Context, data Data) error {
	ctx, span := startSpan(ctx, "save.write", "sqlite")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO save_slot (slot, version, scene_name, saved_at) VALUES (1, ?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET
    version = excluded.version,
    scene_name = excluded.scene_name,
    saved_at = excluded.saved_at`,
		data.Version, data.SceneName, data.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	span.SetAttributes(attribute.String("save.scene", data.SceneName))
	return nil
}

// Load reads and validates the save.
func (s *SQLiteStore) Load(ctx context.Context) (Data, error) {
	ctx, span := startSpan(ctx, "save.read", "sqlite")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return Data{}, err
	}
	var data Data
	err := s.db.QueryRowContext(ctx,
		`SELECT version, scene_name, saved_at FROM save_slot WHERE slot = 1`,
	).Scan(&data.Version, &data.SceneName, &data.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return Data{}, ErrNoSave
	}
	if err != nil {
		return Data{}, fmt.Errorf("read save: %w", err)
	}
	if err := data.Validate(); err != nil {
		return Data{}, err
	}
	span.SetAttributes(attribute.String("save.scene", data.SceneName))
	return data, nil
}

// Exists reports whether a save row is present.
func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM save_slot`).Scan(&count); err != nil {
		return false, fmt.Errorf("count saves: %w", err)
	}
	return count > 0, nil
}

// Delete removes the save.
func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_slot`); err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
