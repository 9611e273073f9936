package savegame

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
)

// FileName is the save file name inside the data directory.
const FileName = "save.json"

// DefaultDir returns the directory saves go to: $XDG_DATA_HOME/zompanion,
// defaulting to ~/.local/share/zompanion.
func DefaultDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "zompanion"), nil
}

// FileStore keeps the save as an indented JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path. An empty path means
// FileName under DefaultDir.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, FileName)
	}
	return &FileStore{path: filepath.Clean(path)}, nil
}

// Path returns the save file path.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes data, replacing any previous save. The file is written to a
// temporary name and renamed into place.
func (s *FileStore) Save(ctx context.Context, data Data) error {
	_, span := startSpan(ctx, "save.write", "file")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace save: %w", err)
	}
	span.SetAttributes(attribute.String("save.scene", data.SceneName))
	return nil
}

// Load reads and validates the save.
func (s *FileStore) Load(ctx context.Context) (Data, error) {
	_, span := startSpan(ctx, "save.read", "file")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return Data{}, err
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Data{}, ErrNoSave
	}
	if err != nil {
		return Data{}, fmt.Errorf("read save: %w", err)
	}

	var data Data
	if err := json.Unmarshal(b, &data); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if err := data.Validate(); err != nil {
		return Data{}, err
	}
	span.SetAttributes(attribute.String("save.scene", data.SceneName))
	return data, nil
}

// Exists reports whether a save file is present.
func (s *FileStore) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat save: %w", err)
	}
	return true, nil
}

// Delete removes the save. Deleting a missing save is not an error.
func (s *FileStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete save: %w", err)
	}
	return nil
}

// Close does nothing.
func (s *FileStore) Close() error {
	return nil
}
