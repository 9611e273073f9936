// Package savegame persists the coarse save record: which scene the player
// was in and when. Deeper session state lives in memory only.
package savegame

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/zompanion/internal/telemetry"
)

// CurrentVersion is the save format version written by this build.
const CurrentVersion = 1

var (
	// ErrNoSave is returned when no save exists.
	ErrNoSave = errors.New("no save data")
	// ErrInvalidSave is returned for a record without a scene name.
	ErrInvalidSave = errors.New("invalid save data")
	// ErrUnsupportedVersion is returned for a record written by a newer build.
	ErrUnsupportedVersion = errors.New("unsupported save version")
)

// Data is the save record.
type Data struct {
	Version   int    `json:"version"`
	SceneName string `json:"sceneName"`
	// Timestamp is the save time in Unix milliseconds, UTC.
	Timestamp int64 `json:"timestamp"`
}

// New builds a record for scene at the given time.
func New(scene string, at time.Time) Data {
	return Data{
		Version:   CurrentVersion,
		SceneName: scene,
		Timestamp: at.UTC().UnixMilli(),
	}
}

// Time returns the save time.
func (d Data) Time() time.Time {
	return time.UnixMilli(d.Timestamp).UTC()
}

// Validate checks a loaded record.
func (d Data) Validate() error {
	if strings.TrimSpace(d.SceneName) == "" {
		return ErrInvalidSave
	}
	if d.Version > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	return nil
}

// Store is a single-slot save backend.
type Store interface {
	Save(ctx context.Context, data Data) error
	Load(ctx context.Context) (Data, error)
	Exists(ctx context.Context) (bool, error)
	Delete(ctx context.Context) error
	Close() error
}

func startSpan(ctx context.Context, name, backend string) (context.Context, trace.Span) {
	tracer := telemetry.Tracer("savegame")
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("save.backend", backend))
	return ctx, span
}

// Backends accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend at path. An empty path uses the
// backend's default location.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(path)
	case BackendSQLite:
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown save backend %q", backend)
	}
}
