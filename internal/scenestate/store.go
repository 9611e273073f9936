// Package scenestate keeps per-scene snapshots of entity state in memory so
// a scene looks the same when the player comes back to it.
package scenestate

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/zompanion/internal/logger"
	"github.com/samdwyer/zompanion/internal/telemetry"
)

// Saveable is one state-bearing facet of an entity. Kind routes a captured
// blob back to the facet that produced it.
type Saveable interface {
	Kind() string
	CaptureState() (string, error)
	RestoreState(state string) error
}

// Entity is a scene object with a persistent id and any number of saveable
// facets.
type Entity struct {
	ID     string
	Facets []Saveable
}

// NewEntity creates an entity.
func NewEntity(id string, facets ...Saveable) *Entity {
	return &Entity{ID: id, Facets: facets}
}

// NewEntityID returns a fresh id for entities created at runtime rather
// than authored into a scene.
func NewEntityID() string {
	return uuid.NewString()
}

// Record is one captured facet.
type Record struct {
	EntityID string `json:"entityId"`
	Kind     string `json:"componentType"`
	State    string `json:"stateJson"`
}

// Store holds the latest snapshot of each scene. It is not safe for
// concurrent use.
type Store struct {
	scenes map[string][]Record
	log    logrus.FieldLogger
}

// NewStore creates an empty store.
func NewStore(log logrus.FieldLogger) *Store {
	return &Store{
		scenes: make(map[string][]Record),
		log:    logger.OrDiscard(log),
	}
}

// Capture asks every facet of every entity for its state and stores the
// result as the snapshot of scene, replacing any earlier one. Entities
// without an id are skipped, as are facets whose capture fails. The
// snapshot holds at most one record per (entity id, kind): if one entity
// reports the same kind twice the last one wins, and if a second entity
// claims a pair already taken it is logged and dropped.
func (s *Store) Capture(ctx context.Context, scene string, entities []*Entity) int {
	tracer := telemetry.Tracer("scenestate")
	_, span := tracer.Start(ctx, "scene.capture")
	defer span.End()

	type key struct{ id, kind string }
	type slot struct {
		index int
		owner *Entity
	}

	var records []Record
	taken := make(map[key]slot)
	collisions := 0
	for _, e := range entities {
		if e == nil || e.ID == "" {
			continue
		}
		for _, f := range e.Facets {
			if f == nil {
				continue
			}
			fields := logrus.Fields{
				"scene":     scene,
				"entity_id": e.ID,
				"kind":      f.Kind(),
			}
			state, err := f.CaptureState()
			if err != nil {
				s.log.WithFields(fields).WithError(err).Warn("capture failed, facet skipped")
				continue
			}
			rec := Record{EntityID: e.ID, Kind: f.Kind(), State: state}
			k := key{rec.EntityID, rec.Kind}
			if prev, ok := taken[k]; ok {
				if prev.owner != e {
					collisions++
					s.log.WithFields(fields).Warn("entity id shared by another entity, facet skipped")
					continue
				}
				records[prev.index] = rec
				continue
			}
			taken[k] = slot{index: len(records), owner: e}
			records = append(records, rec)
		}
	}

	s.scenes[scene] = records

	span.SetAttributes(
		attribute.String("scene.name", scene),
		attribute.Int("scene.entities", len(entities)),
		attribute.Int("scene.records", len(records)),
		attribute.Int("scene.collisions", collisions),
	)
	return len(records)
}

// Restore replays the snapshot of scene onto entities matched by id and
// facets matched by kind. Entities or facets absent from the snapshot keep
// their current state; snapshot entries with no live entity are ignored.
// A facet that fails to restore is logged and skipped. Restore returns the
// number of facets restored.
func (s *Store) Restore(ctx context.Context, scene string, entities []*Entity) int {
	tracer := telemetry.Tracer("scenestate")
	_, span := tracer.Start(ctx, "scene.restore")
	defer span.End()

	span.SetAttributes(attribute.String("scene.name", scene))

	records := s.scenes[scene]
	if len(records) == 0 {
		span.SetAttributes(attribute.Int("scene.restored", 0))
		return 0
	}

	grouped := make(map[string]map[string]string)
	for _, r := range records {
		if grouped[r.EntityID] == nil {
			grouped[r.EntityID] = make(map[string]string)
		}
		grouped[r.EntityID][r.Kind] = r.State
	}

	restored := 0
	for _, e := range entities {
		if e == nil || e.ID == "" {
			continue
		}
		states, ok := grouped[e.ID]
		if !ok {
			continue
		}
		for _, f := range e.Facets {
			if f == nil {
				continue
			}
			state, ok := states[f.Kind()]
			if !ok {
				continue
			}
			if err := f.RestoreState(state); err != nil {
				s.log.WithFields(logrus.Fields{
					"scene":     scene,
					"entity_id": e.ID,
					"kind":      f.Kind(),
				}).WithError(err).Warn("restore failed, facet left as is")
				continue
			}
			restored++
		}
	}

	span.SetAttributes(attribute.Int("scene.restored", restored))
	return restored
}

// HasSceneState reports whether scene has a non-empty snapshot.
func (s *Store) HasSceneState(scene string) bool {
	return len(s.scenes[scene]) > 0
}

// Records returns a copy of the snapshot of scene.
func (s *Store) Records(scene string) []Record {
	records := s.scenes[scene]
	out := make([]Record, len(records))
	copy(out, records)
	return out
}

// Scenes returns the names of every scene with a snapshot, sorted.
func (s *Store) Scenes() []string {
	names := make([]string, 0, len(s.scenes))
	for name := range s.scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearAllStates drops every snapshot.
func (s *Store) ClearAllStates() {
	clear(s.scenes)
}

type sceneData struct {
	SceneName string   `json:"sceneName"`
	Entities  []Record `json:"entities"`
}

type allScenes struct {
	Scenes []sceneData `json:"scenes"`
}

// MarshalJSON encodes every snapshot, scenes sorted by name.
func (s *Store) MarshalJSON() ([]byte, error) {
	out := allScenes{Scenes: make([]sceneData, 0, len(s.scenes))}
	for _, name := range s.Scenes() {
		records := s.scenes[name]
		if records == nil {
			records = []Record{}
		}
		out.Scenes = append(out.Scenes, sceneData{SceneName: name, Entities: records})
	}
	return json.Marshal(out)
}

// UnmarshalJSON replaces every snapshot with the encoded ones. Empty input
// leaves the store untouched.
func (s *Store) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	var in allScenes
	if err := json.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("decode scene states: %w", err)
	}
	if s.scenes == nil {
		s.scenes = make(map[string][]Record)
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	clear(s.scenes)
	for _, sc := range in.Scenes {
		s.scenes[sc.SceneName] = sc.Entities
	}
	return nil
}
