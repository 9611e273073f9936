package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/zompanion/internal/assembly"
	"github.com/samdwyer/zompanion/internal/dialogue"
	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/logger"
	"github.com/samdwyer/zompanion/internal/loot"
	"github.com/samdwyer/zompanion/internal/scenestate"
	"github.com/samdwyer/zompanion/internal/transition"
)

// stagedProgress is the progress an operation reports once its scene is
// built and waiting for activation.
const stagedProgress = 0.9

// ErrUnknownScene is returned for a scene name missing from the catalog.
var ErrUnknownScene = errors.New("unknown scene")

// Loader builds scenes from the catalog. It implements transition.Loader.
type Loader struct {
	catalog *gamedata.Catalog
	spawner assembly.Spawner
	codex   assembly.Codex
	log     logrus.FieldLogger
}

// NewLoader creates a loader. spawner and codex are handed to the platform of
// every scene that has one.
func NewLoader(catalog *gamedata.Catalog, spawner assembly.Spawner, codex assembly.Codex, log logrus.FieldLogger) *Loader {
	return &Loader{
		catalog: catalog,
		spawner: spawner,
		codex:   codex,
		log:     logger.OrDiscard(log),
	}
}

// Build creates a fresh scene in its authored state: scripted spots hold
// their items, randomized spots are empty, triggers are enabled.
func (l *Loader) Build(name string) (*Scene, error) {
	def := l.catalog.Scenes.Get(name)
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	items := l.catalog.Items

	s := &Scene{
		Name:   def.Name,
		Title:  def.Title,
		Width:  def.Width,
		Height: def.Height,
		Spawn:  follow.Vec2{X: def.Spawn.X, Y: def.Spawn.Y},
	}
	if s.Title == "" {
		s.Title = def.Name
	}

	for _, sd := range def.Spots {
		spot := &DigSpot{
			Spot: newSpot(sd, items, l.log),
			Pos:  follow.Vec2{X: sd.X, Y: sd.Y},
		}
		s.Spots = append(s.Spots, spot)
		s.entities = append(s.entities, scenestate.NewEntity(sd.ID, spot.Spot))
	}

	for _, td := range def.Triggers {
		conv := l.catalog.Conversations[td.Conversation]
		trig := &TriggerPoint{
			Trigger: dialogue.NewTrigger(td, conv, l.log),
			Pos:     follow.Vec2{X: td.X, Y: td.Y},
		}
		s.Triggers = append(s.Triggers, trig)
		s.entities = append(s.entities, scenestate.NewEntity(td.ID, trig.Trigger))
	}

	if pd := def.Platform; pd != nil {
		s.Platform = &PlatformPoint{
			Platform: assembly.NewPlatform(pd.ID, l.catalog.Recipes, items, l.spawner, l.codex, l.log),
			Pos:      follow.Vec2{X: pd.X, Y: pd.Y},
		}
		s.entities = append(s.entities, scenestate.NewEntity(pd.ID, s.Platform.Platform))
	}

	for _, ed := range def.Exits {
		s.Exits = append(s.Exits, Exit{ID: ed.ID, Target: ed.Target, Region: RegionFromRect(ed.ID, ed.Region)})
	}
	for _, rd := range def.Regions {
		s.Regions = append(s.Regions, Region{ID: rd.ID, X: rd.X, Y: rd.Y, Width: rd.Width, Height: rd.Height})
	}
	return s, nil
}

func newSpot(def gamedata.SpotDef, items *gamedata.ItemRegistry, log logrus.FieldLogger) *loot.Spot {
	spot := loot.NewSpot(def.ID, len(def.Scripted) > 0, items, log)
	for _, name := range def.Scripted {
		spot.AddContent(items.Get(name))
	}
	return spot
}

// Start begins building the scene in the background. Unknown names fail
// immediately.
func (l *Loader) Start(name string) (*Operation, error) {
	if l.catalog.Scenes.Get(name) == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	op := &Operation{name: name, built: make(chan struct{})}
	go op.run(l)
	return op, nil
}

// Load implements transition.Loader.
func (l *Loader) Load(name string) (transition.Operation, error) {
	op, err := l.Start(name)
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Operation is a background scene build. The scene is only handed out once
// activated.
type Operation struct {
	name  string
	built chan struct{}

	mu        sync.Mutex
	scene     *Scene
	err       error
	activated bool
}

func (op *Operation) run(l *Loader) {
	scene, err := l.Build(op.name)
	op.mu.Lock()
	op.scene, op.err = scene, err
	op.mu.Unlock()
	close(op.built)

	l.log.WithField("scene", op.name).Debug("scene staged")
}

func (op *Operation) isBuilt() bool {
	select {
	case <-op.built:
		return true
	default:
		return false
	}
}

// Progress implements transition.Operation.
func (op *Operation) Progress() float64 {
	if !op.isBuilt() {
		return 0
	}
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.activated {
		return 1
	}
	return stagedProgress
}

// Activate implements transition.Operation.
func (op *Operation) Activate() {
	op.mu.Lock()
	op.activated = true
	op.mu.Unlock()
}

// Done implements transition.Operation.
func (op *Operation) Done() bool {
	if !op.isBuilt() {
		return false
	}
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.activated
}

// Wait blocks until the scene is built.
func (op *Operation) Wait() {
	<-op.built
}

// Scene returns the built scene after activation, or nil before.
func (op *Operation) Scene() (*Scene, error) {
	if !op.Done() {
		return nil, nil
	}
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.scene, op.err
}
