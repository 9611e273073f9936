package transition

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/zompanion/internal/logger"
	"github.com/samdwyer/zompanion/internal/telemetry"
)

// readyProgress is the load progress at which a scene is staged and waits
// for activation.
const readyProgress = 0.9

var (
	// ErrInProgress is returned when a transition is already running.
	ErrInProgress = errors.New("scene transition already in progress")
	// ErrEmptyScene is returned for a blank scene name.
	ErrEmptyScene = errors.New("scene name is empty")
)

// Phase is the step a transition is in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFadingIn
	PhaseLoading
	PhaseHolding
	PhaseActivating
	PhasePostLoad
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFadingIn:
		return "fading_in"
	case PhaseLoading:
		return "loading"
	case PhaseHolding:
		return "holding"
	case PhaseActivating:
		return "activating"
	case PhasePostLoad:
		return "post_load"
	default:
		return "unknown"
	}
}

// Operation is an in-flight background scene load.
type Operation interface {
	// Progress reports load progress in [0, 1]. A staged scene stops at 0.9
	// until Activate is called.
	Progress() float64
	// Activate lets the staged scene replace the current one.
	Activate()
	// Done reports whether activation finished.
	Done() bool
}

// Loader starts background scene loads.
type Loader interface {
	Load(scene string) (Operation, error)
}

// Hooks run at the scene swap. BeforeUnload runs while the old scene still
// exists; AfterLoad runs once the new scene is active.
type Hooks struct {
	BeforeUnload func(from, to string)
	AfterLoad    func(scene string)
}

// Config holds transition timings in seconds.
type Config struct {
	FadeIn          float64
	MinimumDisplay  float64
	PostLoadDisplay float64
	FadeOut         float64
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		FadeIn:          0.3,
		MinimumDisplay:  0.5,
		PostLoadDisplay: 1.0,
		FadeOut:         0.4,
	}
}

// Manager sequences scene transitions. Call Tick once per frame with
// unscaled time; a paused game still transitions.
type Manager struct {
	cfg    Config
	loader Loader
	hooks  Hooks
	log    logrus.FieldLogger

	phase       Phase
	current     string
	target      string
	op          Operation
	fade        Fade
	elapsed     float64
	loadElapsed float64
	lastErr     error
}

// NewManager creates a manager with no current scene.
func NewManager(cfg Config, loader Loader, hooks Hooks, log logrus.FieldLogger) *Manager {
	return &Manager{
		cfg:    cfg,
		loader: loader,
		hooks:  hooks,
		log:    logger.OrDiscard(log),
	}
}

// SetCurrent records the active scene without transitioning, e.g. after a
// direct load at boot.
func (m *Manager) SetCurrent(scene string) {
	m.current = scene
}

// Current returns the active scene.
func (m *Manager) Current() string {
	return m.current
}

// Target returns the scene being loaded, or "" when idle.
func (m *Manager) Target() string {
	return m.target
}

// Phase returns the current phase.
func (m *Manager) Phase() Phase {
	return m.phase
}

// Busy reports whether a transition is running.
func (m *Manager) Busy() bool {
	return m.phase != PhaseIdle
}

// Err returns the error that aborted the last transition, if any.
func (m *Manager) Err() error {
	return m.lastErr
}

// Request starts a transition to scene. A second request while one is in
// flight is rejected, not queued.
func (m *Manager) Request(ctx context.Context, scene string) error {
	tracer := telemetry.Tracer("transition")
	_, span := tracer.Start(ctx, "transition.request")
	defer span.End()

	span.SetAttributes(
		attribute.String("transition.from", m.current),
		attribute.String("transition.to", scene),
	)

	if m.Busy() {
		m.log.WithField("scene", scene).Warn("transition already running, request ignored")
		span.SetAttributes(attribute.String("transition.result", "busy"))
		return ErrInProgress
	}
	if strings.TrimSpace(scene) == "" {
		span.SetAttributes(attribute.String("transition.result", "empty"))
		return ErrEmptyScene
	}

	m.target = scene
	m.lastErr = nil
	m.enter(PhaseFadingIn)
	m.fade = NewFade(0, 1, m.cfg.FadeIn)
	span.SetAttributes(attribute.String("transition.result", "started"))
	return nil
}

// Cancel abandons a transition that has not started swapping scenes yet.
// It returns false once activation began or when idle.
func (m *Manager) Cancel() bool {
	switch m.phase {
	case PhaseFadingIn, PhaseLoading, PhaseHolding:
		m.log.WithField("scene", m.target).Info("transition cancelled")
		m.reset()
		return true
	default:
		return false
	}
}

func (m *Manager) reset() {
	m.phase = PhaseIdle
	m.target = ""
	m.op = nil
	m.fade = Fade{}
	m.elapsed = 0
	m.loadElapsed = 0
}

func (m *Manager) enter(p Phase) {
	m.phase = p
	m.elapsed = 0
}

// Progress is the load bar fill in [0, 1].
func (m *Manager) Progress() float64 {
	switch m.phase {
	case PhaseLoading:
		return min(max(m.op.Progress()/readyProgress, 0), 1)
	case PhaseHolding, PhaseActivating, PhasePostLoad:
		return 1
	default:
		return 0
	}
}

// Alpha is the black overlay opacity.
func (m *Manager) Alpha() float64 {
	switch m.phase {
	case PhaseIdle:
		return 0
	case PhaseFadingIn, PhasePostLoad:
		return m.fade.Alpha()
	default:
		return 1
	}
}

// Tick advances the running transition by dt seconds.
func (m *Manager) Tick(dt float64) {
	if m.phase == PhaseIdle {
		return
	}
	m.elapsed += dt
	if m.phase == PhaseLoading || m.phase == PhaseHolding {
		m.loadElapsed += dt
	}

	switch m.phase {
	case PhaseFadingIn:
		m.fade.Tick(dt)
		if m.fade.Done() {
			m.startLoad()
		}
	case PhaseLoading:
		if m.op.Progress() >= readyProgress {
			m.enter(PhaseHolding)
			m.tickHolding()
		}
	case PhaseHolding:
		m.tickHolding()
	case PhaseActivating:
		if m.op.Done() {
			m.finishActivation()
		}
	case PhasePostLoad:
		// The fade back starts so that it ends with the post-load display.
		if m.elapsed >= m.cfg.PostLoadDisplay-m.cfg.FadeOut {
			m.fade.Tick(dt)
		}
		if m.elapsed >= m.cfg.PostLoadDisplay && m.fade.Done() {
			m.log.WithField("scene", m.current).Debug("transition finished")
			m.reset()
		}
	}
}

func (m *Manager) startLoad() {
	op, err := m.loader.Load(m.target)
	if err != nil {
		m.lastErr = fmt.Errorf("load scene %s: %w", m.target, err)
		m.log.WithField("scene", m.target).WithError(err).Error("scene load failed")
		m.reset()
		return
	}
	m.op = op
	m.loadElapsed = 0
	m.enter(PhaseLoading)
}

func (m *Manager) tickHolding() {
	if m.loadElapsed < m.cfg.MinimumDisplay {
		return
	}
	m.enter(PhaseActivating)
	if m.hooks.BeforeUnload != nil && m.current != "" {
		m.hooks.BeforeUnload(m.current, m.target)
	}
	m.op.Activate()
	if m.op.Done() {
		m.finishActivation()
	}
}

func (m *Manager) finishActivation() {
	m.current = m.target
	if m.hooks.AfterLoad != nil {
		m.hooks.AfterLoad(m.current)
	}
	m.enter(PhasePostLoad)
	m.fade = NewFade(1, 0, m.cfg.FadeOut)
}
