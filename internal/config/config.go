// Package config loads runtime settings from the environment.
package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/savegame"
	"github.com/samdwyer/zompanion/internal/transition"
	"github.com/samdwyer/zompanion/internal/zombie"
)

// Config holds every setting read from ZOMPANION_* variables.
type Config struct {
	// Seed for random number generation. A seed of 0 means a random seed
	// will be generated.
	Seed int64 `env:"ZOMPANION_SEED" envDefault:"0"`

	LogLevel  string `env:"ZOMPANION_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ZOMPANION_LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"ZOMPANION_LOG_FILE" envDefault:"zompanion.log"`

	// StartScene overrides the catalog's start scene when set.
	StartScene string `env:"ZOMPANION_START_SCENE"`

	SaveBackend string `env:"ZOMPANION_SAVE_BACKEND" envDefault:"file"`
	// SavePath defaults to the backend's file under the XDG data directory.
	SavePath string `env:"ZOMPANION_SAVE_PATH"`

	TelemetryEnabled bool `env:"ZOMPANION_TELEMETRY" envDefault:"false"`
	// InspectorAddr enables the live state inspector when set, e.g. ":7777".
	InspectorAddr string `env:"ZOMPANION_INSPECTOR_ADDR"`

	BaseCapacity       int  `env:"ZOMPANION_BASE_CAPACITY" envDefault:"10"`
	MaxFollowCount     int  `env:"ZOMPANION_MAX_FOLLOW" envDefault:"2"`
	RequireCodexUnlock bool `env:"ZOMPANION_REQUIRE_CODEX_UNLOCK" envDefault:"true"`

	Follow     FollowConfig
	Transition TransitionConfig

	TickRate int `env:"ZOMPANION_TICK_RATE" envDefault:"60"`
}

// FollowConfig tunes the follow engine.
type FollowConfig struct {
	SampleSpacing       float64 `env:"ZOMPANION_FOLLOW_SAMPLE_SPACING" envDefault:"0.12"`
	MaxTrailPoints      int     `env:"ZOMPANION_FOLLOW_MAX_TRAIL" envDefault:"512"`
	PlayerAvoidRadius   float64 `env:"ZOMPANION_FOLLOW_AVOID_RADIUS" envDefault:"0.55"`
	PlayerAvoidStrength float64 `env:"ZOMPANION_FOLLOW_AVOID_STRENGTH" envDefault:"1.1"`
	SeparationRadius    float64 `env:"ZOMPANION_FOLLOW_SEPARATION_RADIUS" envDefault:"0.4"`
	SeparationStrength  float64 `env:"ZOMPANION_FOLLOW_SEPARATION_STRENGTH" envDefault:"0.25"`
}

// TransitionConfig holds scene transition timings in seconds.
type TransitionConfig struct {
	FadeIn          float64 `env:"ZOMPANION_FADE_IN" envDefault:"0.3"`
	MinimumDisplay  float64 `env:"ZOMPANION_MIN_LOAD_DISPLAY" envDefault:"0.5"`
	PostLoadDisplay float64 `env:"ZOMPANION_POST_LOAD_DISPLAY" envDefault:"1.0"`
	FadeOut         float64 `env:"ZOMPANION_FADE_OUT" envDefault:"0.4"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	switch c.SaveBackend {
	case savegame.BackendFile, savegame.BackendSQLite:
	default:
		return fmt.Errorf("invalid save backend %q: want %s or %s", c.SaveBackend, savegame.BackendFile, savegame.BackendSQLite)
	}
	if c.BaseCapacity < 0 {
		return fmt.Errorf("base capacity must not be negative, got %d", c.BaseCapacity)
	}
	if c.MaxFollowCount < 1 || c.MaxFollowCount > 8 {
		return fmt.Errorf("max follow count must be between 1 and 8, got %d", c.MaxFollowCount)
	}
	if c.TickRate < 1 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if c.Follow.SampleSpacing <= 0 {
		return fmt.Errorf("follow sample spacing must be positive, got %v", c.Follow.SampleSpacing)
	}
	t := c.Transition
	if t.FadeIn < 0 || t.MinimumDisplay < 0 || t.PostLoadDisplay < 0 || t.FadeOut < 0 {
		return fmt.Errorf("transition timings must not be negative")
	}
	return nil
}

// ResolveSeed returns the configured seed, or a fresh random one when it is 0.
func (c Config) ResolveSeed() (int64, error) {
	if c.Seed != 0 {
		return c.Seed, nil
	}
	return NewSeed()
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// TickInterval is the fixed simulation step.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// FollowEngine converts the follow settings.
func (c Config) FollowEngine() follow.Config {
	return follow.Config{
		SampleSpacing:       c.Follow.SampleSpacing,
		MaxTrailPoints:      c.Follow.MaxTrailPoints,
		LeaderAvoidRadius:   c.Follow.PlayerAvoidRadius,
		LeaderAvoidStrength: c.Follow.PlayerAvoidStrength,
		SeparationRadius:    c.Follow.SeparationRadius,
		SeparationStrength:  c.Follow.SeparationStrength,
	}
}

// Transitions converts the transition timings.
func (c Config) Transitions() transition.Config {
	return transition.Config{
		FadeIn:          c.Transition.FadeIn,
		MinimumDisplay:  c.Transition.MinimumDisplay,
		PostLoadDisplay: c.Transition.PostLoadDisplay,
		FadeOut:         c.Transition.FadeOut,
	}
}

// Zombies converts the companion settings.
func (c Config) Zombies() zombie.Config {
	zc := zombie.DefaultConfig()
	zc.MaxFollowCount = c.MaxFollowCount
	zc.RequireCodexUnlock = c.RequireCodexUnlock
	return zc
}
