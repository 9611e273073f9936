package config

import (
	"strings"
	"testing"
	"time"

	"github.com/samdwyer/zompanion/internal/follow"
	"github.com/samdwyer/zompanion/internal/transition"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseCapacity != 10 || cfg.MaxFollowCount != 2 || !cfg.RequireCodexUnlock {
		t.Errorf("companion defaults = %d %d %v", cfg.BaseCapacity, cfg.MaxFollowCount, cfg.RequireCodexUnlock)
	}
	if cfg.SaveBackend != "file" || cfg.TelemetryEnabled {
		t.Errorf("backend=%q telemetry=%v", cfg.SaveBackend, cfg.TelemetryEnabled)
	}
	if cfg.FollowEngine() != follow.DefaultConfig() {
		t.Errorf("follow defaults = %+v, want %+v", cfg.FollowEngine(), follow.DefaultConfig())
	}
	if cfg.Transitions() != transition.DefaultConfig() {
		t.Errorf("transition defaults = %+v, want %+v", cfg.Transitions(), transition.DefaultConfig())
	}
	if got := cfg.TickInterval(); got != time.Second/60 {
		t.Errorf("tick interval = %v", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ZOMPANION_SEED", "42")
	t.Setenv("ZOMPANION_SAVE_BACKEND", "sqlite")
	t.Setenv("ZOMPANION_MAX_FOLLOW", "4")
	t.Setenv("ZOMPANION_FOLLOW_SAMPLE_SPACING", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 42 || cfg.SaveBackend != "sqlite" || cfg.Zombies().MaxFollowCount != 4 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.FollowEngine().SampleSpacing != 0.25 {
		t.Errorf("sample spacing = %v", cfg.FollowEngine().SampleSpacing)
	}
	if seed, err := cfg.ResolveSeed(); err != nil || seed != 42 {
		t.Errorf("ResolveSeed = %d, %v", seed, err)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("ZOMPANION_TICK_RATE", "fast")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("err = %v, want parse env prefix", err)
	}
}

func TestValidate(t *testing.T) {
	base, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.SaveBackend = "cloud" }},
		{"capacity", func(c *Config) { c.BaseCapacity = -1 }},
		{"no followers", func(c *Config) { c.MaxFollowCount = 0 }},
		{"too many followers", func(c *Config) { c.MaxFollowCount = 9 }},
		{"tick rate", func(c *Config) { c.TickRate = 0 }},
		{"spacing", func(c *Config) { c.Follow.SampleSpacing = 0 }},
		{"fade", func(c *Config) { c.Transition.FadeOut = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestResolveSeedRandom(t *testing.T) {
	cfg := Config{}
	a, err := cfg.ResolveSeed()
	if err != nil {
		t.Fatalf("ResolveSeed: %v", err)
	}
	b, _ := cfg.ResolveSeed()
	if a == 0 && b == 0 {
		t.Error("random seeds are both zero")
	}
}
