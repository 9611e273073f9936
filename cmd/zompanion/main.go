// Package main is the entry point for Zompanion.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/zompanion/internal/config"
	"github.com/samdwyer/zompanion/internal/game"
	"github.com/samdwyer/zompanion/internal/gamedata"
	"github.com/samdwyer/zompanion/internal/inspector"
	"github.com/samdwyer/zompanion/internal/logger"
	"github.com/samdwyer/zompanion/internal/savegame"
	"github.com/samdwyer/zompanion/internal/telemetry"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so its deferred cleanup runs
// before os.Exit.
func realMain() int {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}

	// The terminal belongs to the game, so logs go to a file.
	lg, logFile, err := logger.OpenFile(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Printf("Failed to open log: %v", err)
		return 1
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.WithError(err).Error("game exited with error")
		log.Printf("Game error: %v", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, lg *logrus.Logger) error {
	shutdown := setupTelemetry(ctx, cfg, lg)
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			lg.WithError(err).Warn("telemetry shutdown failed")
		}
	}()

	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	for _, name := range catalog.Items.Duplicates() {
		lg.WithField("item", name).Warn("duplicate item name, later entry wins")
	}

	saves, err := savegame.Open(ctx, cfg.SaveBackend, cfg.SavePath)
	if err != nil {
		return fmt.Errorf("open saves: %w", err)
	}

	session, err := game.NewContext(ctx, game.Options{
		Config:  cfg,
		Catalog: catalog,
		Saves:   saves,
		Log:     lg,
	})
	if err != nil {
		saves.Close()
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			lg.WithError(err).Warn("closing session failed")
		}
	}()

	if cfg.InspectorAddr != "" {
		stopInspector := startInspector(cfg.InspectorAddr, session, lg)
		defer stopInspector()
	}

	g, err := game.New(session, cfg.TickInterval(), lg)
	if err != nil {
		return fmt.Errorf("initialize game: %w", err)
	}
	return g.Run(ctx)
}

func setupTelemetry(ctx context.Context, cfg config.Config, lg logrus.FieldLogger) func(context.Context) error {
	if !cfg.TelemetryEnabled {
		return telemetry.Disabled()
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		// Continue without telemetry - game still works
		lg.WithError(err).Warn("telemetry setup failed, running without observability")
		return telemetry.Disabled()
	}
	return shutdown
}

// setupOTelEnv configures OTEL environment variables from our custom env
// vars, unless the OTEL ones are already set.
func setupOTelEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	apiKey := os.Getenv("HONEYCOMB_ZOMPANION_API_KEY")
	dataset := os.Getenv("HONEYCOMB_ZOMPANION_DATASET")
	if dataset == "" {
		dataset = "zompanion"
	}
	if apiKey != "" && os.Getenv("OTEL_EXPORTER_OTLP_HEADERS") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}

// startInspector serves the live state feed and returns a stop function.
func startInspector(addr string, session *game.Context, lg logrus.FieldLogger) func() {
	hub := inspector.NewHub()
	detach := inspector.Attach(session.Bus(), hub, inspector.Source{
		Scene: session.SceneName,
		State: func() any { return session.Summarize() },
	}, lg.WithField("component", "inspector"))

	srv := inspector.NewServer(addr, hub, lg.WithField("component", "inspector"))
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			lg.WithError(err).Error("inspector stopped")
		}
	}()

	return func() {
		detach()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			lg.WithError(err).Warn("inspector shutdown failed")
		}
	}
}
