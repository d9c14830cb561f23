// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Builds and tears down the game services shared by commands.

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/jeranaias/muddy-tui/internal/config"
	"github.com/jeranaias/muddy-tui/internal/events"
	"github.com/jeranaias/muddy-tui/internal/game"
	"github.com/jeranaias/muddy-tui/internal/settings"
	"github.com/jeranaias/muddy-tui/internal/stream"
	"github.com/jeranaias/muddy-tui/internal/transcript"
)

// RuntimeOptions select the optional services.
type RuntimeOptions struct {
	// Watch reloads the zones directory on change.
	Watch bool

	// Record archives the session when transcripts are enabled.
	Record bool
}

// Runtime owns the bus, the message log, the engine and its helpers.
type Runtime struct {
	Config   *config.Config
	Logger   *slog.Logger
	Bus      *events.Bus
	Log      *stream.Aggregator
	Settings *settings.Store
	World    *game.World
	Engine   *game.Engine

	watcher  *game.Watcher
	archive  *transcript.Store
	recorder *transcript.Recorder

	closeOnce sync.Once
}

// NewRuntime loads the world and starts the engine. On error everything
// started so far is torn down.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts RuntimeOptions) (rt *Runtime, err error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rt = &Runtime{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			rt.Close()
			rt = nil
		}
	}()

	world, err := loadWorld(cfg.Game.ZonesDir)
	if err != nil {
		return rt, err
	}
	for _, file := range world.Skipped {
		logger.Warn("Zone file not found, skipping", "file", file)
	}
	rt.World = world

	rt.Bus = events.NewBus()
	rt.Log = stream.New(stream.WithCapacity(cfg.UI.MaxMessages))
	if err := rt.Log.Subscribe(rt.Bus); err != nil {
		return rt, err
	}

	rt.Settings = settings.NewStore(cfg.UI.SettingsPath, logger)
	rt.Settings.Load()

	rt.Engine = game.NewEngine(world, game.Options{
		Emitter:           rt.Bus,
		Settings:          rt.Settings,
		Logger:            logger,
		ResponseDelay:     cfg.ResponseDelay(),
		MinimapRadius:     cfg.Game.MinimapRadius,
		CommandsPerSecond: cfg.Game.CommandsPerSecond,
		CommandBurst:      cfg.Game.CommandBurst,
	})

	if opts.Watch && cfg.Game.WatchZones && cfg.Game.ZonesDir != "" {
		w, err := game.NewWatcher(cfg.Game.ZonesDir, rt.Engine, 0, logger)
		if err != nil {
			return rt, fmt.Errorf("watch zones: %w", err)
		}
		rt.watcher = w
		if err := w.Watch(); err != nil {
			return rt, fmt.Errorf("watch zones: %w", err)
		}
	}

	if opts.Record && cfg.Transcript.Enabled {
		// The archive is optional; play continues without it.
		if err := rt.startRecording(ctx); err != nil {
			logger.Warn("Transcript disabled", "path", cfg.Transcript.Path, "error", err)
		}
	}

	logger.Info("Runtime started",
		"rooms", world.Len(),
		"zones", len(world.Zones()),
		"start", world.Start().Key(),
		"recording", rt.recorder != nil)
	return rt, nil
}

func loadWorld(dir string) (*game.World, error) {
	if dir == "" {
		return game.DefaultWorld()
	}
	w, err := game.LoadWorldDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load zones from %s: %w", dir, err)
	}
	return w, nil
}

func (r *Runtime) startRecording(ctx context.Context) error {
	store, err := transcript.Open(r.Config.Transcript.Path)
	if err != nil {
		return err
	}
	rec := transcript.NewRecorder(store, r.Logger)
	session, err := rec.Start(ctx, r.Bus)
	if err != nil {
		store.Close()
		return err
	}
	r.archive = store
	r.recorder = rec
	r.Logger.Info("Recording transcript", "session", session.ID)
	return nil
}

// Session returns the archived session, if recording.
func (r *Runtime) Session() (transcript.Session, bool) {
	if r.recorder == nil {
		return transcript.Session{}, false
	}
	return r.recorder.Session(), true
}

// Close stops everything in dependency order. It is safe to call twice.
func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		if r.watcher != nil {
			if err := r.watcher.Close(); err != nil {
				r.Logger.Warn("Failed to close zone watcher", "error", err)
			}
		}
		if r.Engine != nil {
			r.Engine.Close()
		}
		if r.recorder != nil {
			r.recorder.Close()
		}
		if r.archive != nil {
			if err := r.archive.Close(); err != nil {
				r.Logger.Warn("Failed to close transcript", "error", err)
			}
		}
		if r.Log != nil {
			r.Log.Close()
		}
		if r.Bus != nil {
			r.Bus.Close()
		}
	})
}
