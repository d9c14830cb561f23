// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/muddy-tui/internal/minimap"
)

// isolateHome points the home directory at a temp dir so no real config is read.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{"MUDDY_ZONES_DIR", "MUDDY_RESPONSE_DELAY_MS", "MUDDY_MINIMAP", "MUDDY_THEME", "MUDDY_TRANSCRIPT", "MUDDY_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	return home
}

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and ReloadGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Version = "test"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

// TestConfig_ConcurrentReload tests concurrent ReloadGlobal and Global calls.
func TestConfig_ConcurrentReload(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()
	_ = Global()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ReloadGlobal()
		}()
	}
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

// TestConfig_GlobalInitialization tests that Global() loads defaults on first access.
func TestConfig_GlobalInitialization(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}
	if cfg.Version == "" {
		t.Error("Config version should not be empty")
	}
	if cfg.UI.SelfLoops == "" {
		t.Error("Self-loop policy should not be empty")
	}
}

// TestConfig_SetGlobalOverwrites tests that SetGlobal replaces the global config.
func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()
	_ = Global()

	custom := Default()
	custom.Version = "custom-version"
	SetGlobal(custom)

	if got := Global().Version; got != "custom-version" {
		t.Errorf("Expected version 'custom-version', got '%s'", got)
	}
}

func TestConfig_Default(t *testing.T) {
	isolateHome(t)
	cfg := Default()

	assert.Equal(t, 2, cfg.Game.MinimapRadius)
	assert.Equal(t, 100*time.Millisecond, cfg.ResponseDelay())
	assert.True(t, cfg.UI.MinimapEnabled)
	assert.Equal(t, 5000, cfg.UI.MaxMessages)
	assert.Equal(t, minimap.DefaultCellSize, cfg.UI.CellSize)
	assert.Equal(t, minimap.SelfLoopDraw, cfg.SelfLoopPolicy())
	assert.True(t, strings.HasSuffix(cfg.UI.SettingsPath, filepath.Join(".muddy", "settings.json")))
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"radius too small", func(c *Config) { c.Game.MinimapRadius = 0 }, "game.minimap_radius"},
		{"negative delay", func(c *Config) { c.Game.ResponseDelayMs = -1 }, "game.response_delay_ms"},
		{"negative rate", func(c *Config) { c.Game.CommandsPerSecond = -2 }, "game.commands_per_second"},
		{"missing zones dir", func(c *Config) { c.Game.ZonesDir = "/definitely/not/here" }, "game.zones_dir"},
		{"negative max messages", func(c *Config) { c.UI.MaxMessages = -1 }, "ui.max_messages"},
		{"bad cell size", func(c *Config) { c.UI.CellSize = 2 }, "ui.cell_size"},
		{"bad self loops", func(c *Config) { c.UI.SelfLoops = "hide" }, "ui.self_loops"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"transcript without path", func(c *Config) { c.Transcript.Path = "" }, "transcript.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestConfig_LoadFromPathKeepsDefaults(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\nself_loops = \"skip\"\nmax_messages = 10\n"), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, minimap.SelfLoopSkip, cfg.SelfLoopPolicy())
	assert.Equal(t, 10, cfg.UI.MaxMessages)
	assert.True(t, cfg.UI.MinimapEnabled, "omitted bools keep their defaults")
	assert.Equal(t, 2, cfg.Game.MinimapRadius)
}

func TestConfig_LoadFromPathInvalid(t *testing.T) {
	home := isolateHome(t)
	path := filepath.Join(home, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\nself_loops = \"sideways\"\n"), 0644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestConfig_SaveAndLoad(t *testing.T) {
	home := isolateHome(t)

	cfg := Default()
	cfg.Game.MinimapRadius = 4
	cfg.UI.Theme = "dark"
	require.NoError(t, Save(cfg))

	data, err := os.ReadFile(filepath.Join(home, ".muddy", "config.toml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# muddy configuration file"))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Game.MinimapRadius)
	assert.Equal(t, "dark", loaded.UI.Theme)

	jsonPath := filepath.Join(home, "config.json")
	require.NoError(t, SaveJSON(cfg, jsonPath))
	fromJSON, err := LoadFromPath(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 4, fromJSON.Game.MinimapRadius)
}

func TestConfig_EnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv("MUDDY_MINIMAP", "0")
	t.Setenv("MUDDY_LOG_LEVEL", "debug")
	t.Setenv("MUDDY_RESPONSE_DELAY_MS", "5")
	t.Setenv("MUDDY_TRANSCRIPT", "false")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.False(t, cfg.UI.MinimapEnabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Game.ResponseDelayMs)
	assert.False(t, cfg.Transcript.Enabled)
}

func TestConfig_GetSet(t *testing.T) {
	isolateHome(t)
	cfg := Default()

	v, err := cfg.Get("game.minimap_radius")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	require.NoError(t, cfg.Set("game.minimap_radius", "3"))
	require.NoError(t, cfg.Set("ui.minimap_enabled", "false"))
	require.NoError(t, cfg.Set("ui.self_loops", "skip"))
	assert.Equal(t, 3, cfg.Game.MinimapRadius)
	assert.False(t, cfg.UI.MinimapEnabled)
	assert.Equal(t, "skip", cfg.UI.SelfLoops)

	_, err = cfg.Get("game.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("game.minimap_radius.x", "1"))
	assert.Error(t, cfg.Set("game.minimap_radius", "many"))

	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, key)
	}
}

func TestConfig_ExpandHome(t *testing.T) {
	home := isolateHome(t)
	cfg := Default()
	cfg.Log.Path = "~/logs/muddy.log"
	cfg.SetDefaults()
	assert.Equal(t, filepath.Join(home, "logs", "muddy.log"), cfg.Log.Path)
}
