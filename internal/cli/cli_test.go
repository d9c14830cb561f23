// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/muddy-tui/internal/config"
	"github.com/jeranaias/muddy-tui/internal/dispatch"
	"github.com/jeranaias/muddy-tui/internal/transcript"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"get", "--limit", "50"},
			wantSub: "get",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("limit") != "50" {
					t.Errorf("Flag(limit) = %q, want %q", p.Flag("limit"), "50")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"--room=millhaven:1"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("room") != "millhaven:1" {
					t.Errorf("Flag(room) = %q, want %q", p.Flag("room"), "millhaven:1")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"init", "--force"},
			wantSub: "init",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("force") {
					t.Error("BoolFlag(force) should be true")
				}
			},
		},
		{
			name:    "explicit false",
			args:    []string{"--list=false"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("list") {
					t.Error("BoolFlag(list) should be false")
				}
				if !p.HasFlag("list") {
					t.Error("HasFlag(list) should be true")
				}
			},
		},
		{
			name:    "positionals",
			args:    []string{"set", "ui.theme", "light"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 3 {
					t.Errorf("PositionalCount() = %d, want 3", p.PositionalCount())
				}
				if p.Positional(1) != "ui.theme" {
					t.Errorf("Positional(1) = %q", p.Positional(1))
				}
				if p.Positional(9) != "" {
					t.Errorf("Positional(9) = %q, want empty", p.Positional(9))
				}
				if got := p.PositionalFrom(2); len(got) != 1 || got[0] != "light" {
					t.Errorf("PositionalFrom(2) = %v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_FlagInt(t *testing.T) {
	p := NewArgParser([]string{"--radius", "3", "--limit", "many"})

	n, err := p.FlagInt("radius")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = p.FlagInt("limit")
	assert.Error(t, err)
	assert.Equal(t, 7, p.FlagIntOrDefault("limit", 7))
	assert.Equal(t, 2, p.FlagIntOrDefault("missing", 2))
	assert.Equal(t, "x", p.FlagOrDefault("missing", "x"))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "yes", "on", "1", "TRUE"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "no", "off", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CmdTUI},
		{[]string{"tui"}, CmdTUI},
		{[]string{"play"}, CmdPlay},
		{[]string{"REPL"}, CmdPlay},
		{[]string{"map", "--radius", "1"}, CmdMap},
		{[]string{"transcript"}, CmdTranscript},
		{[]string{"log", "--list"}, CmdTranscript},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"--version"}, CmdVersion},
		{[]string{"-h"}, CmdHelp},
		{[]string{"dance"}, CmdUnknown},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.argv, " "), func(t *testing.T) {
			got, _ := ParseArgs(tt.argv)
			assert.Equal(t, tt.want, got, "got %s", got)
		})
	}
}

func TestParseArgs_GlobalFlagsAnywhere(t *testing.T) {
	cmd, args := ParseArgs([]string{"--config", "/tmp/c.toml", "map", "--no-minimap", "--zones=/srv/zones", "--radius", "2", "--log-level", "debug"})

	assert.Equal(t, CmdMap, cmd)
	assert.Equal(t, "/tmp/c.toml", args.ConfigPath)
	assert.Equal(t, "/srv/zones", args.ZonesDir)
	assert.Equal(t, "debug", args.LogLevel)
	assert.True(t, args.NoMinimap)
	assert.Equal(t, []string{"--radius", "2"}, args.Raw)
}

func TestParseArgs_Config(t *testing.T) {
	cmd, args := ParseArgs([]string{"config", "set", "ui.theme", "light"})
	assert.Equal(t, CmdConfig, cmd)
	assert.Equal(t, "set", args.Subcommand)
	assert.Equal(t, "ui.theme", args.ConfigKey)
	assert.Equal(t, "light", args.ConfigVal)

	_, args = ParseArgs([]string{"config"})
	assert.Empty(t, args.Subcommand)
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "transcript")

	buf.Reset()
	PrintVersion(&buf)
	assert.Contains(t, buf.String(), Version)
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", ErrMissingArgument("key", "muddy config get ui.theme"), ExitUsageError},
		{"unknown command", ErrUnknownCommand("dance"), ExitUsageError},
		{"not found", &NotFoundError{Resource: "room", ID: "x:1"}, ExitNotFoundError},
		{"wrapped not found", fmt.Errorf("map: %w", &NotFoundError{Resource: "room"}), ExitNotFoundError},
		{"unknown session", transcript.ErrUnknownSession, ExitNotFoundError},
		{"config", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}), ExitConfigError},
		{"command", NewCommandError("config", "set", "cannot save", errors.New("disk full")), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())

	DisplayError(&buf, &ValidationError{Field: "radius", Value: "-1", Reason: "invalid format", Example: "muddy map --radius 3"})
	out := buf.String()
	assert.Contains(t, out, "[ERROR]")
	assert.Contains(t, out, "invalid radius")
	assert.Contains(t, out, "(got: -1)")
	assert.Contains(t, out, "Example: muddy map --radius 3")
}

// =============================================================================
// CONFIG TESTS (config_cmd.go)
// =============================================================================

func TestApplyArgs(t *testing.T) {
	cfg := config.Default()
	ApplyArgs(cfg, Args{NoMinimap: true, LogLevel: "debug", ZonesDir: "/srv/zones"})

	assert.False(t, cfg.UI.MinimapEnabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/srv/zones", cfg.Game.ZonesDir)

	cfg = config.Default()
	ApplyArgs(cfg, Args{})
	assert.True(t, cfg.UI.MinimapEnabled)
	assert.Empty(t, cfg.Game.ZonesDir)
}

func TestLoadConfig_FromPath(t *testing.T) {
	clearMuddyEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0644))

	cfg, err := LoadConfig(Args{ConfigPath: path, NoMinimap: true})
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.False(t, cfg.UI.MinimapEnabled)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	clearMuddyEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	cfg, err := LoadConfig(Args{ConfigPath: path, ZonesDir: filepath.Join(t.TempDir(), "missing")})
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))
}

func TestHandleConfig_Get(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	require.NoError(t, HandleConfig(cfg, Args{Subcommand: "get", ConfigKey: "ui.theme"}, &buf))
	assert.Equal(t, "auto\n", buf.String())

	err := HandleConfig(cfg, Args{Subcommand: "get", ConfigKey: "ui.nope"}, &buf)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))

	err = HandleConfig(cfg, Args{Subcommand: "get"}, &buf)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleConfig(cfg, Args{Subcommand: "frobnicate"}, &buf)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleConfig_ShowAndKeys(t *testing.T) {
	cfg := config.Default()
	var buf bytes.Buffer

	require.NoError(t, HandleConfig(cfg, Args{}, &buf))
	assert.Contains(t, buf.String(), `"minimap_enabled": true`)

	buf.Reset()
	require.NoError(t, HandleConfig(cfg, Args{Subcommand: "keys"}, &buf))
	assert.Contains(t, buf.String(), "game.minimap_radius\n")
}

func TestHandleConfig_InitAndSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "muddy", "config.toml")
	args := Args{ConfigPath: path}
	var buf bytes.Buffer

	args.Subcommand = "path"
	require.NoError(t, HandleConfig(config.Default(), args, &buf))
	assert.Equal(t, path+"\n", buf.String())

	args.Subcommand = "init"
	require.NoError(t, HandleConfig(config.Default(), args, &buf))
	assert.FileExists(t, path)

	// A second init needs --force.
	err := HandleConfig(config.Default(), args, &buf)
	assert.Error(t, err)
	args.Raw = []string{"init", "--force"}
	require.NoError(t, HandleConfig(config.Default(), args, &buf))

	set := Args{ConfigPath: path, Subcommand: "set", ConfigKey: "ui.theme", ConfigVal: "light"}
	require.NoError(t, HandleConfig(config.Default(), set, &buf))

	onDisk := config.Default()
	require.NoError(t, config.LoadTOML(onDisk, path))
	assert.Equal(t, "light", onDisk.UI.Theme)

	// Values that fail validation are not written.
	bad := Args{ConfigPath: path, Subcommand: "set", ConfigKey: "game.response_delay_ms", ConfigVal: "-5"}
	assert.Error(t, HandleConfig(config.Default(), bad, &buf))
	onDisk = config.Default()
	require.NoError(t, config.LoadTOML(onDisk, path))
	assert.Equal(t, 100, onDisk.Game.ResponseDelayMs)

	missing := Args{ConfigPath: path, Subcommand: "set", ConfigKey: "ui.theme"}
	assert.Equal(t, ExitUsageError, GetExitCode(HandleConfig(config.Default(), missing, &buf)))
}

// =============================================================================
// RUNTIME, PLAY, MAP AND TRANSCRIPT TESTS
// =============================================================================

func clearMuddyEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"MUDDY_ZONES_DIR", "MUDDY_RESPONSE_DELAY_MS", "MUDDY_MINIMAP",
		"MUDDY_THEME", "MUDDY_TRANSCRIPT", "MUDDY_LOG_LEVEL",
	} {
		t.Setenv(name, "")
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Game.ResponseDelayMs = 0
	cfg.UI.SettingsPath = filepath.Join(dir, "settings.json")
	cfg.Transcript.Path = filepath.Join(dir, "transcript.db")
	cfg.Log.Path = filepath.Join(dir, "muddy.log")
	return cfg
}

func newTestRuntime(t *testing.T, cfg *config.Config, opts RuntimeOptions) *Runtime {
	t.Helper()
	rt, err := NewRuntime(context.Background(), cfg, nil, opts)
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func TestNewRuntime_BadZonesDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.Game.ZonesDir = t.TempDir()

	rt, err := NewRuntime(context.Background(), cfg, nil, RuntimeOptions{})
	assert.Nil(t, rt)
	assert.Error(t, err)
}

func TestPlay_Script(t *testing.T) {
	rt := newTestRuntime(t, testConfig(t), RuntimeOptions{})

	var out bytes.Buffer
	script := NewScriptReader(strings.NewReader("north\n\n  \nlook\nquit\nsouth\n"))
	require.NoError(t, Play(context.Background(), rt, script, NewPlainPrinter(&out)))

	text := out.String()
	assert.Contains(t, text, "=== Welcome to Muddy Rogue ===")
	assert.Contains(t, text, "Town Square")
	assert.Contains(t, text, "> north")
	assert.Contains(t, text, "North Road")
	assert.NotContains(t, text, "**")
	assert.NotContains(t, text, "> south", "commands after quit are not sent")
	assert.Equal(t, "millhaven:1", rt.Engine.Location().Key())
}

func TestPlay_EOFEndsSession(t *testing.T) {
	rt := newTestRuntime(t, testConfig(t), RuntimeOptions{})

	var out bytes.Buffer
	require.NoError(t, Play(context.Background(), rt, NewScriptReader(strings.NewReader("east")), NewPlainPrinter(&out)))
	assert.Contains(t, out.String(), "Market Street")
}

// flakySink rejects one command and forwards the rest.
type flakySink struct {
	next   dispatch.Sink
	reject string
}

func (s *flakySink) SendCommand(ctx context.Context, command string) error {
	if command == s.reject {
		return errors.New("connection lost")
	}
	return s.next.SendCommand(ctx, command)
}

func TestPlay_SendFailureKeepsSession(t *testing.T) {
	rt := newTestRuntime(t, testConfig(t), RuntimeOptions{})
	d := dispatch.New(&flakySink{next: rt.Engine, reject: "jump"}, rt.Logger)

	var out bytes.Buffer
	script := NewScriptReader(strings.NewReader("jump\nnorth\n"))
	require.NoError(t, playLoop(context.Background(), rt, d, script, NewPlainPrinter(&out)))

	text := out.String()
	assert.Contains(t, text, "[ERROR]")
	assert.Contains(t, text, "connection lost")
	assert.Contains(t, text, "North Road")
	assert.Equal(t, []string{"jump", "north"}, d.History())
	assert.Equal(t, "millhaven:1", rt.Engine.Location().Key())
}

func TestHandleMap(t *testing.T) {
	ForceColorsEnabled(false)
	rt := newTestRuntime(t, testConfig(t), RuntimeOptions{})

	var out bytes.Buffer
	require.NoError(t, HandleMap(rt, Args{}, &out))
	assert.Contains(t, out.String(), "Town Square")
	assert.Contains(t, out.String(), "(millhaven:1)")

	out.Reset()
	svg := filepath.Join(t.TempDir(), "map.svg")
	require.NoError(t, HandleMap(rt, Args{Raw: []string{"--room", "millhaven:1", "--radius", "1", "--svg", svg}}, &out))
	assert.Contains(t, out.String(), "North Road")
	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "<svg"), "svg output: %.40s", data)
}

func TestHandleMap_BadFlags(t *testing.T) {
	rt := newTestRuntime(t, testConfig(t), RuntimeOptions{})
	var out bytes.Buffer

	err := HandleMap(rt, Args{Raw: []string{"--room", "nowhere"}}, &out)
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleMap(rt, Args{Raw: []string{"--room", "millhaven:999"}}, &out)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))

	err = HandleMap(rt, Args{Raw: []string{"--radius", "far"}}, &out)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleTranscript_MissingArchive(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := HandleTranscript(context.Background(), cfg, Args{}, &out)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "transcript archive", nf.Resource)

	err = HandleTranscript(context.Background(), cfg, Args{Raw: []string{"--limit", "-3"}}, &out)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleTranscript_RecordedSession(t *testing.T) {
	cfg := testConfig(t)
	rt, err := NewRuntime(context.Background(), cfg, nil, RuntimeOptions{Record: true})
	require.NoError(t, err)
	session, ok := rt.Session()
	require.True(t, ok)

	var played bytes.Buffer
	require.NoError(t, Play(context.Background(), rt, NewScriptReader(strings.NewReader("north\n")), NewPlainPrinter(&played)))
	rt.Close()

	ctx := context.Background()
	var out bytes.Buffer
	require.NoError(t, HandleTranscript(ctx, cfg, Args{}, &out))
	assert.Contains(t, out.String(), "Session "+session.ID)
	assert.Contains(t, out.String(), "> north")
	assert.Contains(t, out.String(), "North Road")

	out.Reset()
	require.NoError(t, HandleTranscript(ctx, cfg, Args{Raw: []string{"--list"}}, &out))
	assert.Contains(t, out.String(), session.ID)
	assert.Contains(t, out.String(), "messages")

	out.Reset()
	require.NoError(t, HandleTranscript(ctx, cfg, Args{Raw: []string{"--session", session.ID, "--limit", "1"}}, &out))
	stamped := 0
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "[") {
			stamped++
		}
	}
	assert.Equal(t, 1, stamped, "one message: %q", out.String())
}
