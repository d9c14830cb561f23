// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/muddy-tui/internal/minimap"
	"github.com/jeranaias/muddy-tui/internal/util"
)

// Version of the config file format.
const Version = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete muddy configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Game       GameConfig       `toml:"game" json:"game"`
	UI         UIConfig         `toml:"ui" json:"ui"`
	Transcript TranscriptConfig `toml:"transcript" json:"transcript"`
	Log        LogConfig        `toml:"log" json:"log"`
}

// GameConfig configures the world engine.
type GameConfig struct {
	// ZonesDir overrides the built-in world. It must contain zones.json.
	ZonesDir string `toml:"zones_dir" json:"zones_dir"`

	// MinimapRadius is the Chebyshev distance mapped around the player.
	MinimapRadius int `toml:"minimap_radius" json:"minimap_radius"`

	// ResponseDelayMs is the pause between a command's echo and its reply.
	ResponseDelayMs int `toml:"response_delay_ms" json:"response_delay_ms"`

	// CommandsPerSecond limits command throughput; 0 disables the limit.
	CommandsPerSecond float64 `toml:"commands_per_second" json:"commands_per_second"`
	CommandBurst      int     `toml:"command_burst" json:"command_burst"`

	// WatchZones reloads ZonesDir when its files change.
	WatchZones bool `toml:"watch_zones" json:"watch_zones"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	MinimapEnabled bool `toml:"minimap_enabled" json:"minimap_enabled"`

	// Markdown renders message text with glamour.
	Markdown bool `toml:"markdown" json:"markdown"`

	// MaxMessages bounds the message log; 0 keeps everything.
	MaxMessages int `toml:"max_messages" json:"max_messages"`

	// CellSize is the pixel size of a minimap cell in SVG output.
	CellSize int `toml:"cell_size" json:"cell_size"`

	// SelfLoops is "draw" or "skip".
	SelfLoops string `toml:"self_loops" json:"self_loops"`

	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme"`

	// SettingsPath is where word-wrap settings are stored.
	SettingsPath string `toml:"settings_path" json:"settings_path"`
}

// TranscriptConfig configures the SQLite session archive.
type TranscriptConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Path    string `toml:"path" json:"path"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	Path  string `toml:"path" json:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: Version,
		Game: GameConfig{
			MinimapRadius:     2,
			ResponseDelayMs:   100,
			CommandsPerSecond: 0,
			CommandBurst:      5,
			WatchZones:        true,
		},
		UI: UIConfig{
			MinimapEnabled: true,
			Markdown:       true,
			MaxMessages:    5000,
			CellSize:       minimap.DefaultCellSize,
			SelfLoops:      minimap.SelfLoopDraw.String(),
			Theme:          "auto",
			SettingsPath:   defaultPath("settings.json"),
		},
		Transcript: TranscriptConfig{
			Enabled: true,
			Path:    defaultPath("transcript.db"),
		},
		Log: LogConfig{
			Level: "info",
			Path:  defaultPath("muddy.log"),
		},
	}
}

// ResponseDelay returns Game.ResponseDelayMs as a duration.
func (c *Config) ResponseDelay() time.Duration {
	return time.Duration(c.Game.ResponseDelayMs) * time.Millisecond
}

// SelfLoopPolicy returns the parsed UI.SelfLoops value.
func (c *Config) SelfLoopPolicy() minimap.SelfLoopPolicy {
	p, _ := minimap.ParseSelfLoopPolicy(c.UI.SelfLoops)
	return p
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the muddy configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".muddy"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

func defaultPath(name string) string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, name)
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	var loadErr error

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			cfg, err := LoadFromPath(tomlPath)
			if err == nil {
				return cfg, nil
			}
			loadErr = err
		}
	}

	if loadErr == nil {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				cfg, err := LoadFromPath(jsonPath)
				if err == nil {
					return cfg, nil
				}
				loadErr = err
			}
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Keys missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills empty string fields and expands "~" in paths.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.UI.SelfLoops == "" {
		c.UI.SelfLoops = defaults.UI.SelfLoops
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.CellSize == 0 {
		c.UI.CellSize = defaults.UI.CellSize
	}
	if c.UI.SettingsPath == "" {
		c.UI.SettingsPath = defaults.UI.SettingsPath
	}
	if c.Transcript.Path == "" {
		c.Transcript.Path = defaults.Transcript.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.Path == "" {
		c.Log.Path = defaults.Log.Path
	}

	c.Game.ZonesDir = expandHome(c.Game.ZonesDir)
	c.UI.SettingsPath = expandHome(c.UI.SettingsPath)
	c.Transcript.Path = expandHome(c.Transcript.Path)
	c.Log.Path = expandHome(c.Log.Path)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# muddy configuration file\n")
	sb.WriteString("# Generated by muddy - edit with care\n")
	sb.WriteString("\n")

	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Game
	// ==========================================================================

	if c.Game.ZonesDir != "" {
		info, err := os.Stat(c.Game.ZonesDir)
		if err != nil || !info.IsDir() {
			errs = append(errs, ValidationError{
				Field:   "game.zones_dir",
				Message: fmt.Sprintf("'%s' is not a directory", c.Game.ZonesDir),
			})
		}
	}
	if c.Game.MinimapRadius < 1 || c.Game.MinimapRadius > 10 {
		errs = append(errs, ValidationError{
			Field:   "game.minimap_radius",
			Message: fmt.Sprintf("must be between 1 and 10, got %d", c.Game.MinimapRadius),
		})
	}
	if c.Game.ResponseDelayMs < 0 || c.Game.ResponseDelayMs > 10000 {
		errs = append(errs, ValidationError{
			Field:   "game.response_delay_ms",
			Message: fmt.Sprintf("must be between 0 and 10000, got %d", c.Game.ResponseDelayMs),
		})
	}
	if c.Game.CommandsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "game.commands_per_second",
			Message: "must not be negative",
		})
	}
	if c.Game.CommandBurst < 0 {
		errs = append(errs, ValidationError{
			Field:   "game.command_burst",
			Message: "must not be negative",
		})
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	if c.UI.MaxMessages < 0 {
		errs = append(errs, ValidationError{
			Field:   "ui.max_messages",
			Message: "must not be negative (0 keeps every message)",
		})
	}
	if c.UI.CellSize < 8 || c.UI.CellSize > 200 {
		errs = append(errs, ValidationError{
			Field:   "ui.cell_size",
			Message: fmt.Sprintf("must be between 8 and 200, got %d", c.UI.CellSize),
		})
	}
	if _, err := minimap.ParseSelfLoopPolicy(c.UI.SelfLoops); err != nil {
		errs = append(errs, ValidationError{
			Field:   "ui.self_loops",
			Message: fmt.Sprintf("invalid value '%s', must be one of: draw, skip", c.UI.SelfLoops),
		})
	}
	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	// ==========================================================================
	// Transcript / Log
	// ==========================================================================

	if c.Transcript.Enabled && c.Transcript.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "transcript.path",
			Message: "required when the transcript is enabled",
		})
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//   - MUDDY_ZONES_DIR: overrides game.zones_dir
//   - MUDDY_RESPONSE_DELAY_MS: overrides game.response_delay_ms
//   - MUDDY_MINIMAP: overrides ui.minimap_enabled
//   - MUDDY_THEME: overrides ui.theme
//   - MUDDY_TRANSCRIPT: overrides transcript.enabled
//   - MUDDY_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if dir := os.Getenv("MUDDY_ZONES_DIR"); dir != "" {
		c.Game.ZonesDir = dir
	}
	if delay := os.Getenv("MUDDY_RESPONSE_DELAY_MS"); delay != "" {
		if ms, err := strconv.Atoi(delay); err == nil {
			c.Game.ResponseDelayMs = ms
		}
	}
	if v := os.Getenv("MUDDY_MINIMAP"); v != "" {
		c.UI.MinimapEnabled = parseBool(v)
	}
	if theme := os.Getenv("MUDDY_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if v := os.Getenv("MUDDY_TRANSCRIPT"); v != "" {
		c.Transcript.Enabled = parseBool(v)
	}
	if level := os.Getenv("MUDDY_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"game.zones_dir",
		"game.minimap_radius",
		"game.response_delay_ms",
		"game.commands_per_second",
		"game.command_burst",
		"game.watch_zones",
		"ui.minimap_enabled",
		"ui.markdown",
		"ui.max_messages",
		"ui.cell_size",
		"ui.self_loops",
		"ui.theme",
		"ui.settings_path",
		"transcript.enabled",
		"transcript.path",
		"log.level",
		"log.path",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the config as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
