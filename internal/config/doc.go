// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for muddy.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - GameConfig: World engine settings (zones, minimap radius, pacing)
//   - UIConfig: Terminal UI settings
//   - TranscriptConfig, LogConfig: Session archive and log file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (MUDDY_*)
//   - ~/.muddy/config.toml
//   - ~/.muddy/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	radius := cfg.Game.MinimapRadius
package config
