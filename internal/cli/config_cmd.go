// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration loading and the "config" command.
//
// Command: config
// Short:   Show or change configuration
//
// Examples:
//   muddy config show                  Effective configuration as JSON
//   muddy config path                  Config file location
//   muddy config init                  Write the defaults to the config file
//   muddy config get ui.theme          One value
//   muddy config set ui.theme light    Change and save one value
//   muddy config keys                  All keys

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/muddy-tui/internal/config"
)

// LoadConfig loads the configuration named by --config, or the default
// file, and applies the global flags on top. A broken default file yields
// the defaults together with the load error.
func LoadConfig(args Args) (*config.Config, error) {
	var (
		cfg     *config.Config
		loadErr error
	)
	if args.ConfigPath != "" {
		c, err := config.LoadFromPath(args.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg, loadErr = config.Load()
	}

	ApplyArgs(cfg, args)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// ApplyArgs overrides cfg with the global flags.
func ApplyArgs(cfg *config.Config, args Args) {
	if args.ZonesDir != "" {
		cfg.Game.ZonesDir = args.ZonesDir
	}
	if args.NoMinimap {
		cfg.UI.MinimapEnabled = false
	}
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
}

// configPath is the file "config set" and "config init" write.
func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// HandleConfig runs a config subcommand against cfg.
func HandleConfig(cfg *config.Config, args Args, w io.Writer) error {
	switch args.Subcommand {
	case "", "show":
		fmt.Fprintln(w, cfg.String())
		return nil

	case "path":
		path, err := configPath(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, path)
		return nil

	case "keys":
		for _, key := range config.GetAllKeys() {
			fmt.Fprintln(w, key)
		}
		return nil

	case "get":
		if args.ConfigKey == "" {
			return ErrMissingArgument("key", "muddy config get ui.theme")
		}
		value, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return &NotFoundError{Resource: "config key", ID: args.ConfigKey}
		}
		fmt.Fprintf(w, "%v\n", value)
		return nil

	case "set":
		return configSet(args, w)

	case "init":
		return configInit(args, w)

	default:
		return ErrInvalidFormat("subcommand", args.Subcommand, "show, path, keys, get, set, init")
	}
}

// configSet edits the file on disk, not the effective configuration, so
// environment overrides and flags are not persisted.
func configSet(args Args, w io.Writer) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "muddy config set ui.theme light")
	}

	path, err := configPath(args)
	if err != nil {
		return err
	}

	onDisk := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := config.LoadTOML(onDisk, path); err != nil {
			return NewCommandError("config", "set", "cannot read "+path, err)
		}
	}

	if err := onDisk.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewCommandError("config", "set", "cannot set "+args.ConfigKey, err)
	}
	onDisk.SetDefaults()
	if err := onDisk.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(onDisk, path); err != nil {
		return NewCommandError("config", "set", "cannot save", err)
	}

	fmt.Fprintf(w, "%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	return nil
}

func configInit(args Args, w io.Writer) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}

	force := NewArgParser(args.Raw).BoolFlag("force")
	if _, statErr := os.Stat(path); statErr == nil && !force {
		return NewCommandError("config", "init", path+" already exists (use --force to overwrite)", nil)
	} else if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return statErr
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return NewCommandError("config", "init", "cannot write "+path, err)
	}
	fmt.Fprintf(w, "%s Wrote %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}
