// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command selection and global flags for muddy.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdPlay
	CmdMap
	CmdTranscript
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdPlay:
		return "play"
	case CmdMap:
		return "map"
	case CmdTranscript:
		return "transcript"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	ZonesDir   string
	NoMinimap  bool
	LogLevel   string

	// Command-specific
	Name       string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw holds the arguments after the command name.
	Raw []string
}

const usageText = `muddy - a small text adventure for the terminal

Usage:
  muddy                           Start the terminal UI (default)
  muddy play                      Play in a plain line-based prompt
  muddy map [--svg FILE]          Print the map around the start room
  muddy transcript [flags]        Show archived sessions
  muddy config [subcommand]       Configuration
  muddy version                   Show version information
  muddy help                      Show this help

Transcript flags:
  --list                          List sessions, newest first
  --session ID                    Show one session (default: latest)
  --limit N                       Show only the last N messages

Config subcommands:
  muddy config show               Print the effective configuration
  muddy config path               Print the config file path
  muddy config init [--force]     Write a default config file
  muddy config get KEY            Print one value (e.g. ui.theme)
  muddy config set KEY VALUE      Change one value and save

Global flags:
  --config PATH                   Load configuration from PATH
  --zones DIR                     Load zones from DIR instead of the built-in world
  --no-minimap                    Start with the minimap hidden
  --log-level LEVEL               debug, info, warn or error

In the game, type 'help' for the list of commands.
Keys: ctrl+t toggles the map, ctrl+s opens settings, ctrl+c quits.

Version: %s
`

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "muddy version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv, which excludes the program name.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	name := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Name = name
	parsed.Raw = remaining

	switch name {
	case "tui":
		return CmdTUI, parsed

	case "play", "repl":
		return CmdPlay, parsed

	case "map":
		return CmdMap, parsed

	case "transcript", "transcripts", "log":
		return CmdTranscript, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		return CmdUnknown, parsed
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	// valueFlag reads "--name value" or "--name=value".
	valueFlag := func(i *int, arg, name string) (string, bool) {
		if arg == name {
			if *i+1 < len(args) {
				*i++
				return args[*i], true
			}
			return "", true
		}
		if v, ok := strings.CutPrefix(arg, name+"="); ok {
			return v, true
		}
		return "", false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--no-minimap" {
			parsed.NoMinimap = true
			continue
		}
		if v, ok := valueFlag(&i, arg, "--config"); ok {
			parsed.ConfigPath = v
			continue
		}
		if v, ok := valueFlag(&i, arg, "--zones"); ok {
			parsed.ZonesDir = v
			continue
		}
		if v, ok := valueFlag(&i, arg, "--log-level"); ok {
			parsed.LogLevel = v
			continue
		}
		remaining = append(remaining, arg)
	}

	return remaining, parsed
}

// parseConfigArgs parses "config [subcommand] [key] [value]".
func parseConfigArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.Subcommand = p.Subcommand()
	args.ConfigKey = p.Positional(1)
	args.ConfigVal = strings.Join(p.PositionalFrom(2), " ")
}
