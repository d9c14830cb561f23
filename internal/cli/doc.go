// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the muddy command line.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	cfg, err := cli.LoadConfig(args)
//	rt, err := cli.NewRuntime(ctx, cfg, logger, cli.RuntimeOptions{Watch: true, Record: true})
//	defer rt.Close()
//	switch cmd {
//	case cli.CmdTUI:
//	    err = cli.HandleTUI(ctx, rt)
//	case cli.CmdPlay:
//	    err = cli.HandlePlay(ctx, rt)
//	}
//
// # Commands
//
//   - (none), tui: full-screen client
//   - play: line-based session, used automatically without a terminal
//   - map: print the minimap, optionally as SVG
//   - transcript: browse the SQLite session archive
//   - config: show, get, set and initialize configuration
//   - version, help
//
// Handlers return errors; GetExitCode maps them to exit codes.
package cli
