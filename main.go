// muddy - a small text adventure for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/muddy-tui/internal/cli"
	"github.com/jeranaias/muddy-tui/internal/config"
	"github.com/jeranaias/muddy-tui/internal/logging"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run())
}

// run returns the exit code so deferred teardown happens before exit.
func run() int {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdUnknown:
		return fail(cli.ErrUnknownCommand(args.Name))
	}

	cfg, err := cli.LoadConfig(args)
	if cfg == nil {
		return fail(err)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	config.SetGlobal(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case cli.CmdConfig:
		return fail(cli.HandleConfig(cfg, args, os.Stdout))
	case cli.CmdTranscript:
		return fail(cli.HandleTranscript(ctx, cfg, args, os.Stdout))
	}

	logger, logFile, err := logging.OpenFile(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		logger = logging.Discard()
	} else {
		defer logFile.Close()
	}

	// Without a terminal the full-screen client cannot run.
	if cmd == cli.CmdTUI && !cli.Interactive() {
		cmd = cli.CmdPlay
	}

	opts := cli.RuntimeOptions{}
	if cmd == cli.CmdTUI || cmd == cli.CmdPlay {
		opts.Watch = true
		opts.Record = true
	}

	rt, err := cli.NewRuntime(ctx, cfg, logger, opts)
	if err != nil {
		logger.Error("Startup failed", "error", err)
		return fail(err)
	}
	defer rt.Close()

	switch cmd {
	case cli.CmdTUI:
		err = cli.HandleTUI(ctx, rt)
	case cli.CmdPlay:
		err = cli.HandlePlay(ctx, rt)
	case cli.CmdMap:
		err = cli.HandleMap(rt, args, os.Stdout)
	}
	if err != nil {
		logger.Error("Command failed", "command", cmd.String(), "error", err)
	}
	return fail(err)
}

// fail prints err and returns its exit code. A nil err is success.
func fail(err error) int {
	if err == nil {
		return cli.ExitSuccess
	}
	cli.DisplayError(os.Stderr, err)
	return cli.GetExitCode(err)
}
