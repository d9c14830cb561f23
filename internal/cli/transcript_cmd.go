// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// transcript_cmd.go - Archived session viewer.
//
// Command: transcript
// Short:   Show archived sessions
//
// Examples:
//   muddy transcript                   Latest session
//   muddy transcript --list            All sessions, newest first
//   muddy transcript --session ID      One session
//   muddy transcript --limit 20        Only the last 20 messages

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/muddy-tui/internal/config"
	"github.com/jeranaias/muddy-tui/internal/transcript"
	"github.com/jeranaias/muddy-tui/internal/util"
)

const transcriptTimeFormat = "2006-01-02 15:04:05"

// HandleTranscript prints archived sessions to w.
func HandleTranscript(ctx context.Context, cfg *config.Config, args Args, w io.Writer) error {
	p := NewArgParser(args.Raw)

	limit := 0
	if p.HasFlag("limit") {
		n, err := p.FlagInt("limit")
		if err != nil || n < 0 {
			return ErrInvalidFormat("limit", p.Flag("limit"), "muddy transcript --limit 20")
		}
		limit = n
	}

	path := cfg.Transcript.Path
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &NotFoundError{Resource: "transcript archive", ID: path}
		}
		return err
	}

	store, err := transcript.Open(path)
	if err != nil {
		return NewCommandError("transcript", "open", "cannot open archive", err)
	}
	defer store.Close()

	if p.BoolFlag("list") {
		return listSessions(ctx, store, w)
	}

	var session transcript.Session
	if id := p.Flag("session"); id != "" {
		session.ID = id
	} else {
		session, err = store.Latest(ctx)
		if err != nil {
			if errors.Is(err, transcript.ErrUnknownSession) {
				return &NotFoundError{Resource: "session", ID: "latest"}
			}
			return err
		}
	}

	entries, err := store.Messages(ctx, session.ID, limit)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, headingStyle.Render("Session "+session.ID))
	for _, e := range entries {
		stamp := dimStyle.Render("[" + e.ReceivedAt.Local().Format("15:04:05") + "]")
		lines := strings.Split(strings.ReplaceAll(e.Text, "**", ""), "\n")
		fmt.Fprintf(w, "%s %s\n", stamp, lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(w, "%s %s\n", strings.Repeat(" ", util.StringWidth("[15:04:05]")), line)
		}
	}
	return nil
}

func listSessions(ctx context.Context, store *transcript.Store, w io.Writer) error {
	sessions, err := store.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No sessions recorded yet."))
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintf(w, "%s  %s  %d messages\n",
			s.ID,
			s.StartedAt.Local().Format(transcriptTimeFormat),
			s.MessageCount)
	}
	return nil
}
