// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch turns the contents of the command input into a single
// backend call. The input is cleared as soon as a command is accepted and is
// not restored if the call later fails.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Sink receives commands.
type Sink interface {
	SendCommand(ctx context.Context, command string) error
}

// Input is the editable command line.
type Input interface {
	Value() string
	Reset()
}

// Call performs the deferred send.
type Call func(ctx context.Context) error

// DefaultHistorySize bounds the recorded history.
const DefaultHistorySize = 100

// Dispatcher validates and forwards commands.
type Dispatcher struct {
	sink   Sink
	logger *slog.Logger

	mu      sync.Mutex
	history []string
	limit   int
}

// New creates a dispatcher. A nil logger discards output.
func New(sink Sink, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{sink: sink, logger: logger, limit: DefaultHistorySize}
}

// Dispatch inspects in. Blank input returns false and leaves in alone.
// Otherwise in is reset right away and the returned Call sends the text
// exactly as typed.
func (d *Dispatcher) Dispatch(in Input) (Call, bool) {
	command := in.Value()
	if strings.TrimSpace(command) == "" {
		return nil, false
	}

	in.Reset()
	d.record(command)

	return func(ctx context.Context) error {
		if err := d.sink.SendCommand(ctx, command); err != nil {
			d.logger.Error("failed to send command", "command", command, "error", err)
			return fmt.Errorf("send command: %w", err)
		}
		return nil
	}, true
}

// Send is Dispatch followed immediately by the call, for callers without an
// update loop.
func (d *Dispatcher) Send(ctx context.Context, in Input) (bool, error) {
	call, ok := d.Dispatch(in)
	if !ok {
		return false, nil
	}
	return true, call(ctx)
}

// History returns previously dispatched commands, oldest first.
func (d *Dispatcher) History() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, len(d.history))
	copy(out, d.history)
	return out
}

func (d *Dispatcher) record(command string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n := len(d.history); n > 0 && d.history[n-1] == command {
		return
	}
	d.history = append(d.history, command)
	if len(d.history) > d.limit {
		d.history = d.history[len(d.history)-d.limit:]
	}
}

// Line is an Input over a plain string, for REPL use.
type Line struct {
	Text string
}

// Value returns the text.
func (l *Line) Value() string { return l.Text }

// Reset clears the text.
func (l *Line) Reset() { l.Text = "" }
