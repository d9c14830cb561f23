// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// play.go - Line-based game session for pipes and plain terminals.
//
// Command: play
// Short:   Play without the full-screen UI
//
// Examples:
//   muddy play                        Interactive prompt with history
//   echo "n\ns\nquit" | muddy play    Scripted session
//
// Stream messages are printed as they arrive. Each command waits for its
// reply before the next prompt.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/jeranaias/muddy-tui/internal/config"
	"github.com/jeranaias/muddy-tui/internal/dispatch"
	"github.com/jeranaias/muddy-tui/internal/stream"
)

const playPrompt = "> "

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads one command per call. io.EOF ends the session.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// lineEditor reads from a terminal with history and line editing.
type lineEditor struct {
	line        *liner.State
	historyFile string
}

func newLineEditor() *lineEditor {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	e := &lineEditor{line: line, historyFile: filepath.Join(dir, "play_history")}
	if f, err := os.Open(e.historyFile); err == nil {
		e.line.ReadHistory(f)
		f.Close()
	}
	return e
}

func (e *lineEditor) ReadLine(prompt string) (string, error) {
	input, err := e.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		e.line.AppendHistory(input)
	}
	return input, nil
}

func (e *lineEditor) Close() error {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(e.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			e.line.WriteHistory(f)
			f.Close()
		}
	}
	return e.line.Close()
}

// scriptReader reads commands from a pipe without prompting.
type scriptReader struct {
	scanner *bufio.Scanner
}

// NewScriptReader reads one command per line from r.
func NewScriptReader(r io.Reader) LineReader {
	return &scriptReader{scanner: bufio.NewScanner(r)}
}

func (s *scriptReader) ReadLine(string) (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (s *scriptReader) Close() error { return nil }

// =============================================================================
// PLAY LOOP
// =============================================================================

// HandlePlay runs the line-based session on stdin and stdout.
func HandlePlay(ctx context.Context, rt *Runtime) error {
	var in LineReader
	interactive := IsTTY()
	if interactive {
		in = newLineEditor()
	} else {
		in = NewScriptReader(os.Stdin)
	}
	defer in.Close()

	printer := newMessagePrinter(os.Stdout, ColorsEnabled(), GetTerminalWidth())
	// The editor already shows what was typed.
	printer.skipEcho = interactive
	return Play(ctx, rt, in, printer)
}

// Play reads commands from in until EOF, "quit" or "exit".
func Play(ctx context.Context, rt *Runtime, in LineReader, out *MessagePrinter) error {
	return playLoop(ctx, rt, dispatch.New(rt.Engine, rt.Logger), in, out)
}

// playLoop runs the session, sending commands through d. A failed send is
// reported and the session continues.
func playLoop(ctx context.Context, rt *Runtime, d *dispatch.Dispatcher, in LineReader, out *MessagePrinter) error {
	rt.Log.OnAppend(out.Print)
	defer rt.Log.OnAppend(nil)

	if err := rt.Engine.GetStartMessage(ctx); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := in.ReadLine(promptStyle.Render(playPrompt))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		command := strings.TrimSpace(line)
		if strings.EqualFold(command, "quit") || strings.EqualFold(command, "exit") {
			return nil
		}

		sent, err := d.Send(ctx, &dispatch.Line{Text: line})
		if err != nil {
			out.PrintError(err)
		}
		if sent {
			rt.Engine.Flush()
		}
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

// MessagePrinter writes stream messages to a plain terminal.
type MessagePrinter struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *glamour.TermRenderer
	skipEcho bool
}

func newMessagePrinter(w io.Writer, markdown bool, width int) *MessagePrinter {
	p := &MessagePrinter{w: w}
	if markdown {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width)); err == nil {
			p.renderer = r
		}
	}
	return p
}

// NewPlainPrinter writes messages without markup.
func NewPlainPrinter(w io.Writer) *MessagePrinter {
	return newMessagePrinter(w, false, 0)
}

// Print writes one message.
func (p *MessagePrinter) Print(msg stream.Message) {
	text := msg.Text
	if p.skipEcho && strings.HasPrefix(text, playPrompt) {
		return
	}

	out := strings.ReplaceAll(text, "**", "")
	if p.renderer != nil && !strings.HasPrefix(text, playPrompt) {
		if rendered, err := p.renderer.Render(strings.ReplaceAll(text, "\n", "  \n")); err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, out)
}

// PrintError writes err on its own line.
func (p *MessagePrinter) PrintError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
}
