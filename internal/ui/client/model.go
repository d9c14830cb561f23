// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/muddy-tui/internal/dispatch"
	"github.com/jeranaias/muddy-tui/internal/minimap"
	"github.com/jeranaias/muddy-tui/internal/settings"
	"github.com/jeranaias/muddy-tui/internal/stream"
	"github.com/jeranaias/muddy-tui/internal/ui/styles"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// Rows outside the viewport: header, input with its top border, status bar.
	headerHeight    = 1
	inputAreaHeight = 2
	statusBarHeight = 1

	inputPlaceholder = "Enter a command (type 'help' for options)"
)

// Options configure a Model.
type Options struct {
	Backend Backend

	// Emitter receives toggle-minimap and open-settings. When nil the
	// signals are delivered straight to the model.
	Emitter Emitter

	Theme  *styles.Theme
	Logger *slog.Logger

	MinimapEnabled bool
	SelfLoops      minimap.SelfLoopPolicy

	// Markdown renders messages with glamour. MarkdownStyle is "auto",
	// "dark" or "light".
	Markdown      bool
	MarkdownStyle string

	// MaxMessages bounds the rendered log; 0 keeps everything.
	MaxMessages int

	// Context bounds every backend request. Defaults to Background.
	Context context.Context
}

// =============================================================================
// MODEL
// =============================================================================

type entry struct {
	msg      stream.Message
	rendered string
}

type dialogFocus int

const (
	focusLength dialogFocus = iota
	focusWrap
)

type settingsDialog struct {
	open    bool
	loading bool
	saving  bool
	focus   dialogFocus
	form    *settings.Form
	length  textinput.Model
	err     error
}

// Model is the Bubble Tea model of the game client.
type Model struct {
	ctx     context.Context
	backend Backend
	emitter Emitter
	logger  *slog.Logger
	theme   *styles.Theme

	keys       KeyMap
	dialogKeys DialogKeyMap

	width  int
	height int

	// Message log
	viewport      viewport.Model
	entries       []entry
	maxMessages   int
	markdown      bool
	markdownStyle string
	renderer      *glamour.TermRenderer

	// Command line
	input      textinput.Model
	dispatcher *dispatch.Dispatcher
	historyIdx int // -1 while editing a fresh line
	draft      string

	// Minimap
	tracker    *minimap.Tracker
	selfLoops  minimap.SelfLoopPolicy
	spinner    spinner.Model
	mapPending bool
	initTicket minimap.Ticket
	mapLoaded  bool
	mapRender  minimap.Render
	mapErr     error

	dialog settingsDialog

	status string
	err    error
}

// New creates a Model. Backend must not be nil.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme("auto")
	}

	input := textinput.New()
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.TextStyle = theme.InputText
	input.PlaceholderStyle = theme.InputPlaceholder
	input.Placeholder = inputPlaceholder
	input.Focus()

	length := textinput.New()
	length.Prompt = ""
	length.CharLimit = 6
	length.Width = 6

	sp := spinner.New()
	sp.Spinner = styles.DotsSpinner.Bubbles()
	sp.Style = theme.MinimapTitle

	m := Model{
		ctx:           ctx,
		backend:       opts.Backend,
		emitter:       opts.Emitter,
		logger:        logger,
		theme:         theme,
		keys:          DefaultKeyMap(),
		dialogKeys:    DefaultDialogKeyMap(),
		width:         defaultWidth,
		height:        defaultHeight,
		viewport:      viewport.New(defaultWidth, defaultHeight-headerHeight-inputAreaHeight-statusBarHeight),
		maxMessages:   opts.MaxMessages,
		markdown:      opts.Markdown,
		markdownStyle: opts.MarkdownStyle,
		input:         input,
		dispatcher:    dispatch.New(opts.Backend, logger),
		historyIdx:    -1,
		tracker:       minimap.NewTracker(opts.MinimapEnabled),
		selfLoops:     opts.SelfLoops,
		spinner:       sp,
		dialog: settingsDialog{
			form:   settings.NewForm(settings.Default()),
			length: length,
		},
	}
	m.viewport.KeyMap = viewport.KeyMap{}
	if ticket, ok := m.tracker.Begin(); ok {
		m.initTicket = ticket
		m.mapPending = true
	}
	m.rebuildRenderer()
	return m
}

// Init fetches the start message and, when visible, the first minimap.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.startMessage()}
	if m.mapPending {
		cmds = append(cmds, m.fetchMinimap(m.initTicket), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// MinimapVisible reports whether the overlay is enabled.
func (m Model) MinimapVisible() bool { return m.tracker.Enabled() }

// DialogOpen reports whether the settings dialog is shown.
func (m Model) DialogOpen() bool { return m.dialog.open }

// Messages returns the displayed log, oldest first.
func (m Model) Messages() []stream.Message {
	out := make([]stream.Message, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.msg
	}
	return out
}

// Input returns the current command line text.
func (m Model) Input() string { return m.input.Value() }

// rebuildRenderer recreates the glamour renderer for the current width.
func (m *Model) rebuildRenderer() {
	if !m.markdown {
		m.renderer = nil
		return
	}
	wrap := m.viewport.Width - 2
	if wrap < 20 {
		wrap = 20
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	switch m.markdownStyle {
	case "dark", "light":
		opts = append(opts, glamour.WithStandardStyle(m.markdownStyle))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		m.logger.Warn("Markdown renderer unavailable", "error", err)
		m.renderer = nil
		return
	}
	m.renderer = r
}
