// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/muddy-tui/internal/dispatch"
	"github.com/jeranaias/muddy-tui/internal/events"
	"github.com/jeranaias/muddy-tui/internal/minimap"
	"github.com/jeranaias/muddy-tui/internal/settings"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

func (m Model) startMessage() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		if err := backend.GetStartMessage(ctx); err != nil {
			return requestErrMsg{Op: "get start message", Err: err}
		}
		return nil
	}
}

func (m Model) sendCall(call dispatch.Call) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := call(ctx); err != nil {
			return requestErrMsg{Op: "send command", Err: err}
		}
		return nil
	}
}

func (m Model) fetchMinimap(ticket minimap.Ticket) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		return minimapResultMsg{Result: minimap.Fetch(ctx, backend, ticket)}
	}
}

func (m Model) loadSettings() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		s, err := backend.GetSettings(ctx)
		return settingsLoadedMsg{Settings: s, Err: err}
	}
}

func (m Model) saveSettings(s settings.Settings) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		return settingsSavedMsg{Settings: s, Err: backend.SaveSettings(ctx, s)}
	}
}

// emitSignal publishes channel from a command goroutine. Bus handlers send
// back into the program, which would block if Update emitted directly.
func (m Model) emitSignal(channel string, fallback tea.Msg) tea.Cmd {
	emitter := m.emitter
	return func() tea.Msg {
		if emitter == nil {
			return fallback
		}
		if err := emitter.Emit(channel, nil); err != nil {
			return requestErrMsg{Op: "emit " + channel, Err: err}
		}
		return nil
	}
}

func (m Model) toggleMinimap() tea.Cmd {
	return m.emitSignal(events.ToggleMinimap, ToggleMinimapMsg{})
}

func (m Model) openSettings() tea.Cmd {
	return m.emitSignal(events.OpenSettings, OpenSettingsMsg{})
}

// requestMinimap starts a fetch when the overlay is enabled.
func (m *Model) requestMinimap() tea.Cmd {
	ticket, ok := m.tracker.Begin()
	if !ok {
		return nil
	}
	cmds := []tea.Cmd{m.fetchMinimap(ticket)}
	if !m.mapPending {
		m.mapPending = true
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}
