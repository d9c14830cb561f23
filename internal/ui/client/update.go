// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/muddy-tui/internal/minimap"
	"github.com/jeranaias/muddy-tui/internal/stream"
)

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.dialog.open {
			return m.handleDialogKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case StreamMsg:
		m.appendMessage(msg.Message)
		return m, nil

	case MinimapUpdateMsg:
		cmd := m.requestMinimap()
		return m, cmd

	case ToggleMinimapMsg:
		return m.handleToggle()

	case minimapResultMsg:
		return m.handleMinimapResult(msg)

	case spinner.TickMsg:
		if !m.mapPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case OpenSettingsMsg:
		return m.handleOpenSettings()

	case settingsLoadedMsg:
		return m.handleSettingsLoaded(msg)

	case settingsSavedMsg:
		return m.handleSettingsSaved(msg)

	case requestErrMsg:
		m.logger.Error("Request failed", "op", msg.Op, "error", msg.Err)
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	vpHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := m.width
	if vpWidth < 1 {
		vpWidth = 1
	}
	widthChanged := vpWidth != m.viewport.Width
	m.viewport.Width = vpWidth
	m.viewport.Height = vpHeight

	inputWidth := m.width - 4 - len(m.input.Prompt)
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	if widthChanged {
		m.rebuildRenderer()
		for i := range m.entries {
			m.entries[i].rendered = m.renderText(m.entries[i].msg.Text)
		}
	}
	m.refreshViewport(m.viewport.AtBottom())
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleMinimap):
		return m, m.toggleMinimap()

	case key.Matches(msg, m.keys.OpenSettings):
		return m, m.openSettings()

	case key.Matches(msg, m.keys.Submit):
		m.historyIdx = -1
		m.draft = ""
		m.err = nil
		call, ok := m.dispatcher.Dispatch(&m.input)
		if !ok {
			return m, nil
		}
		return m, m.sendCall(call)

	case key.Matches(msg, m.keys.HistoryPrev):
		m.historyPrev()
		return m, nil

	case key.Matches(msg, m.keys.HistoryNext):
		m.historyNext()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleToggle() (tea.Model, tea.Cmd) {
	if m.tracker.Toggle() {
		m.status = "Minimap shown"
		cmd := m.requestMinimap()
		return m, cmd
	}
	m.status = "Minimap hidden"
	m.mapPending = false
	m.mapLoaded = false
	m.mapRender = minimap.Render{}
	m.mapErr = nil
	return m, nil
}

func (m Model) handleMinimapResult(msg minimapResultMsg) (tea.Model, tea.Cmd) {
	if !m.tracker.Accept(msg.Ticket) {
		return m, nil
	}
	m.mapPending = false
	if msg.Err != nil {
		m.logger.Warn("Minimap fetch failed", "error", msg.Err)
		m.mapErr = msg.Err
		return m, nil
	}
	m.mapErr = nil
	m.mapLoaded = true
	m.mapRender = minimap.Layout(msg.Nodes, minimap.Options{SelfLoops: m.selfLoops})
	return m, nil
}

// =============================================================================
// SETTINGS DIALOG
// =============================================================================

func (m Model) handleOpenSettings() (tea.Model, tea.Cmd) {
	if m.dialog.open {
		return m, nil
	}
	m.dialog.open = true
	m.dialog.loading = true
	m.dialog.saving = false
	m.dialog.err = nil
	m.dialog.focus = focusLength
	m.dialog.length.SetValue(m.dialog.form.LengthText())
	m.input.Blur()
	focus := m.dialog.length.Focus()
	return m, tea.Batch(focus, m.loadSettings())
}

func (m Model) handleSettingsLoaded(msg settingsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.dialog.open || !m.dialog.loading {
		return m, nil
	}
	m.dialog.loading = false
	if msg.Err != nil {
		m.logger.Warn("Settings load failed", "error", msg.Err)
		// The form keeps the last settings that loaded.
		m.dialog.err = msg.Err
	} else {
		m.dialog.form.Load(msg.Settings)
	}
	m.dialog.length.SetValue(m.dialog.form.LengthText())
	m.dialog.length.CursorEnd()
	return m, nil
}

func (m Model) handleSettingsSaved(msg settingsSavedMsg) (tea.Model, tea.Cmd) {
	if !m.dialog.open || !m.dialog.saving {
		return m, nil
	}
	m.dialog.saving = false
	if msg.Err != nil {
		m.logger.Error("Settings save failed", "error", msg.Err)
		m.dialog.err = msg.Err
		return m, nil
	}
	m.dialog.form.Load(msg.Settings)
	m.status = "Settings saved"
	cmd := m.closeDialog()
	return m, cmd
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.dialog
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.dialogKeys.Cancel):
		d.form.Cancel()
		cmd := m.closeDialog()
		return m, cmd
	}

	if d.loading || d.saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.dialogKeys.NextField):
		if d.focus == focusLength {
			m.blurLength()
			d.focus = focusWrap
			return m, nil
		}
		d.focus = focusLength
		cmd := d.length.Focus()
		return m, cmd

	case key.Matches(msg, m.dialogKeys.ToggleWrap):
		d.form.ToggleWrap()
		return m, nil

	case key.Matches(msg, m.dialogKeys.Save):
		d.form.SetLengthText(d.length.Value())
		s := d.form.Commit()
		d.length.SetValue(d.form.LengthText())
		d.saving = true
		d.err = nil
		return m, m.saveSettings(s)
	}

	if d.focus != focusLength {
		return m, nil
	}
	var cmd tea.Cmd
	d.length, cmd = d.length.Update(msg)
	return m, cmd
}

// blurLength normalizes the length field as it loses focus.
func (m *Model) blurLength() {
	d := &m.dialog
	d.form.SetLengthText(d.length.Value())
	d.form.Blur()
	d.length.SetValue(d.form.LengthText())
	d.length.Blur()
}

func (m *Model) closeDialog() tea.Cmd {
	m.dialog.open = false
	m.dialog.loading = false
	m.dialog.saving = false
	m.dialog.err = nil
	m.dialog.length.Blur()
	return m.input.Focus()
}

// =============================================================================
// HISTORY
// =============================================================================

func (m *Model) historyPrev() {
	history := m.dispatcher.History()
	if len(history) == 0 {
		return
	}
	if m.historyIdx < 0 || m.historyIdx > len(history) {
		m.draft = m.input.Value()
		m.historyIdx = len(history)
	}
	if m.historyIdx == 0 {
		return
	}
	m.historyIdx--
	m.input.SetValue(history[m.historyIdx])
	m.input.CursorEnd()
}

func (m *Model) historyNext() {
	if m.historyIdx < 0 {
		return
	}
	history := m.dispatcher.History()
	m.historyIdx++
	if m.historyIdx >= len(history) {
		m.historyIdx = -1
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(history[m.historyIdx])
	}
	m.input.CursorEnd()
}

// =============================================================================
// MESSAGE LOG
// =============================================================================

// appendMessage inserts msg in timestamp order and trims the log.
func (m *Model) appendMessage(msg stream.Message) {
	follow := len(m.entries) == 0 || m.viewport.AtBottom()

	e := entry{msg: msg, rendered: m.renderText(msg.Text)}
	i := len(m.entries)
	for i > 0 && m.entries[i-1].msg.Timestamp > msg.Timestamp {
		i--
	}
	m.entries = append(m.entries, entry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = e

	if m.maxMessages > 0 && len(m.entries) > m.maxMessages {
		m.entries = append([]entry(nil), m.entries[len(m.entries)-m.maxMessages:]...)
	}
	m.refreshViewport(follow)
}

func (m *Model) refreshViewport(follow bool) {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = e.rendered
	}
	m.viewport.SetContent(strings.Join(parts, "\n"))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderText(text string) string {
	switch {
	case strings.HasPrefix(text, "> "):
		return m.theme.LogEcho.Render(text)
	case strings.HasPrefix(text, "Error:"):
		return m.theme.LogError.Render(text)
	}
	if m.renderer != nil {
		out, err := m.renderer.Render(hardBreaks(text))
		if err == nil {
			return strings.Trim(out, "\n")
		}
		m.logger.Debug("Markdown render failed", "error", err)
	}
	return m.theme.LogText.Render(strings.ReplaceAll(text, "**", ""))
}

// hardBreaks keeps single newlines, which markdown would join.
func hardBreaks(text string) string {
	return strings.ReplaceAll(text, "\n", "  \n")
}
