// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/muddy-tui/internal/minimap"
	"github.com/jeranaias/muddy-tui/internal/ui/styles"
)

const (
	appTitle    = "muddy"
	appSubtitle = "a small text adventure"

	sgrReset = "\x1b[0m"

	// The overlay is skipped when it would leave less than this much log.
	minLogWidth = 20
)

// View renders the model.
func (m Model) View() string {
	if m.dialog.open {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderDialog())
	}

	body := m.viewport.View()
	if m.tracker.Enabled() {
		body = overlayTopRight(body, m.renderMinimap(), m.viewport.Width)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// =============================================================================
// COMPONENTS
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render(appTitle)
	subtitle := m.theme.HeaderSubtitle.Render(appSubtitle)
	return m.theme.Header.Width(m.width).MaxHeight(headerHeight).Render(title + "  " + subtitle)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var left []string
	if m.tracker.Enabled() {
		left = append(left, "map "+m.theme.StatusOn.Render(styles.StatusIndicators.On))
	} else {
		left = append(left, "map "+m.theme.StatusOff.Render(styles.StatusIndicators.Off))
	}
	left = append(left, fmt.Sprintf("%d messages", len(m.entries)))
	switch {
	case m.err != nil:
		left = append(left, m.theme.StatusError.Render(m.err.Error()))
	case m.status != "":
		left = append(left, m.status)
	}

	leftText := strings.Join(left, "  ")
	rightText := renderShortcuts(m.theme, m.keys.ShortHelp())

	inner := m.width - 2
	gap := inner - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	line := leftText
	if gap >= 1 {
		line = leftText + strings.Repeat(" ", gap) + rightText
	}
	return m.theme.StatusBar.Width(m.width).MaxHeight(statusBarHeight).Render(line)
}

func renderShortcuts(theme *styles.Theme, bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, theme.ShortcutKey.Render(h.Key)+" "+theme.ShortcutDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderMinimap() string {
	title := m.theme.MinimapTitle.Render("Map")
	if m.mapPending {
		title += " " + m.spinner.View()
	}

	var body string
	switch {
	case m.mapErr != nil:
		body = m.theme.MinimapEmpty.Render("unavailable")
	case !m.mapLoaded:
		body = m.theme.MinimapEmpty.Render("loading")
	case m.mapRender.Empty:
		body = m.theme.MinimapEmpty.Render("nothing nearby")
	default:
		body = minimap.RenderText(m.mapRender, m.theme.Canvas())
	}
	return m.theme.MinimapBox.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (m Model) renderDialog() string {
	d := m.dialog
	t := m.theme

	field := t.DialogField
	if d.focus == focusLength {
		field = t.DialogFieldFocused
	}
	wrapLabel := styles.Checkbox(d.form.WrapEnabled()) + " Word wrap"
	if d.focus == focusWrap {
		wrapLabel = t.StatusOn.Render(wrapLabel)
	}

	rows := []string{
		t.DialogTitle.Render("Settings"),
		wrapLabel,
		"",
		t.DialogLabel.Render("Wrap length (20-200)"),
		field.Render(d.length.View()),
	}
	switch {
	case d.loading:
		rows = append(rows, t.DialogHint.Render("Loading settings..."))
	case d.saving:
		rows = append(rows, t.DialogHint.Render("Saving..."))
	}
	if d.err != nil {
		rows = append(rows, t.DialogError.Render(d.err.Error()))
	}
	rows = append(rows, t.DialogHint.Render(renderShortcuts(t, m.dialogKeys.ShortHelp())))

	return t.DialogBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// overlayTopRight draws box over the top-right corner of base.
func overlayTopRight(base, box string, width int) string {
	boxWidth := lipgloss.Width(box)
	left := width - boxWidth
	if left < minLogWidth {
		return base
	}

	baseLines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	for i, bl := range boxLines {
		if i >= len(baseLines) {
			break
		}
		line := ansi.Truncate(baseLines[i], left, "")
		if w := ansi.StringWidth(line); w < left {
			line += strings.Repeat(" ", left-w)
		}
		baseLines[i] = line + sgrReset + bl
	}
	return strings.Join(baseLines, "\n")
}
