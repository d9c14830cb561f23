// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package minimap

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Character spacing between neighbouring grid cells on the canvas.
const (
	colStep = 4
	rowStep = 2
)

// Glyphs used on the canvas.
const (
	PlayerGlyph = '@'
	RoomGlyph   = 'o'
)

type cellKind int

const (
	kindEmpty cellKind = iota
	kindLine
	kindRoom
	kindPlayer
)

type canvasCell struct {
	r    rune
	kind cellKind
}

// CanvasStyle holds the lipgloss styles for each kind of canvas cell.
type CanvasStyle struct {
	Player lipgloss.Style
	Room   lipgloss.Style
	Line   lipgloss.Style
}

// DefaultCanvasStyle colors nodes with the same fills as the SVG output.
func DefaultCanvasStyle() CanvasStyle {
	return CanvasStyle{
		Player: lipgloss.NewStyle().Foreground(lipgloss.Color(PlayerFill)).Bold(true),
		Room:   lipgloss.NewStyle().Foreground(lipgloss.Color(RoomFill)),
		Line:   lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	}
}

// PlainCanvasStyle renders without any color, for plain-text output.
func PlainCanvasStyle() CanvasStyle {
	return CanvasStyle{
		Player: lipgloss.NewStyle(),
		Room:   lipgloss.NewStyle(),
		Line:   lipgloss.NewStyle(),
	}
}

// Canvas size limits. Larger renders are cropped to a window around the
// player node, or around the first node when there is no player.
const (
	MaxCanvasWidth  = 121
	MaxCanvasHeight = 61
)

// fullCanvasSize is the uncropped character size of r.
func fullCanvasSize(r Render) (width, height int) {
	return (r.GridWidth-1)*colStep + 1, (r.GridHeight-1)*rowStep + 1
}

// CanvasSize returns the character width and height RenderText produces.
func CanvasSize(r Render) (width, height int) {
	if r.Empty {
		return 0, 0
	}
	width, height = fullCanvasSize(r)
	return min(width, MaxCanvasWidth), min(height, MaxCanvasHeight)
}

// canvasOrigin is the top-left canvas point RenderText shows.
func canvasOrigin(r Render) (x, y int) {
	fullW, fullH := fullCanvasSize(r)
	if fullW <= MaxCanvasWidth && fullH <= MaxCanvasHeight {
		return 0, 0
	}

	var focus RenderedNode
	if len(r.Nodes) > 0 {
		focus = r.Nodes[0]
	}
	for _, n := range r.Nodes {
		if n.IsPlayer {
			focus = n
			break
		}
	}
	x = clampInt(focus.Col*colStep-MaxCanvasWidth/2, 0, max(fullW-MaxCanvasWidth, 0))
	y = clampInt(focus.Row*rowStep-MaxCanvasHeight/2, 0, max(fullH-MaxCanvasHeight, 0))
	return x, y
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// RenderText draws r as lines of text. Connections are drawn first and rooms
// on top of them. An empty render yields "".
func RenderText(r Render, style CanvasStyle) string {
	if r.Empty {
		return ""
	}

	width, height := CanvasSize(r)
	ox, oy := canvasOrigin(r)
	grid := make([][]canvasCell, height)
	for y := range grid {
		grid[y] = make([]canvasCell, width)
		for x := range grid[y] {
			grid[y][x] = canvasCell{r: ' '}
		}
	}

	for _, e := range r.Edges {
		drawEdge(grid,
			e.FromCol*colStep-ox, e.FromRow*rowStep-oy,
			e.ToCol*colStep-ox, e.ToRow*rowStep-oy)
	}

	for _, n := range r.Nodes {
		x, y := n.Col*colStep-ox, n.Row*rowStep-oy
		if y < 0 || y >= height || x < 0 || x >= width {
			continue
		}
		c := canvasCell{r: RoomGlyph, kind: kindRoom}
		if n.IsPlayer {
			c = canvasCell{r: PlayerGlyph, kind: kindPlayer}
		}
		grid[y][x] = c
	}

	lines := make([]string, height)
	for y, row := range grid {
		lines[y] = renderRow(row, style)
	}
	return strings.Join(lines, "\n")
}

// drawEdge draws the line between two canvas points, excluding the
// endpoints, which belong to nodes. Only the part inside grid is walked.
func drawEdge(grid [][]canvasCell, x1, y1, x2, y2 int) {
	dx, dy := x2-x1, y2-y1
	if dx == 0 && dy == 0 {
		return // self-loop: nothing visible
	}
	height := len(grid)
	width := 0
	if height > 0 {
		width = len(grid[0])
	}

	if dy == 0 {
		if y1 < 0 || y1 >= height {
			return
		}
		for x := max(min(x1, x2)+1, 0); x < min(max(x1, x2), width); x++ {
			plot(grid, x, y1, '─')
		}
		return
	}

	glyph := '│'
	switch {
	case dx != 0 && (dx > 0) == (dy > 0):
		glyph = '╲'
	case dx != 0:
		glyph = '╱'
	}

	for y := max(min(y1, y2)+1, 0); y < min(max(y1, y2), height); y++ {
		x := x1 + roundDiv(dx*(y-y1), dy)
		plot(grid, x, y, glyph)
	}
}

func plot(grid [][]canvasCell, x, y int, r rune) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	if grid[y][x].kind != kindEmpty && grid[y][x].r != r {
		r = '┼'
	}
	grid[y][x] = canvasCell{r: r, kind: kindLine}
}

// roundDiv divides and rounds half away from zero.
func roundDiv(a, b int) int {
	if b < 0 {
		a, b = -a, -b
	}
	if a >= 0 {
		return (a + b/2) / b
	}
	return -((-a + b/2) / b)
}

// renderRow styles runs of equal kind together.
func renderRow(row []canvasCell, style CanvasStyle) string {
	var sb strings.Builder
	var run []rune
	kind := kindEmpty

	flush := func() {
		if len(run) == 0 {
			return
		}
		text := string(run)
		switch kind {
		case kindPlayer:
			text = style.Player.Render(text)
		case kindRoom:
			text = style.Room.Render(text)
		case kindLine:
			text = style.Line.Render(text)
		}
		sb.WriteString(text)
		run = run[:0]
	}

	for _, c := range row {
		if c.kind != kind {
			flush()
			kind = c.kind
		}
		run = append(run, c.r)
	}
	flush()
	return sb.String()
}
