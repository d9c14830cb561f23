// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package minimap

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText_Empty(t *testing.T) {
	assert.Equal(t, "", RenderText(Render{Empty: true}, PlainCanvasStyle()))
}

func TestRenderText_Horizontal(t *testing.T) {
	nodes := []Node{
		{X: 0, Y: 0, RoomKey: "a", IsPlayer: true, Connections: []string{"b"}},
		{X: 1, Y: 0, RoomKey: "b", Connections: []string{"a"}},
	}
	got := RenderText(Layout(nodes, Options{}), PlainCanvasStyle())
	assert.Equal(t, "@───o", got)
}

func TestRenderText_Vertical(t *testing.T) {
	nodes := []Node{
		{X: 0, Y: 1, RoomKey: "a", Connections: []string{"b"}},
		{X: 0, Y: 0, RoomKey: "b", IsPlayer: true},
	}
	got := RenderText(Layout(nodes, Options{}), PlainCanvasStyle())
	assert.Equal(t, "o\n│\n@", got)
}

func TestRenderText_Diagonal(t *testing.T) {
	nodes := []Node{
		{X: 0, Y: 0, RoomKey: "a", Connections: []string{"b"}},
		{X: 1, Y: 1, RoomKey: "b"},
	}
	r := Layout(nodes, Options{})
	w, h := CanvasSize(r)
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)

	lines := strings.Split(RenderText(r, PlainCanvasStyle()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "    o", lines[0])
	assert.Equal(t, "  ╱  ", lines[1])
	assert.Equal(t, "o    ", lines[2])
}

func TestRenderText_SelfLoopInvisible(t *testing.T) {
	nodes := []Node{{X: 0, Y: 0, RoomKey: "a", IsPlayer: true, Connections: []string{"a"}}}
	assert.Equal(t, "@", RenderText(Layout(nodes, Options{}), PlainCanvasStyle()))
}

func TestRenderText_CropsFarApartNodes(t *testing.T) {
	nodes := []Node{
		{X: 0, Y: 0, RoomKey: "a", IsPlayer: true, Connections: []string{"b"}},
		{X: 100_000_000, Y: 0, RoomKey: "b"},
	}
	r := Layout(nodes, Options{})
	w, h := CanvasSize(r)
	assert.Equal(t, MaxCanvasWidth, w)
	assert.Equal(t, 1, h)

	got := RenderText(r, PlainCanvasStyle())
	assert.Equal(t, "@"+strings.Repeat("─", MaxCanvasWidth-1), got)
}

func TestRenderText_CropCentersOnPlayer(t *testing.T) {
	nodes := []Node{
		{X: 0, Y: 0, RoomKey: "a", Connections: []string{"b"}},
		{X: 100_000_000, Y: 0, RoomKey: "b", IsPlayer: true},
		{X: 100_000_000, Y: 50_000_000, RoomKey: "c", Connections: []string{"b"}},
	}
	r := Layout(nodes, Options{})
	w, h := CanvasSize(r)
	require.Equal(t, MaxCanvasWidth, w)
	require.Equal(t, MaxCanvasHeight, h)

	lines := strings.Split(RenderText(r, PlainCanvasStyle()), "\n")
	require.Len(t, lines, MaxCanvasHeight)
	last := []rune(lines[len(lines)-1])
	require.Len(t, last, MaxCanvasWidth)
	assert.Equal(t, '@', last[len(last)-1])
	assert.Equal(t, '─', last[0])
	assert.Equal(t, '│', []rune(lines[0])[MaxCanvasWidth-1])
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, Layout(square(), Options{})))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="80" height="80">`))
	assert.Equal(t, 2, strings.Count(out, "<line "))
	assert.Equal(t, 3, strings.Count(out, "<circle "))
	assert.Contains(t, out, `r="15" fill="#4CAF50"`)
	assert.Contains(t, out, `stroke="#fff" stroke-width="2" opacity="0.5"`)
	assert.Contains(t, out, "<title>North Gate</title>")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestWriteSVG_EscapesNames(t *testing.T) {
	var buf bytes.Buffer
	nodes := []Node{{X: 0, Y: 0, RoomKey: "a", RoomName: "Fish & <Chips>"}}
	require.NoError(t, WriteSVG(&buf, Layout(nodes, Options{})))
	assert.Contains(t, buf.String(), "Fish &amp; &lt;Chips&gt;")
}

func TestWriteSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteSVG(&buf, Render{Empty: true}), ErrEmptySnapshot)
	assert.Zero(t, buf.Len())
}
