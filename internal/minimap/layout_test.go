// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package minimap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() []Node {
	return []Node{
		{X: 0, Y: 0, RoomKey: "a", RoomName: "Square", IsPlayer: true, Connections: []string{"b", "c"}},
		{X: 1, Y: 0, RoomKey: "b", RoomName: "East Road", Connections: []string{"a"}},
		{X: 0, Y: 1, RoomKey: "c", RoomName: "North Gate", Connections: []string{"a", "zz"}},
	}
}

func TestLayout_Empty(t *testing.T) {
	r := Layout(nil, Options{})
	assert.True(t, r.Empty)
	assert.Empty(t, r.Nodes)
	assert.Empty(t, r.Edges)

	_, ok := r.Player()
	assert.False(t, ok)
}

func TestLayout_NodeCountAndGrid(t *testing.T) {
	r := Layout(square(), Options{})
	require.False(t, r.Empty)

	assert.Len(t, r.Nodes, 3)
	assert.Equal(t, 2, r.GridWidth)
	assert.Equal(t, 2, r.GridHeight)
	assert.Equal(t, DefaultCellSize, r.CellSize)
	assert.Equal(t, 80, r.Width)
	assert.Equal(t, 80, r.Height)
	assert.Equal(t, Bounds{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}, r.Bounds)
}

func TestLayout_SingleNode(t *testing.T) {
	r := Layout([]Node{{X: 5, Y: -3, RoomKey: "x", IsPlayer: true}}, Options{CellSize: 10})

	assert.Equal(t, 1, r.GridWidth)
	assert.Equal(t, 1, r.GridHeight)
	require.Len(t, r.Nodes, 1)
	assert.Equal(t, Point{X: 5, Y: 5}, r.Nodes[0].Center)
}

func TestLayout_NorthIsUp(t *testing.T) {
	r := Layout(square(), Options{})

	byKey := map[string]RenderedNode{}
	for _, n := range r.Nodes {
		byKey[n.RoomKey] = n
	}

	// c is north of a, so it sits on the top row.
	assert.Equal(t, 0, byKey["c"].Row)
	assert.Equal(t, 1, byKey["a"].Row)
	assert.Equal(t, Point{X: 20, Y: 20}, byKey["c"].Center)
	assert.Equal(t, Point{X: 20, Y: 60}, byKey["a"].Center)
	assert.Equal(t, Point{X: 60, Y: 60}, byKey["b"].Center)
}

func TestLayout_EdgesDrawnOnceFromLesserKey(t *testing.T) {
	r := Layout(square(), Options{})

	require.Len(t, r.Edges, 2)
	for _, e := range r.Edges {
		assert.Equal(t, "a", e.From)
		assert.Less(t, e.From, e.To)
		assert.Equal(t, EdgeStroke, e.Stroke)
		assert.Equal(t, StrokeWidth, e.StrokeWidth)
		assert.InDelta(t, EdgeOpacity, e.Opacity, 1e-9)
	}
}

func TestLayout_OneSidedConnection(t *testing.T) {
	nodes := []Node{
		{X: 0, Y: 0, RoomKey: "b", Connections: []string{"a"}},
		{X: 1, Y: 0, RoomKey: "a"},
	}
	r := Layout(nodes, Options{})

	// Only b lists the connection and b > a, so nothing is drawn.
	assert.Empty(t, r.Edges)
}

func TestLayout_DanglingSkipped(t *testing.T) {
	nodes := []Node{{X: 0, Y: 0, RoomKey: "a", Connections: []string{"missing"}}}
	r := Layout(nodes, Options{})
	assert.Empty(t, r.Edges)
	assert.Len(t, r.Nodes, 1)
}

func TestLayout_DuplicateConnections(t *testing.T) {
	nodes := []Node{
		{X: 0, Y: 0, RoomKey: "a", Connections: []string{"b", "b"}},
		{X: 1, Y: 0, RoomKey: "b", Connections: []string{"a"}},
	}
	r := Layout(nodes, Options{})
	assert.Len(t, r.Edges, 1)
}

func TestLayout_SelfLoops(t *testing.T) {
	nodes := []Node{{X: 0, Y: 0, RoomKey: "a", Connections: []string{"a"}}}

	drawn := Layout(nodes, Options{SelfLoops: SelfLoopDraw})
	require.Len(t, drawn.Edges, 1)
	assert.True(t, drawn.Edges[0].SelfLoop())
	assert.Equal(t, drawn.Edges[0].Start, drawn.Edges[0].End)

	skipped := Layout(nodes, Options{SelfLoops: SelfLoopSkip})
	assert.Empty(t, skipped.Edges)
}

func TestLayout_PlayerStyling(t *testing.T) {
	r := Layout(square(), Options{})

	p, ok := r.Player()
	require.True(t, ok)
	assert.Equal(t, "a", p.RoomKey)
	assert.Equal(t, PlayerRadius, p.Radius)
	assert.Equal(t, PlayerFill, p.Fill)

	for _, n := range r.Nodes {
		if !n.IsPlayer {
			assert.Equal(t, RoomRadius, n.Radius)
			assert.Equal(t, RoomFill, n.Fill)
		}
		assert.Equal(t, NodeStroke, n.Stroke)
	}
}

func TestParseSelfLoopPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    SelfLoopPolicy
		wantErr bool
	}{
		{"", SelfLoopDraw, false},
		{"draw", SelfLoopDraw, false},
		{" SKIP ", SelfLoopSkip, false},
		{"hide", SelfLoopDraw, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelfLoopPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(ParseSelfLoopPolicy(got.String())))
		})
	}
}

func must(p SelfLoopPolicy, err error) SelfLoopPolicy {
	if err != nil {
		panic(err)
	}
	return p
}
