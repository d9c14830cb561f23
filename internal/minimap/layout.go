// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package minimap

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// DefaultCellSize is the pixel size of one grid cell.
const DefaultCellSize = 40

// Colors and radii of the rendered map.
const (
	PlayerFill   = "#4CAF50"
	RoomFill     = "#2196F3"
	NodeStroke   = "#fff"
	EdgeStroke   = "#fff"
	PlayerRadius = 15
	RoomRadius   = 10
	StrokeWidth  = 2
	EdgeOpacity  = 0.5
)

// SelfLoopPolicy decides what happens to a connection from a room to itself.
type SelfLoopPolicy int

const (
	// SelfLoopDraw keeps the lesser-or-equal key rule: a self-loop is
	// emitted once as a zero-length edge.
	SelfLoopDraw SelfLoopPolicy = iota

	// SelfLoopSkip drops self-loops.
	SelfLoopSkip
)

// String returns the config spelling of the policy.
func (p SelfLoopPolicy) String() string {
	if p == SelfLoopSkip {
		return "skip"
	}
	return "draw"
}

// ParseSelfLoopPolicy parses "draw" or "skip". Empty means draw.
func ParseSelfLoopPolicy(s string) (SelfLoopPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "draw":
		return SelfLoopDraw, nil
	case "skip":
		return SelfLoopSkip, nil
	}
	return SelfLoopDraw, fmt.Errorf("invalid self-loop policy %q, must be draw or skip", s)
}

// Options control a layout pass.
type Options struct {
	// CellSize in pixels. Values <= 0 use DefaultCellSize.
	CellSize  int
	SelfLoops SelfLoopPolicy
}

// Bounds is the inclusive coordinate range of a snapshot.
type Bounds struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Point is a pixel-space coordinate.
type Point struct {
	X, Y int
}

// RenderedNode is a node placed on the grid.
type RenderedNode struct {
	Node

	// Col and Row index the grid cell; row 0 is the northernmost row.
	Col, Row int

	Center Point
	Radius int
	Fill   string
	Stroke string
}

// Edge is one undirected connection, drawn from the lesser key.
type Edge struct {
	From, To         string
	FromCol, FromRow int
	ToCol, ToRow     int
	Start, End       Point
	Stroke           string
	StrokeWidth      int
	Opacity          float64
}

// SelfLoop reports whether the edge starts and ends on the same room.
func (e Edge) SelfLoop() bool {
	return e.From == e.To
}

// Render is the output of Layout. Edges are drawn before Nodes.
type Render struct {
	// Empty is set for an empty snapshot; nothing else is populated.
	Empty bool

	Bounds     Bounds
	GridWidth  int
	GridHeight int
	CellSize   int

	// Width and Height of the drawing in pixels.
	Width  int
	Height int

	Edges []Edge
	Nodes []RenderedNode
}

// Player returns the player's node, if the snapshot has one.
func (r Render) Player() (RenderedNode, bool) {
	return lo.Find(r.Nodes, func(n RenderedNode) bool { return n.IsPlayer })
}

// Layout computes the renderable grid for one snapshot.
func Layout(nodes []Node, opts Options) Render {
	if len(nodes) == 0 {
		return Render{Empty: true}
	}

	cell := opts.CellSize
	if cell <= 0 {
		cell = DefaultCellSize
	}

	xs := lo.Map(nodes, func(n Node, _ int) int { return n.X })
	ys := lo.Map(nodes, func(n Node, _ int) int { return n.Y })
	b := Bounds{MinX: lo.Min(xs), MaxX: lo.Max(xs), MinY: lo.Min(ys), MaxY: lo.Max(ys)}

	r := Render{
		Bounds:     b,
		GridWidth:  b.MaxX - b.MinX + 1,
		GridHeight: b.MaxY - b.MinY + 1,
		CellSize:   cell,
	}
	r.Width = r.GridWidth * cell
	r.Height = r.GridHeight * cell

	center := func(n Node) Point {
		return Point{
			X: (n.X-b.MinX)*cell + cell/2,
			Y: (b.MaxY-n.Y)*cell + cell/2,
		}
	}

	lookup := lo.KeyBy(nodes, func(n Node) string { return n.RoomKey })

	for _, n := range nodes {
		for _, key := range lo.Uniq(n.Connections) {
			target, ok := lookup[key]
			if !ok {
				continue // dangling
			}
			if n.RoomKey > key {
				continue // drawn from the other end
			}
			if n.RoomKey == key && opts.SelfLoops == SelfLoopSkip {
				continue
			}
			r.Edges = append(r.Edges, Edge{
				From:        n.RoomKey,
				To:          key,
				FromCol:     n.X - b.MinX,
				FromRow:     b.MaxY - n.Y,
				ToCol:       target.X - b.MinX,
				ToRow:       b.MaxY - target.Y,
				Start:       center(n),
				End:         center(target),
				Stroke:      EdgeStroke,
				StrokeWidth: StrokeWidth,
				Opacity:     EdgeOpacity,
			})
		}
	}

	r.Nodes = make([]RenderedNode, 0, len(nodes))
	for _, n := range nodes {
		rn := RenderedNode{
			Node:   n,
			Col:    n.X - b.MinX,
			Row:    b.MaxY - n.Y,
			Center: center(n),
			Radius: RoomRadius,
			Fill:   RoomFill,
			Stroke: NodeStroke,
		}
		if n.IsPlayer {
			rn.Radius = PlayerRadius
			rn.Fill = PlayerFill
		}
		r.Nodes = append(r.Nodes, rn)
	}

	return r
}
