// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// map.go - One-shot minimap rendering.
//
// Command: map
// Short:   Print the map around a room
//
// Examples:
//   muddy map                          Map around the start room
//   muddy map --room millhaven:6       Map around another room
//   muddy map --radius 3 --svg map.svg Also write an SVG drawing
//
// Flags:
//   --room KEY      Center on KEY (zone:id) instead of the start room
//   --radius N      Override game.minimap_radius
//   --svg FILE      Write the drawing to FILE

package cli

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/jeranaias/muddy-tui/internal/game"
	"github.com/jeranaias/muddy-tui/internal/minimap"
	"github.com/jeranaias/muddy-tui/internal/ui/styles"
	"github.com/jeranaias/muddy-tui/internal/util"
)

// HandleMap renders the minimap to w.
func HandleMap(rt *Runtime, args Args, w io.Writer) error {
	p := NewArgParser(args.Raw)

	player := game.Player{Location: rt.World.Start()}
	if key := p.Flag("room"); key != "" {
		loc, err := game.ParseKey(key)
		if err != nil {
			return ErrInvalidFormat("room", key, "muddy map --room millhaven:0")
		}
		if !rt.World.Has(loc) {
			return &NotFoundError{Resource: "room", ID: key}
		}
		player.MoveTo(loc)
	}

	radius := rt.Config.Game.MinimapRadius
	if p.HasFlag("radius") {
		n, err := p.FlagInt("radius")
		if err != nil || n < 0 {
			return ErrInvalidFormat("radius", p.Flag("radius"), "muddy map --radius 3")
		}
		radius = n
	}

	nodes := game.GenerateMinimap(rt.World, &player, radius)
	render := minimap.Layout(nodes, minimap.Options{
		CellSize:  rt.Config.UI.CellSize,
		SelfLoops: rt.Config.SelfLoopPolicy(),
	})

	if render.Empty {
		fmt.Fprintln(w, dimStyle.Render("Nothing to map here."))
		return nil
	}

	style := minimap.PlainCanvasStyle()
	if ColorsEnabled() {
		style = styles.NewTheme(rt.Config.UI.Theme).Canvas()
	}
	fmt.Fprintln(w, minimap.RenderText(render, style))
	fmt.Fprintln(w)
	writeLegend(w, render)

	if path := p.Flag("svg"); path != "" {
		var buf bytes.Buffer
		if err := minimap.WriteSVG(&buf, render); err != nil {
			return NewCommandError("map", "svg", "render failed", err)
		}
		if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
			return NewCommandError("map", "svg", "write failed", err)
		}
		fmt.Fprintf(w, "%s Wrote %s\n", SuccessStyle.Render("[OK]"), path)
	}
	return nil
}

// writeLegend lists the mapped rooms from north-west to south-east.
func writeLegend(w io.Writer, r minimap.Render) {
	nodes := append([]minimap.RenderedNode(nil), r.Nodes...)
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Row != nodes[j].Row {
			return nodes[i].Row < nodes[j].Row
		}
		return nodes[i].Col < nodes[j].Col
	})

	for _, n := range nodes {
		glyph := string(minimap.RoomGlyph)
		if n.IsPlayer {
			glyph = string(minimap.PlayerGlyph)
		}
		fmt.Fprintf(w, "  %s %s %s\n", glyph, n.RoomName, dimStyle.Render("("+n.RoomKey+")"))
	}
}
