// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package minimap turns a snapshot of rooms and their connections into a
bounded, renderable grid.

# Layout

Layout is a pure function of one full snapshot. It computes the inclusive
grid bounds, maps every node to pixel-space centers with a fixed cell size
(north up: larger y renders nearer the top), resolves connections through a
room_key lookup and emits each undirected edge exactly once, from the
lexicographically lesser key. Dangling connections are skipped silently.

	r := minimap.Layout(nodes, minimap.Options{CellSize: 40})
	if r.Empty {
	    return // nothing to draw
	}

# Rendering

RenderText rasterizes a Render into a character canvas for the terminal and
WriteSVG writes the same geometry as an SVG document. Both draw edges first
and nodes above them.

# Fetch tracking

Tracker gates fetches behind the minimap toggle and hands out generation
tickets, so a response that arrives after a newer fetch was started, or after
the minimap was disabled, is discarded.
*/
package minimap
