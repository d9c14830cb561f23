// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package game

import (
	"github.com/jeranaias/muddy-tui/internal/minimap"
)

// DefaultMinimapRadius is the Chebyshev distance mapped around the player.
const DefaultMinimapRadius = 2

type coord struct{ x, y int }

// GenerateMinimap walks planar exits breadth-first from the player and
// places each room reached on a grid with the player at the origin. Rooms
// beyond radius on either axis are left out. Up and down exits are never
// followed. A room keeps the grid position of the first path that reached it.
func GenerateMinimap(w *World, p *Player, radius int) []minimap.Node {
	if radius < 0 {
		radius = 0
	}

	type item struct {
		key string
		loc Location
		at  coord
	}

	start := p.Location
	visited := map[string]coord{start.Key(): {}}
	queue := []item{{key: start.Key(), loc: start}}
	var nodes []minimap.Node

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		room, ok := w.Room(cur.loc)
		if !ok {
			continue
		}

		var conns []string
		for _, dir := range PlanarDirections {
			dest, ok := room.Exits[dir]
			if !ok {
				continue
			}
			next := ParseDestination(dest, cur.loc.Zone)
			if !w.Has(next) {
				continue
			}
			dx, dy, _ := Offset(dir)
			at := coord{cur.at.x + dx, cur.at.y + dy}
			if abs(at.x) > radius || abs(at.y) > radius {
				continue
			}

			key := next.Key()
			conns = append(conns, key)
			if _, seen := visited[key]; !seen {
				visited[key] = at
				queue = append(queue, item{key: key, loc: next, at: at})
			}
		}

		nodes = append(nodes, minimap.Node{
			X:           cur.at.x,
			Y:           cur.at.y,
			RoomKey:     cur.key,
			RoomName:    room.Name,
			IsPlayer:    cur.key == start.Key(),
			Connections: conns,
		})
	}
	return nodes
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
