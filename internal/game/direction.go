// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package game

import (
	"slices"
	"sort"
)

// Direction names as used in zone files.
const (
	North     = "north"
	South     = "south"
	East      = "east"
	West      = "west"
	Northeast = "northeast"
	Northwest = "northwest"
	Southeast = "southeast"
	Southwest = "southwest"
	Up        = "up"
	Down      = "down"
)

var abbreviations = map[string]string{
	"n":  North,
	"s":  South,
	"e":  East,
	"w":  West,
	"ne": Northeast,
	"nw": Northwest,
	"se": Southeast,
	"sw": Southwest,
	"u":  Up,
	"d":  Down,
}

// PlanarDirections are the directions drawn on the minimap, in BFS order.
var PlanarDirections = []string{North, South, East, West, Northeast, Northwest, Southeast, Southwest}

// displayOrder is the order exits are listed in.
var displayOrder = []string{North, Northeast, East, Southeast, South, Southwest, West, Northwest, Up, Down}

var offsets = map[string][2]int{
	North:     {0, 1},
	South:     {0, -1},
	East:      {1, 0},
	West:      {-1, 0},
	Northeast: {1, 1},
	Northwest: {-1, 1},
	Southeast: {1, -1},
	Southwest: {-1, -1},
}

// ExpandDirection maps an abbreviation to its full name. Anything else is
// returned unchanged.
func ExpandDirection(input string) string {
	if full, ok := abbreviations[input]; ok {
		return full
	}
	return input
}

// Offset returns the grid step for a planar direction.
func Offset(direction string) (dx, dy int, ok bool) {
	o, ok := offsets[direction]
	return o[0], o[1], ok
}

// sortedExits returns exit names in compass order; unknown names follow,
// alphabetically.
func sortedExits(exits map[string]string) []string {
	names := make([]string, 0, len(exits))
	for name := range exits {
		names = append(names, name)
	}
	rank := func(s string) int {
		if i := slices.Index(displayOrder, s); i >= 0 {
			return i
		}
		return len(displayOrder)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := rank(names[i]), rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}
