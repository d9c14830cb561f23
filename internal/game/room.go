// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Room is one location in a zone file.
type Room struct {
	ID          uint32            `json:"id"`
	Name        string            `json:"name" validate:"required"`
	Description string            `json:"description"`
	Exits       map[string]string `json:"exits"`
	Objects     []uint32          `json:"objects"`
}

// Location identifies a room across zones.
type Location struct {
	Zone   string
	RoomID uint32
}

// Key returns "zone:id".
func (l Location) Key() string {
	return l.Zone + ":" + strconv.FormatUint(uint64(l.RoomID), 10)
}

func (l Location) String() string { return l.Key() }

// ParseDestination resolves an exit target. "7" stays in currentZone,
// "docks:3" crosses zones. An unparsable id resolves to room 0.
func ParseDestination(exit, currentZone string) Location {
	zone, id := currentZone, exit
	if z, rest, ok := strings.Cut(exit, ":"); ok {
		zone, id = z, rest
	}
	n, err := strconv.ParseUint(strings.TrimSpace(id), 10, 32)
	if err != nil {
		n = 0
	}
	return Location{Zone: zone, RoomID: uint32(n)}
}

// ParseKey parses a "zone:id" room key.
func ParseKey(key string) (Location, error) {
	zone, id, ok := strings.Cut(key, ":")
	if !ok || zone == "" {
		return Location{}, fmt.Errorf("invalid room key %q", key)
	}
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return Location{}, fmt.Errorf("invalid room id in key %q: %w", key, err)
	}
	return Location{Zone: zone, RoomID: uint32(n)}, nil
}

// Player is the single player character.
type Player struct {
	Location Location
}

// MoveTo puts the player in loc.
func (p *Player) MoveTo(loc Location) {
	p.Location = loc
}
