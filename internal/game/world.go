// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package game

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
)

// ZonesFile is the index file of a world directory.
const ZonesFile = "zones.json"

//go:embed world/*.json
var embeddedWorld embed.FS

var validate = validator.New()

var (
	// ErrNoStartRoom is returned when the initial room is not in any zone.
	ErrNoStartRoom = errors.New("initial room not found")
)

// ZoneInfo names one zone and its room file.
type ZoneInfo struct {
	ID   string `json:"id" validate:"required,excludes=:"`
	Name string `json:"name" validate:"required"`
	File string `json:"file" validate:"required"`
}

// ZoneConfig is the contents of zones.json.
type ZoneConfig struct {
	Zones       []ZoneInfo `json:"zones" validate:"required,min=1,dive"`
	InitialZone string     `json:"initial_zone" validate:"required"`
	InitialRoom uint32     `json:"initial_room"`
}

// Start returns the configured start location.
func (c ZoneConfig) Start() Location {
	return Location{Zone: c.InitialZone, RoomID: c.InitialRoom}
}

type placedRoom struct {
	room Room
	zone string
}

// World is an immutable set of rooms keyed by "zone:id".
type World struct {
	config ZoneConfig
	rooms  map[string]placedRoom

	// Skipped lists zone files named in zones.json that were not found.
	Skipped []string
}

// DefaultWorld loads the world compiled into the binary.
func DefaultWorld() (*World, error) {
	sub, err := fs.Sub(embeddedWorld, "world")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded world: %w", err)
	}
	return LoadWorld(sub)
}

// LoadWorldDir loads a world from a directory on disk.
func LoadWorldDir(dir string) (*World, error) {
	return LoadWorld(os.DirFS(dir))
}

// LoadWorld reads zones.json and each zone file it names from fsys. Zone
// files that do not exist are skipped; malformed ones fail the load.
func LoadWorld(fsys fs.FS) (*World, error) {
	data, err := fs.ReadFile(fsys, ZonesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ZonesFile, err)
	}

	var cfg ZoneConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ZonesFile, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ZonesFile, err)
	}

	w := &World{config: cfg, rooms: make(map[string]placedRoom)}
	for _, zone := range cfg.Zones {
		raw, err := fs.ReadFile(fsys, zone.File)
		if errors.Is(err, fs.ErrNotExist) {
			w.Skipped = append(w.Skipped, zone.File)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read zone %s: %w", zone.ID, err)
		}

		var rooms []Room
		if err := json.Unmarshal(raw, &rooms); err != nil {
			return nil, fmt.Errorf("failed to parse zone %s (%s): %w", zone.ID, zone.File, err)
		}
		for _, room := range rooms {
			if err := validate.Struct(room); err != nil {
				return nil, fmt.Errorf("invalid room %d in zone %s: %w", room.ID, zone.ID, err)
			}
			loc := Location{Zone: zone.ID, RoomID: room.ID}
			w.rooms[loc.Key()] = placedRoom{room: room, zone: zone.ID}
		}
	}

	if _, ok := w.rooms[cfg.Start().Key()]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoStartRoom, cfg.Start().Key())
	}
	return w, nil
}

// NewWorld builds a world from rooms already in memory, keyed by zone.
func NewWorld(start Location, zones map[string][]Room) (*World, error) {
	w := &World{
		config: ZoneConfig{InitialZone: start.Zone, InitialRoom: start.RoomID},
		rooms:  make(map[string]placedRoom),
	}
	for zone, rooms := range zones {
		w.config.Zones = append(w.config.Zones, ZoneInfo{ID: zone, Name: zone, File: zone + ".json"})
		for _, room := range rooms {
			w.rooms[Location{Zone: zone, RoomID: room.ID}.Key()] = placedRoom{room: room, zone: zone}
		}
	}
	if _, ok := w.rooms[start.Key()]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoStartRoom, start.Key())
	}
	return w, nil
}

// Start is the location new players begin in.
func (w *World) Start() Location { return w.config.Start() }

// Zones lists the zones from zones.json.
func (w *World) Zones() []ZoneInfo { return w.config.Zones }

// Len is the number of rooms.
func (w *World) Len() int { return len(w.rooms) }

// Room looks up a room by location.
func (w *World) Room(loc Location) (Room, bool) {
	p, ok := w.rooms[loc.Key()]
	return p.room, ok
}

// Has reports whether a room exists.
func (w *World) Has(loc Location) bool {
	_, ok := w.rooms[loc.Key()]
	return ok
}
