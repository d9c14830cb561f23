// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/muddy-tui/internal/util"
)

// Fixed message lines.
const (
	WelcomeBanner  = "=== Welcome to Muddy Rogue ==="
	WelcomeHint    = "Type 'help' for available commands."
	MsgNoExit      = "You can't go that way."
	MsgTooFast     = "You are moving too fast."
	MsgNoRoom      = "Error: Current room not found."
	MsgNoExitsHere = "There are no obvious exits."
)

// HelpText is printed by the help command.
var HelpText = []string{
	"Available commands:",
	"  Movement: n, s, e, w, ne, nw, se, sw, u, d (or full direction names)",
	"  Other: help, look, time, exits",
}

var (
	errNotMovement = errors.New("not a movement command")
)

// moveError is a failed move whose message goes to the player.
type moveError struct {
	msg string
}

func (e *moveError) Error() string { return e.msg }

// NormalizeCommand trims, NFC-normalizes and lowercases input.
func NormalizeCommand(input string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(input)))
}

// RoomDisplay renders the room the player is in: bold name, description,
// then a blank line and the exits sentence when there are exits.
func RoomDisplay(w *World, p *Player) []string {
	room, ok := w.Room(p.Location)
	if !ok {
		return nil
	}
	lines := []string{"**" + room.Name + "**", room.Description}
	if len(room.Exits) > 0 {
		lines = append(lines, "", FormatExits(room.Exits))
	}
	return lines
}

// FormatExits builds the exits sentence, bolding each direction.
func FormatExits(exits map[string]string) string {
	if len(exits) == 0 {
		return ""
	}
	names := sortedExits(exits)
	for i, n := range names {
		names[i] = "**" + n + "**"
	}
	list := util.FormatList(names)
	if len(names) == 1 {
		return fmt.Sprintf("There is an available exit to the %s.", list)
	}
	return fmt.Sprintf("There are available exits to the %s.", list)
}

// Move tries to walk the player along command. It returns errNotMovement
// when the current room has no such exit name and command is not a known
// direction, so the caller can try other commands.
func Move(w *World, p *Player, command string) ([]string, error) {
	direction := ExpandDirection(command)

	room, ok := w.Room(p.Location)
	if !ok {
		return nil, &moveError{msg: MsgNoRoom}
	}

	dest, ok := room.Exits[direction]
	if !ok {
		if isDirection(direction) {
			return nil, &moveError{msg: MsgNoExit}
		}
		return nil, errNotMovement
	}

	loc := ParseDestination(dest, p.Location.Zone)
	if !w.Has(loc) {
		return nil, &moveError{msg: fmt.Sprintf("Error: Destination room not found (%s)", loc.Key())}
	}

	p.MoveTo(loc)
	return RoomDisplay(w, p), nil
}

func isDirection(s string) bool {
	for _, d := range displayOrder {
		if d == s {
			return true
		}
	}
	return false
}

// ExitsLine is the reply to the exits command.
func ExitsLine(w *World, p *Player) string {
	room, ok := w.Room(p.Location)
	if !ok {
		return MsgNoRoom
	}
	if len(room.Exits) == 0 {
		return MsgNoExitsHere
	}
	return FormatExits(room.Exits)
}

// TimeLine is the reply to the time command.
func TimeLine(now time.Time) string {
	return "Current time: " + now.Format("15:04:05")
}

// UnknownCommand is the reply for anything unrecognized. It quotes the
// command as typed.
func UnknownCommand(raw string) string {
	return fmt.Sprintf("Unknown command: '%s'. Type 'help' for available commands.", raw)
}

// Process runs one normalized command against the world and returns the
// reply lines. moved is true when the player changed rooms.
func Process(w *World, p *Player, raw string, now time.Time) (lines []string, moved bool) {
	cmd := NormalizeCommand(raw)

	out, err := Move(w, p, cmd)
	if err == nil {
		return out, true
	}
	var me *moveError
	if errors.As(err, &me) {
		return []string{me.msg}, false
	}

	switch cmd {
	case "help":
		return append([]string(nil), HelpText...), false
	case "look", "l":
		return RoomDisplay(w, p), false
	case "time":
		return []string{TimeLine(now)}, false
	case "exits":
		return []string{ExitsLine(w, p)}, false
	}
	return []string{UnknownCommand(raw)}, false
}
