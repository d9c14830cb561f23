// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package game is the in-process world engine: zones and rooms loaded from
// JSON, the player, the command parser, and the minimap snapshot. Output is
// pushed as text on the event bus; the engine never writes to the terminal.
package game
