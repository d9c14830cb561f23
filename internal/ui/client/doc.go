// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package client is the Bubble Tea front end of the game.
//
// The model shows the session log in a scrolling viewport, a command line
// with history, a minimap overlay in the top-right corner and a settings
// dialog for word wrapping. All game state lives behind the Backend
// interface; pushed events reach the program through Bridge.
//
// Update never publishes on the event bus. Signals the user raises, such as
// toggling the minimap, are emitted from a tea.Cmd so that bus handlers can
// forward them back into the program without deadlocking the update loop.
package client
