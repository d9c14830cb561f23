// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package minimap

// Node is one room in a minimap snapshot.
type Node struct {
	X           int      `json:"x"`
	Y           int      `json:"y"`
	RoomKey     string   `json:"room_key"`
	RoomName    string   `json:"room_name"`
	IsPlayer    bool     `json:"is_player"`
	Connections []string `json:"connections"`
}
