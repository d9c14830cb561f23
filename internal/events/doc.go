// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package events is the in-process push channel between the world engine and
// the client surfaces.
//
// Channels are addressed by name. The backend emits on them, the UI and the
// transcript recorder listen:
//
//   - StreamMessage ("stream-message"): one text payload per event
//   - MinimapUpdate ("minimap-update"): no payload, re-fetch the minimap
//   - ToggleMinimap ("toggle-minimap"): no payload, flip minimap visibility
//   - OpenSettings ("open-settings"): no payload, open the settings dialog
//
// # Usage
//
//	bus := events.NewBus()
//	unlisten, err := bus.Listen(events.StreamMessage, func(e events.Event) {
//	    fmt.Println(e.Text())
//	})
//	if err != nil {
//	    return err
//	}
//	defer unlisten()
//	bus.Emit(events.StreamMessage, "hello")
package events
