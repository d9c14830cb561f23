// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"github.com/jeranaias/muddy-tui/internal/minimap"
	"github.com/jeranaias/muddy-tui/internal/settings"
	"github.com/jeranaias/muddy-tui/internal/stream"
)

// =============================================================================
// PUSHED EVENTS
// =============================================================================

// StreamMsg delivers one message appended to the session log.
type StreamMsg struct {
	Message stream.Message
}

// MinimapUpdateMsg signals that the minimap snapshot changed.
type MinimapUpdateMsg struct{}

// ToggleMinimapMsg flips minimap visibility.
type ToggleMinimapMsg struct{}

// OpenSettingsMsg opens the settings dialog.
type OpenSettingsMsg struct{}

// =============================================================================
// REQUEST RESULTS
// =============================================================================

type minimapResultMsg struct {
	minimap.Result
}

type settingsLoadedMsg struct {
	Settings settings.Settings
	Err      error
}

type settingsSavedMsg struct {
	Settings settings.Settings
	Err      error
}

// requestErrMsg reports a failed fire-and-forget request.
type requestErrMsg struct {
	Op  string
	Err error
}
