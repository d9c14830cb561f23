// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/muddy-tui/internal/events"
	"github.com/jeranaias/muddy-tui/internal/minimap"
	"github.com/jeranaias/muddy-tui/internal/settings"
	"github.com/jeranaias/muddy-tui/internal/stream"
)

// Backend is the request side of the game. *game.Engine satisfies it.
type Backend interface {
	SendCommand(ctx context.Context, command string) error
	GetStartMessage(ctx context.Context) error
	GetMinimap(ctx context.Context) ([]minimap.Node, error)
	GetSettings(ctx context.Context) (settings.Settings, error)
	SaveSettings(ctx context.Context, s settings.Settings) error
}

// Emitter publishes user-raised signals. *events.Bus satisfies it.
type Emitter interface {
	Emit(channel string, payload any) error
}

// Listener registers channel handlers. *events.Bus satisfies it.
type Listener interface {
	Listen(channel string, handler events.Handler) (events.Unlisten, error)
}

// Sender receives messages from outside the update loop. *tea.Program
// satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards appended log messages and bus signals to the program.
// The returned function detaches everything; it is safe to call twice.
// On error nothing stays attached.
func Bridge(src Listener, log *stream.Aggregator, to Sender) (events.Unlisten, error) {
	var unlistens []events.Unlisten
	detach := func() {
		if log != nil {
			log.OnAppend(nil)
		}
		for i := len(unlistens) - 1; i >= 0; i-- {
			unlistens[i]()
		}
		unlistens = nil
	}

	signals := []struct {
		channel string
		msg     tea.Msg
	}{
		{events.MinimapUpdate, MinimapUpdateMsg{}},
		{events.ToggleMinimap, ToggleMinimapMsg{}},
		{events.OpenSettings, OpenSettingsMsg{}},
	}
	for _, s := range signals {
		msg := s.msg
		un, err := src.Listen(s.channel, func(events.Event) { to.Send(msg) })
		if err != nil {
			detach()
			return nil, fmt.Errorf("bridge %s: %w", s.channel, err)
		}
		unlistens = append(unlistens, un)
	}

	if log != nil {
		log.OnAppend(func(m stream.Message) { to.Send(StreamMsg{Message: m}) })
	}
	return detach, nil
}
