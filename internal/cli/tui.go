// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - Full-screen game client.

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/muddy-tui/internal/ui/client"
	"github.com/jeranaias/muddy-tui/internal/ui/styles"
)

// HandleTUI runs the Bubble Tea client until the user quits.
func HandleTUI(ctx context.Context, rt *Runtime) error {
	cfg := rt.Config

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := client.New(client.Options{
		Backend:        rt.Engine,
		Emitter:        rt.Bus,
		Theme:          styles.NewTheme(cfg.UI.Theme),
		Logger:         rt.Logger,
		MinimapEnabled: cfg.UI.MinimapEnabled,
		SelfLoops:      cfg.SelfLoopPolicy(),
		Markdown:       cfg.UI.Markdown,
		MarkdownStyle:  cfg.UI.Theme,
		MaxMessages:    cfg.UI.MaxMessages,
		Context:        ctx,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	detach, err := client.Bridge(rt.Bus, rt.Log, p)
	if err != nil {
		return err
	}
	defer detach()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
