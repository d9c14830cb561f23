// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the muddy terminal client.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. The theme can also be forced to dark or light from config.

# Color System (colors.go)

  - Purple - Room names and the dialog border
  - Cyan - Command echo and the input prompt
  - Emerald - The player on the minimap, success states
  - Amber - Warnings and rate-limit notices
  - Rose - Errors

# Theme (theme.go)

Theme carries every lipgloss.Style the client renders with, plus the
detected terminal capabilities:

	theme := styles.NewTheme("auto")
	header := theme.Header.Render("Muddy Rogue")

# Spinners (animations.go)

SpinnerConfig frame sets convert to bubbles spinners with Bubbles().
*/
package styles
