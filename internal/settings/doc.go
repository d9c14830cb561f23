// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings holds the word-wrap display settings, the rule that keeps
// the wrap length within bounds, the dialog form state, and the JSON store
// that persists them.
package settings
