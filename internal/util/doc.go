// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across muddy.
//
// # Key Functions
//
// Text:
//   - WrapLines: word wrap by display width, keeping explicit newlines
//   - FormatList: "a, b, and c" style joins for room exits
//   - TruncateWidth: width-aware truncation for status lines
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	lines := util.WrapLines(text, 80)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
