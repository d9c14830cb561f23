// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapLines word-wraps text so that no line is wider than lineLength columns.
//
// Explicit newlines start a new paragraph. Blank paragraphs are kept as empty
// lines. Runs of whitespace inside a paragraph collapse to a single space. A
// single word wider than lineLength is placed on its own line unbroken.
func WrapLines(text string, lineLength int) []string {
	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			lines = append(lines, "")
			continue
		}

		var current strings.Builder
		currentWidth := 0
		for _, word := range strings.Fields(paragraph) {
			w := runewidth.StringWidth(word)
			if current.Len() == 0 {
				current.WriteString(word)
				currentWidth = w
				continue
			}
			if currentWidth+1+w > lineLength {
				lines = append(lines, current.String())
				current.Reset()
				current.WriteString(word)
				currentWidth = w
				continue
			}
			current.WriteByte(' ')
			current.WriteString(word)
			currentWidth += 1 + w
		}
		if current.Len() > 0 {
			lines = append(lines, current.String())
		}
	}

	return lines
}
