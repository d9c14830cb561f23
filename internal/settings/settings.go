// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"strings"
	"unicode"
)

// Bounds and defaults for the wrap length.
const (
	MinLength     = 20
	MaxLength     = 200
	DefaultLength = 100
)

// Settings are the user's display preferences.
type Settings struct {
	WordWrapEnabled bool `json:"word_wrap_enabled"`
	WordWrapLength  int  `json:"word_wrap_length" validate:"min=20,max=200"`
}

// Default returns wrap enabled at 100 columns.
func Default() Settings {
	return Settings{WordWrapEnabled: true, WordWrapLength: DefaultLength}
}

// Normalize returns s with the wrap length clamped into range.
func (s Settings) Normalize() Settings {
	s.WordWrapLength = Clamp(s.WordWrapLength)
	return s
}

// Clamp bounds n to [MinLength, MaxLength].
func Clamp(n int) int {
	switch {
	case n < MinLength:
		return MinLength
	case n > MaxLength:
		return MaxLength
	}
	return n
}

// ValidateLength reads a wrap length from free text. Only the leading integer
// counts: surrounding whitespace and a sign are accepted, anything after the
// digits is ignored. Text with no leading integer yields MinLength.
func ValidateLength(input string) int {
	n, ok := parseLeadingInt(input)
	if !ok {
		return MinLength
	}
	return Clamp(n)
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
		// Saturate instead of overflowing; anything this large clamps anyway.
		if n <= MaxLength {
			n = n*10 + int(r-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
