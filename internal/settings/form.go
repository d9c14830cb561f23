// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import "strconv"

// Form is the editable state behind the settings dialog. The length field is
// free text while focused and is normalized on blur and on commit.
type Form struct {
	loaded     Settings
	wrap       bool
	lengthText string
	length     int
}

// NewForm returns a form loaded with s.
func NewForm(s Settings) *Form {
	f := &Form{}
	f.Load(s)
	return f
}

// Load replaces the form contents and remembers s for Cancel.
func (f *Form) Load(s Settings) {
	s = s.Normalize()
	f.loaded = s
	f.wrap = s.WordWrapEnabled
	f.length = s.WordWrapLength
	f.lengthText = strconv.Itoa(s.WordWrapLength)
}

// Loaded returns the settings last passed to Load.
func (f *Form) Loaded() Settings { return f.loaded }

// WrapEnabled reports the current checkbox state.
func (f *Form) WrapEnabled() bool { return f.wrap }

// ToggleWrap flips the checkbox.
func (f *Form) ToggleWrap() { f.wrap = !f.wrap }

// LengthText is the raw text of the length field.
func (f *Form) LengthText() string { return f.lengthText }

// SetLengthText updates the raw field text without validating it.
func (f *Form) SetLengthText(text string) { f.lengthText = text }

// Length is the last normalized length.
func (f *Form) Length() int { return f.length }

// Blur normalizes the length field, rewriting its text.
func (f *Form) Blur() {
	f.length = ValidateLength(f.lengthText)
	f.lengthText = strconv.Itoa(f.length)
}

// Commit validates the length field and returns the settings to persist.
func (f *Form) Commit() Settings {
	f.Blur()
	return Settings{WordWrapEnabled: f.wrap, WordWrapLength: f.length}
}

// Cancel discards edits and returns the last loaded settings.
func (f *Form) Cancel() Settings {
	f.Load(f.loaded)
	return f.loaded
}
