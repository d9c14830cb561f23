// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jeranaias/muddy-tui/internal/util"
)

var validate = validator.New()

// Store persists Settings as a JSON file.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	current Settings
	loaded  bool
}

// NewStore creates a store backed by path. A nil logger discards output.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load reads the settings file. A missing or unreadable file yields the
// defaults; stored values outside the allowed range are clamped.
func (s *Store) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.read()
	s.loaded = true
	return s.current
}

// Current returns the cached settings, loading them on first use.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.current = s.read()
		s.loaded = true
	}
	return s.current
}

// Save normalizes and writes settings, returning what was stored.
func (s *Store) Save(in Settings) (Settings, error) {
	in = in.Normalize()

	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return s.Current(), fmt.Errorf("failed to encode settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path != "" {
		if err := util.AtomicWriteFile(s.path, data, 0644); err != nil {
			return s.current, fmt.Errorf("failed to save settings: %w", err)
		}
	}
	s.current = in
	s.loaded = true
	return in, nil
}

func (s *Store) read() Settings {
	if s.path == "" {
		return Default()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to read settings, using defaults", "path", s.path, "error", err)
		}
		return Default()
	}

	out := Default()
	if err := json.Unmarshal(data, &out); err != nil {
		s.logger.Warn("corrupt settings file, using defaults", "path", s.path, "error", err)
		return Default()
	}

	if err := validate.Struct(out); err != nil {
		s.logger.Warn("stored settings out of range, clamping", "path", s.path, "error", err)
		out = out.Normalize()
	}
	return out
}
