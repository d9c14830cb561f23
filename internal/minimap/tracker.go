// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package minimap

import (
	"context"
	"sync"
)

// Source supplies full minimap snapshots.
type Source interface {
	GetMinimap(ctx context.Context) ([]Node, error)
}

// Ticket identifies one fetch. Only the newest ticket is accepted.
type Ticket uint64

// Result is the outcome of one fetch.
type Result struct {
	Ticket Ticket
	Nodes  []Node
	Err    error
}

// Fetch asks src for a snapshot on behalf of ticket.
func Fetch(ctx context.Context, src Source, ticket Ticket) Result {
	nodes, err := src.GetMinimap(ctx)
	return Result{Ticket: ticket, Nodes: nodes, Err: err}
}

// Tracker gates fetches behind the enabled toggle and discards stale results.
type Tracker struct {
	mu      sync.Mutex
	enabled bool
	gen     uint64
}

// NewTracker creates a tracker in the given state.
func NewTracker(enabled bool) *Tracker {
	return &Tracker{enabled: enabled}
}

// Enabled reports whether the minimap is on.
func (t *Tracker) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// SetEnabled switches the minimap on or off. It returns true when the minimap
// was just turned on, meaning a fresh fetch is due. Turning it off
// invalidates every outstanding ticket.
func (t *Tracker) SetEnabled(on bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if on == t.enabled {
		return false
	}
	t.enabled = on
	if !on {
		t.gen++
		return false
	}
	return true
}

// Toggle flips the state and returns the new one.
func (t *Tracker) Toggle() bool {
	t.mu.Lock()
	on := !t.enabled
	t.mu.Unlock()

	t.SetEnabled(on)
	return on
}

// Begin starts a fetch. It returns false while the minimap is disabled.
func (t *Tracker) Begin() (Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.enabled {
		return 0, false
	}
	t.gen++
	return Ticket(t.gen), true
}

// Accept reports whether a result for ticket may be applied: the minimap is
// still enabled and no newer fetch has been started since.
func (t *Tracker) Accept(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled && uint64(ticket) == t.gen
}
