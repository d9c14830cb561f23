// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package events

import (
	"errors"
	"sync"
)

// Channel names shared with the world engine.
const (
	StreamMessage = "stream-message"
	MinimapUpdate = "minimap-update"
	ToggleMinimap = "toggle-minimap"
	OpenSettings  = "open-settings"
)

var (
	// ErrClosed is returned by Listen and Emit once the bus is closed.
	ErrClosed = errors.New("event bus closed")

	// ErrEmptyChannel is returned when a channel name is empty.
	ErrEmptyChannel = errors.New("channel name must not be empty")
)

// Event is one delivery on a named channel.
type Event struct {
	Channel string
	Payload any
}

// Text returns the payload as a string, or "" for non-text payloads.
func (e Event) Text() string {
	s, _ := e.Payload.(string)
	return s
}

// Handler receives events. Handlers run on the emitter's goroutine and must
// not block for long. A handler must not Emit on the bus that called it.
type Handler func(Event)

// Unlisten removes a listener. It is safe to call more than once.
type Unlisten func()

type listener struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous fan-out bus. Emits are serialized so every listener
// observes events in the same order.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]listener
	nextID    uint64
	closed    bool

	// emitMu serializes delivery across concurrent emitters.
	emitMu sync.Mutex
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]listener),
	}
}

// Listen registers handler on channel.
func (b *Bus) Listen(channel string, handler Handler) (Unlisten, error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}
	if handler == nil {
		return nil, errors.New("handler must not be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	b.nextID++
	id := b.nextID
	b.listeners[channel] = append(b.listeners[channel], listener{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(channel, id) })
	}, nil
}

func (b *Bus) remove(channel string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.listeners[channel]
	kept := make([]listener, 0, len(current))
	for _, l := range current {
		if l.id != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		delete(b.listeners, channel)
		return
	}
	b.listeners[channel] = kept
}

// Emit delivers payload to every listener of channel, in registration order.
// Emitting on a channel with no listeners is not an error.
func (b *Bus) Emit(channel string, payload any) error {
	if channel == "" {
		return ErrEmptyChannel
	}

	b.emitMu.Lock()
	defer b.emitMu.Unlock()

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrClosed
	}
	// Copy so handlers may Listen/Unlisten without deadlocking.
	targets := append([]listener(nil), b.listeners[channel]...)
	b.mu.RUnlock()

	event := Event{Channel: channel, Payload: payload}
	for _, l := range targets {
		l.handler(event)
	}
	return nil
}

// ListenerCount returns the number of listeners on channel.
func (b *Bus) ListenerCount(channel string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[channel])
}

// Close drops all listeners and rejects further Listen and Emit calls.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.listeners = make(map[string][]listener)
}
