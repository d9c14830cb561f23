// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/jeranaias/muddy-tui/internal/events"
)

var (
	// ErrAlreadySubscribed is returned by a second Subscribe call.
	ErrAlreadySubscribed = errors.New("aggregator already subscribed")

	// ErrClosed is returned by Subscribe after Close.
	ErrClosed = errors.New("aggregator closed")
)

// Source is a push channel the aggregator can listen on. *events.Bus
// satisfies it.
type Source interface {
	Listen(channel string, handler events.Handler) (events.Unlisten, error)
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCapacity bounds the log to n messages, evicting the oldest on
// overflow. n <= 0 leaves the log unbounded.
func WithCapacity(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.capacity = n
		}
	}
}

// WithClock overrides the wall clock used for ReceivedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// Aggregator owns the ordered message log for one session.
type Aggregator struct {
	mu sync.Mutex

	// Ring storage. When capacity is 0 the slice just grows.
	items    []Message
	start    int
	count    int
	capacity int
	evicted  int

	seq int64
	now func() time.Time

	unlisten   events.Unlisten
	subscribed bool
	closed     bool

	onAppend func(Message)
}

// New creates an empty, unsubscribed aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	if a.capacity > 0 {
		a.items = make([]Message, a.capacity)
	}
	return a
}

// OnAppend registers fn to be called after every append, outside the lock.
// Only the last registered function is kept.
func (a *Aggregator) OnAppend(fn func(Message)) {
	a.mu.Lock()
	a.onAppend = fn
	a.mu.Unlock()
}

// Subscribe starts listening on the stream-message channel of src. A failure
// to listen is returned to the caller; there is no retry.
func (a *Aggregator) Subscribe(src Source) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.subscribed {
		a.mu.Unlock()
		return ErrAlreadySubscribed
	}
	// Reserve before listening so concurrent subscribers can't both listen.
	a.subscribed = true
	a.mu.Unlock()

	unlisten, err := src.Listen(events.StreamMessage, a.handle)
	if err != nil {
		a.mu.Lock()
		a.subscribed = false
		a.mu.Unlock()
		return fmt.Errorf("subscribe to %s: %w", events.StreamMessage, err)
	}

	a.mu.Lock()
	if a.closed {
		// Closed while Listen was in progress.
		a.mu.Unlock()
		unlisten()
		return ErrClosed
	}
	a.unlisten = unlisten
	a.mu.Unlock()
	return nil
}

func (a *Aggregator) handle(e events.Event) {
	a.Append(e.Text())
}

// Append adds text to the log as if it had arrived on the channel. It
// returns false once the aggregator is closed.
func (a *Aggregator) Append(text string) bool {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return false
	}

	a.seq++
	msg := Message{Text: text, Timestamp: a.seq, ReceivedAt: a.now()}
	a.push(msg)
	notify := a.onAppend
	a.mu.Unlock()

	if notify != nil {
		notify(msg)
	}
	return true
}

// push must be called with mu held.
func (a *Aggregator) push(msg Message) {
	if a.capacity == 0 {
		a.items = append(a.items, msg)
		a.count++
		return
	}

	if a.count < a.capacity {
		a.items[(a.start+a.count)%a.capacity] = msg
		a.count++
		return
	}

	// Full: overwrite the oldest slot.
	a.items[a.start] = msg
	a.start = (a.start + 1) % a.capacity
	a.evicted++
}

// Messages returns a copy of the log, oldest first.
func (a *Aggregator) Messages() []Message {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.capacity == 0 {
		out := make([]Message, a.count)
		copy(out, a.items)
		return out
	}
	return lo.Times(a.count, func(i int) Message {
		return a.items[(a.start+i)%a.capacity]
	})
}

// Len returns the number of messages currently held.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// Evicted returns how many messages were dropped by the capacity bound.
func (a *Aggregator) Evicted() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.evicted
}

// Capacity returns the log bound, 0 when unbounded.
func (a *Aggregator) Capacity() int {
	return a.capacity
}

// Close unsubscribes from the channel. No message is appended after Close
// returns, including events already being delivered on another goroutine.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	unlisten := a.unlisten
	a.unlisten = nil
	a.mu.Unlock()

	if unlisten != nil {
		unlisten()
	}
}
