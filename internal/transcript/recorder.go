// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jeranaias/muddy-tui/internal/events"
)

// ErrRecorderStarted is returned by a second Start.
var ErrRecorderStarted = errors.New("recorder already started")

// Source is where stream messages come from. *events.Bus satisfies it.
type Source interface {
	Listen(channel string, handler events.Handler) (events.Unlisten, error)
}

const recordBuffer = 256

// Recorder copies every stream message into a Store. Writes happen on a
// background goroutine in arrival order.
type Recorder struct {
	store  *Store
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	started  bool
	closed   bool
	session  Session
	seq      int64
	unlisten events.Unlisten
	queue    chan Entry
	done     chan struct{}
}

// NewRecorder creates a recorder for store. A nil logger discards output.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// Start opens a session and subscribes to stream messages.
func (r *Recorder) Start(ctx context.Context, src Source) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return Session{}, ErrRecorderStarted
	}

	sess, err := r.store.BeginSession(ctx, r.now())
	if err != nil {
		return Session{}, err
	}

	r.queue = make(chan Entry, recordBuffer)
	r.done = make(chan struct{})

	unlisten, err := src.Listen(events.StreamMessage, r.handle)
	if err != nil {
		return Session{}, fmt.Errorf("failed to subscribe recorder: %w", err)
	}

	r.started = true
	r.session = sess
	r.unlisten = unlisten
	go r.drain(sess.ID)

	r.logger.Info("transcript session started", "session", sess.ID, "db", r.store.Path())
	return sess, nil
}

// Session is the active session, zero before Start.
func (r *Recorder) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

func (r *Recorder) handle(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.seq++
	r.queue <- Entry{Seq: r.seq, Text: e.Text(), ReceivedAt: r.now()}
}

func (r *Recorder) drain(sessionID string) {
	defer close(r.done)
	for entry := range r.queue {
		if err := r.store.Record(context.Background(), sessionID, entry); err != nil {
			r.logger.Warn("failed to record transcript entry", "seq", entry.Seq, "error", err)
		}
	}
}

// Close unsubscribes and waits for queued entries to be written.
func (r *Recorder) Close() {
	r.mu.Lock()
	if !r.started || r.closed {
		r.closed = true
		r.mu.Unlock()
		return
	}
	r.closed = true
	unlisten := r.unlisten
	close(r.queue)
	r.mu.Unlock()

	unlisten()
	<-r.done
}
