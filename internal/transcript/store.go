// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	// ErrNoPath is returned when no database path is configured.
	ErrNoPath = errors.New("transcript database path is empty")

	// ErrUnknownSession is returned for a session ID not in the archive.
	ErrUnknownSession = errors.New("unknown session")
)

// Session summarizes one play session.
type Session struct {
	ID           string
	StartedAt    time.Time
	MessageCount int
}

// Entry is one archived message.
type Entry struct {
	Seq        int64
	Text       string
	ReceivedAt time.Time
}

// Store is the SQLite-backed archive.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the archive at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES ('schema_version', ?)",
		strconv.Itoa(SchemaVersion),
	)
	return err
}

// Path is the database file.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginSession creates a new session with a random ID.
func (s *Store) BeginSession(ctx context.Context, startedAt time.Time) (Session, error) {
	sess := Session{ID: uuid.NewString(), StartedAt: startedAt}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, started_at) VALUES (?, ?)",
		sess.ID, startedAt.UnixMilli(),
	); err != nil {
		return Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Record appends one message to a session.
func (s *Store) Record(ctx context.Context, sessionID string, e Entry) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO messages (session_id, seq, text, received_at) VALUES (?, ?, ?, ?)",
		sessionID, e.Seq, e.Text, e.ReceivedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to record message: %w", err)
	}
	return nil
}

// Sessions lists sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.started_at, COUNT(m.id)
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		GROUP BY s.id, s.started_at
		ORDER BY s.started_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			sess    Session
			started int64
		)
		if err := rows.Scan(&sess.ID, &started, &sess.MessageCount); err != nil {
			return nil, err
		}
		sess.StartedAt = time.UnixMilli(started)
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Latest returns the most recent session.
func (s *Store) Latest(ctx context.Context) (Session, error) {
	sessions, err := s.Sessions(ctx)
	if err != nil {
		return Session{}, err
	}
	if len(sessions) == 0 {
		return Session{}, ErrUnknownSession
	}
	return sessions[0], nil
}

// Messages returns the last limit messages of a session in arrival order.
// limit <= 0 returns all of them.
func (s *Store) Messages(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE id = ?", sessionID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, text, received_at FROM (
			SELECT seq, text, received_at FROM messages
			WHERE session_id = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			at int64
		)
		if err := rows.Scan(&e.Seq, &e.Text, &at); err != nil {
			return nil, err
		}
		e.ReceivedAt = time.UnixMilli(at)
		out = append(out, e)
	}
	return out, rows.Err()
}
