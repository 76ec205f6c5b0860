// Package history persists completed connection attempts to a local
// SQLite database so past streams can be listed, replayed, and
// exported after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/papercomputeco/strobe/pkg/stream"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	started_at TIMESTAMP NOT NULL,
	url        TEXT NOT NULL,
	method     TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	events     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq        INTEGER NOT NULL,
	time       TIMESTAMP NOT NULL,
	category   TEXT NOT NULL,
	raw        TEXT NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS events_session ON events(session_id, seq);
`

// Session is one recorded connection attempt.
type Session struct {
	ID        string
	StartedAt time.Time
	URL       string
	Method    string
	Outcome   string
	Events    int
}

// EventRow is one recorded event within a session.
type EventRow struct {
	Seq      int64
	Time     time.Time
	Category stream.Category
	Raw      string
}

// Store is a SQLite-backed session archive.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive at dbPath. The path can
// be ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// RecordSession stores one finished attempt and its full event log in a
// single transaction. Returns the new session's id.
func (s *Store) RecordSession(ctx context.Context, cfg stream.Config, outcome string, events []stream.Event) (string, error) {
	method := cfg.Method
	if method == "" {
		method = "GET"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	started := time.Now()
	if len(events) > 0 {
		started = events[0].Timestamp
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, url, method, outcome, events) VALUES (?, ?, ?, ?, ?, ?)`,
		id, started, cfg.URL, method, outcome, len(events),
	); err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	for _, ev := range events {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (session_id, seq, time, category, raw) VALUES (?, ?, ?, ?, ?)`,
			id, ev.ID, ev.Timestamp, string(ev.Category), ev.Raw,
		); err != nil {
			return "", fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit session: %w", err)
	}

	return id, nil
}

// ListSessions returns recorded sessions, newest first. A limit of 0
// returns all of them.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	query := `SELECT id, started_at, url, method, outcome, events FROM sessions ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.StartedAt, &sess.URL, &sess.Method, &sess.Outcome, &sess.Events); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// GetSession returns one session by id, or ErrNotFound.
func (s *Store) GetSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, url, method, outcome, events FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.StartedAt, &sess.URL, &sess.Method, &sess.Outcome, &sess.Events)
	if err == sql.ErrNoRows {
		return Session{}, ErrNotFound{ID: id}
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to query session: %w", err)
	}

	return sess, nil
}

// SessionEvents returns a session's events in sequence order.
func (s *Store) SessionEvents(ctx context.Context, id string) ([]EventRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, time, category, raw FROM events WHERE session_id = ? ORDER BY seq ASC`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []EventRow
	for rows.Next() {
		var ev EventRow
		var category string
		if err := rows.Scan(&ev.Seq, &ev.Time, &category, &ev.Raw); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Category = stream.Category(category)
		events = append(events, ev)
	}

	return events, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
