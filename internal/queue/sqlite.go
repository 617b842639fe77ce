// Package queue is a local SQLite holding pen for ingestion requests
// captured while offline or imported in bulk, drained into the pipeline
// by the batch command.
package queue

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/verdant-labs/flora-cli/internal/model"
)

// Queue is a SQLite-backed request queue.
type Queue struct {
	db *sql.DB
}

// Open opens (or creates) the queue database at path and configures WAL
// mode.
func Open(path string) (*Queue, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "queue: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "queue: exec %s", pragma)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS requests (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		requester  TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "queue: migrate")
	}

	return &Queue{db: db}, nil
}

// Add enqueues a request. A zero ID is filled with a fresh UUID.
func (q *Queue) Add(ctx context.Context, r model.Request) (model.Request, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO requests (id, name, requester, created_at) VALUES (?, ?, ?, ?)`,
		r.ID, r.Name, r.Requester, r.CreatedAt,
	)
	if err != nil {
		return model.Request{}, eris.Wrap(err, "queue: add request")
	}
	return r, nil
}

// List returns up to limit pending requests, oldest first.
func (q *Queue) List(ctx context.Context, limit int) ([]model.Request, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, requester, created_at FROM requests ORDER BY created_at ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "queue: list requests")
	}
	defer rows.Close()

	var out []model.Request
	for rows.Next() {
		var r model.Request
		if err := rows.Scan(&r.ID, &r.Name, &r.Requester, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "queue: scan request")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "queue: list iterate")
}

// Remove deletes a request by ID.
func (q *Queue) Remove(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	return eris.Wrapf(err, "queue: remove request %s", id)
}

// Close closes the underlying database.
func (q *Queue) Close() error {
	return eris.Wrap(q.db.Close(), "queue: close")
}
