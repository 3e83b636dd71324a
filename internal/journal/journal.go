// SPDX-License-Identifier: MIT

// Package journal keeps an append-only record of phase-entry
// notifications in SQLite, so operators can inspect the delivery history
// behind the accumulated counts.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go driver
)

// Entry is one recorded phase-entry notification.
type Entry struct {
	Seq        int64     `json:"seq"`
	Phase      string    `json:"phase"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Journal appends and queries phase-entry records.
type Journal struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS phase_entries (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	phase       TEXT    NOT NULL,
	recorded_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_phase_entries_phase ON phase_entries(phase);
`

// Open initialises the journal database with WAL mode and busy_timeout
// applied to every pooled connection via DSN pragmas.
func Open(ctx context.Context, path string) (*Journal, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open failed: %w", err)
	}
	// Single writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: ping failed: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Append records one phase entry with the current timestamp.
func (j *Journal) Append(ctx context.Context, phase string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO phase_entries (phase, recorded_at) VALUES (?, ?)`,
		phase, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first, capped at limit.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT seq, phase, recorded_at FROM phase_entries ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.Seq, &e.Phase, &ts); err != nil {
			return nil, fmt.Errorf("journal: scan row: %w", err)
		}
		if parsed, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			e.RecordedAt = parsed
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate rows: %w", err)
	}
	return out, nil
}

// Len returns the total number of recorded entries.
func (j *Journal) Len(ctx context.Context) (int64, error) {
	var n int64
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM phase_entries`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("journal: count: %w", err)
	}
	return n, nil
}

// Reset removes all recorded entries. Mirrors the counter reset surface.
func (j *Journal) Reset(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, `DELETE FROM phase_entries`); err != nil {
		return fmt.Errorf("journal: reset: %w", err)
	}
	return nil
}

// Ping reports whether the underlying database is reachable.
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Close closes the underlying database.
func (j *Journal) Close() error { return j.db.Close() }
