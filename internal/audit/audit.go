// Package audit persists a local, non-consensus-critical trail of
// processed transactions, kept entirely separate from app_state.json so
// that audit-trail failures can never affect ledger determinism or
// app_hash.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Record is one row of the audit trail.
type Record struct {
	TrailID   string
	Timestamp time.Time
	TxKind    string
	UID       string
	Accepted  bool
	Log       string
	Height    int64
}

// Store wraps a SQLite-backed audit trail database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_records (
	trail_id   TEXT PRIMARY KEY,
	timestamp  TEXT NOT NULL,
	tx_kind    TEXT NOT NULL,
	uid        TEXT,
	accepted   INTEGER NOT NULL,
	log        TEXT NOT NULL,
	height     INTEGER NOT NULL
);`

// Open opens (creating if necessary) the SQLite database at path and
// ensures the audit_records table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("audit: opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append inserts one audit record. Audit writes are best-effort: callers
// log but do not abort processing on a returned error.
func (s *Store) Append(ctx context.Context, r Record) error {
	var uid sql.NullString
	if r.UID != "" {
		uid = sql.NullString{String: r.UID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_records (trail_id, timestamp, tx_kind, uid, accepted, log, height)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.TrailID, r.Timestamp.UTC().Format(time.RFC3339Nano), r.TxKind, uid, r.Accepted, r.Log, r.Height)
	if err != nil {
		return fmt.Errorf("audit: inserting record: %w", err)
	}
	return nil
}

// RecordsForHeight returns every audit record written for a given block
// height, ordered by insertion, for operator inspection.
func (s *Store) RecordsForHeight(ctx context.Context, height int64) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT trail_id, timestamp, tx_kind, uid, accepted, log, height
		 FROM audit_records WHERE height = ? ORDER BY rowid`, height)
	if err != nil {
		return nil, fmt.Errorf("audit: querying records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r        Record
			ts       string
			uid      sql.NullString
			accepted int
		)
		if err := rows.Scan(&r.TrailID, &ts, &r.TxKind, &uid, &accepted, &r.Log, &r.Height); err != nil {
			return nil, fmt.Errorf("audit: scanning record: %w", err)
		}
		r.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("audit: parsing timestamp: %w", err)
		}
		r.UID = uid.String
		r.Accepted = accepted != 0
		records = append(records, r)
	}
	return records, rows.Err()
}
