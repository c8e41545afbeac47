// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot persists the last pulled record set in a local SQLite
// file. It is the fallback source when Google Sheets is unreachable at
// startup. The serving path only reads the snapshot; writes happen through
// the kb pull command.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/support-engine/pkg/types"
)

// ErrNoSnapshot reports that the snapshot database holds no record set.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Store reads and writes the snapshot database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the snapshot database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			taken_at TEXT NOT NULL,
			source_url TEXT,
			record_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			position INTEGER PRIMARY KEY,
			fields TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save replaces the stored record set in one transaction. Field order and
// duplicate headers survive the round trip: each row is stored as a JSON
// array of name/value pairs.
func (s *Store) Save(ctx context.Context, records []types.Record, sourceURL string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing old records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (position, fields) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		encoded, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("encoding record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, i, string(encoded)); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (id, taken_at, source_url, record_count) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			taken_at=excluded.taken_at, source_url=excluded.source_url,
			record_count=excluded.record_count`,
		time.Now().UTC().Format(time.RFC3339), sourceURL, len(records),
	)
	if err != nil {
		return fmt.Errorf("updating snapshot meta: %w", err)
	}

	return tx.Commit()
}

// Load returns the stored record set in saved order, or ErrNoSnapshot when
// nothing has been saved yet.
func (s *Store) Load(ctx context.Context) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT fields FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		var fields []types.Field
		if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
			return nil, fmt.Errorf("decoding record: %w", err)
		}
		records = append(records, types.Record{Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	if len(records) == 0 {
		return nil, ErrNoSnapshot
	}
	return records, nil
}

// Name identifies the snapshot in logs and fetch errors.
func (s *Store) Name() string {
	return "local snapshot (" + s.path + ")"
}

// Fetch returns the stored record set. It satisfies the record source
// interface of the kb store, which uses the snapshot as its startup
// fallback.
func (s *Store) Fetch(ctx context.Context) ([]types.Record, error) {
	return s.Load(ctx)
}

// Info describes a stored snapshot.
type Info struct {
	// TakenAt is when the snapshot was written.
	TakenAt time.Time

	// SourceURL is the sheet URL the snapshot was pulled from.
	SourceURL string

	// RecordCount is the number of stored records.
	RecordCount int
}

// Meta returns the stored snapshot's metadata, or ErrNoSnapshot.
func (s *Store) Meta(ctx context.Context) (Info, error) {
	var takenAt, sourceURL string
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT taken_at, source_url, record_count FROM snapshot_meta WHERE id = 1`,
	).Scan(&takenAt, &sourceURL, &count)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, ErrNoSnapshot
	}
	if err != nil {
		return Info{}, fmt.Errorf("querying snapshot meta: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, takenAt)
	if err != nil {
		return Info{}, fmt.Errorf("parsing snapshot timestamp: %w", err)
	}
	return Info{TakenAt: ts, SourceURL: sourceURL, RecordCount: count}, nil
}
