package draft

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/app"
	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore persists drafts in a local SQLite database, for hosts
// that already carry one. Same contract as FileStore, including the
// corruption-reads-as-absent rule.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path and applies
// the schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open draft database: %w", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore wraps an existing database handle and applies the
// schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("apply draft schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, key draft.Key) (*draft.Record, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT fields, saved_at, version, revision FROM drafts WHERE key = ?", key.String())

	var fieldsJSON string
	rec := &draft.Record{}
	err := row.Scan(&fieldsJSON, &rec.SavedAt, &rec.Version, &rec.Revision)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read draft %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		app.GetLogger().Warn("Dropping corrupted draft %s: %v", key, err)
		return nil, ErrNotFound
	}
	if err := rec.Validate(); err != nil {
		app.GetLogger().Warn("Dropping invalid draft %s: %v", key, err)
		return nil, ErrNotFound
	}
	return rec, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, key draft.Key, rec *draft.Record) error {
	if key.IsZero() {
		return fmt.Errorf("put draft: empty key")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("put draft %s: %w", key, err)
	}

	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("marshal draft %s fields: %w", key, err)
	}

	query := `
		INSERT INTO drafts (key, fields, saved_at, version, revision)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			fields = excluded.fields,
			saved_at = excluded.saved_at,
			version = excluded.version,
			revision = excluded.revision
	`
	if _, err := s.db.ExecContext(ctx, query,
		key.String(), string(fieldsJSON), rec.SavedAt.UTC(), rec.Version, rec.Revision); err != nil {
		return fmt.Errorf("write draft %s: %w", key, err)
	}
	return nil
}

// Remove implements Store.
func (s *SQLiteStore) Remove(ctx context.Context, key draft.Key) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE key = ?", key.String()); err != nil {
		return fmt.Errorf("remove draft %s: %w", key, err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key, fields, saved_at, version, revision FROM drafts ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var keyStr, fieldsJSON string
		rec := &draft.Record{}
		if err := rows.Scan(&keyStr, &fieldsJSON, &rec.SavedAt, &rec.Version, &rec.Revision); err != nil {
			return nil, fmt.Errorf("scan draft row: %w", err)
		}
		key, err := draft.ParseKey(keyStr)
		if err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
			app.GetLogger().Warn("Skipping corrupted draft %s: %v", key, err)
			continue
		}
		if err := rec.Validate(); err != nil {
			continue
		}
		entries = append(entries, Entry{Key: key, Record: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return entries, nil
}

// PurgeOlderThan implements Store.
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE saved_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	return int(n), nil
}
