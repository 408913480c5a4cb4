// Package draft provides the durable storage layer for form drafts:
// a keyed best-effort store with file- and SQLite-backed
// implementations. Absence and corruption are indistinguishable to
// callers; both read as ErrNotFound so a damaged draft can never
// crash a form.
package draft

import (
	"context"
	"errors"
	"time"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
)

// ErrNotFound is returned by Get when no usable draft exists under a
// key.
var ErrNotFound = errors.New("draft not found")

// Entry pairs a key with its stored record, for listings.
type Entry struct {
	Key    draft.Key
	Record *draft.Record
}

// Store is the draft persistence contract. Implementations must be
// safe for concurrent use; the engine may call Put from a timer
// goroutine while the UI goroutine calls Get or Remove.
type Store interface {
	// Get returns the record stored under key, or ErrNotFound when
	// the slot is empty or its content is unreadable.
	Get(ctx context.Context, key draft.Key) (*draft.Record, error)

	// Put overwrites the slot under key with rec.
	Put(ctx context.Context, key draft.Key, rec *draft.Record) error

	// Remove clears the slot under key. Removing an empty slot is
	// not an error.
	Remove(ctx context.Context, key draft.Key) error

	// List returns all stored drafts, skipping unreadable ones.
	List(ctx context.Context) ([]Entry, error)

	// PurgeOlderThan removes every draft saved before cutoff and
	// returns how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
