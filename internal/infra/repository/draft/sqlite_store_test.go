package draft_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
	store "github.com/Service202508/BattwheelsGarages-sub001/internal/infra/repository/draft"
)

func setupSQLiteStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_PutGetRemove(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()
	key := mustEntityKey(t, "contact", "")

	_, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec := draft.NewRecord(draft.FieldMap{"name": "Acme Ltd", "phone": "0123"})
	require.NoError(t, s.Put(ctx, key, rec))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.Fields["name"])
	assert.Equal(t, rec.Revision, got.Revision)
	assert.WithinDuration(t, rec.SavedAt, got.SavedAt, time.Second)

	// Upsert semantics: the slot is overwritten, not duplicated.
	rec2 := draft.NewRecord(draft.FieldMap{"name": "Acme GmbH"})
	require.NoError(t, s.Put(ctx, key, rec2))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Acme GmbH", entries[0].Record.Fields["name"])

	require.NoError(t, s.Remove(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, s.Remove(ctx, key))
}

func TestSQLiteStore_CorruptedFieldsReadAsAbsent(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	s, err := store.NewSQLiteStore(db)
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = db.Exec(
		"INSERT INTO drafts (key, fields, saved_at, version, revision) VALUES (?, ?, ?, ?, ?)",
		"contact_9", "{torn", time.Now().UTC(), 1, "rev")
	require.NoError(t, err)

	key := mustEntityKey(t, "contact", "9")
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// List skips the damaged row instead of failing.
	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSQLiteStore_PurgeOlderThan(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	old := draft.NewRecord(draft.FieldMap{"name": "stale"})
	old.SavedAt = time.Now().UTC().Add(-30 * 24 * time.Hour)
	fresh := draft.NewRecord(draft.FieldMap{"name": "recent"})

	require.NoError(t, s.Put(ctx, mustEntityKey(t, "contact", "1"), old))
	require.NoError(t, s.Put(ctx, mustEntityKey(t, "contact", "2"), fresh))

	purged, err := s.PurgeOlderThan(ctx, time.Now().UTC().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "contact_2", entries[0].Key.String())
}
