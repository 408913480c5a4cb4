package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/app"
	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
	"github.com/Service202508/BattwheelsGarages-sub001/internal/infra/persistence/file"
)

const draftFileExt = ".json"

// FileStore persists one JSON file per draft key under a root
// directory. Writes are atomic; a torn write never yields a
// half-readable draft.
type FileStore struct {
	fs   afero.Fs
	root string
}

// NewFileStore creates a file-backed draft store rooted at dir.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	return &FileStore{fs: fs, root: dir}
}

func (s *FileStore) path(key draft.Key) string {
	return filepath.Join(s.root, key.String()+draftFileExt)
}

// Get implements Store. Unreadable or invalid records are logged and
// reported as absent.
func (s *FileStore) Get(ctx context.Context, key draft.Key) (*draft.Record, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read draft %s: %w", key, err)
	}

	var rec draft.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		app.GetLogger().Warn("Dropping corrupted draft %s: %v", key, err)
		return nil, ErrNotFound
	}
	if err := rec.Validate(); err != nil {
		app.GetLogger().Warn("Dropping invalid draft %s: %v", key, err)
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Put implements Store.
func (s *FileStore) Put(ctx context.Context, key draft.Key, rec *draft.Record) error {
	if key.IsZero() {
		return fmt.Errorf("put draft: empty key")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("put draft %s: %w", key, err)
	}
	if err := file.WriteJSONAtomic(s.fs, s.path(key), rec); err != nil {
		return fmt.Errorf("write draft %s: %w", key, err)
	}
	return nil
}

// Remove implements Store. Removing a missing draft is a no-op.
func (s *FileStore) Remove(ctx context.Context, key draft.Key) error {
	if err := s.fs.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove draft %s: %w", key, err)
	}
	return nil
}

// List implements Store. Files that do not parse as drafts are
// skipped, not surfaced.
func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	infos, err := afero.ReadDir(s.fs, s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	var entries []Entry
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), draftFileExt) {
			continue
		}
		key, err := draft.ParseKey(strings.TrimSuffix(info.Name(), draftFileExt))
		if err != nil {
			continue
		}
		rec, err := s.Get(ctx, key)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Key: key, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.String() < entries[j].Key.String()
	})
	return entries, nil
}

// PurgeOlderThan implements Store.
func (s *FileStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	purged := 0
	for _, e := range entries {
		if e.Record.SavedAt.Before(cutoff) {
			if err := s.Remove(ctx, e.Key); err != nil {
				return purged, err
			}
			purged++
		}
	}
	return purged, nil
}
