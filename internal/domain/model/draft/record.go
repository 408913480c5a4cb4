package draft

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// CurrentRecordVersion is the format marker written into every record
// so a future reader can detect drafts written by an older build.
const CurrentRecordVersion = 1

// Record is the persisted unit of one draft: the serialized field
// values, when they were last written, a format version, and a ULID
// revision so last-write-wins is observable.
type Record struct {
	Fields   FieldMap  `json:"fields"`
	SavedAt  time.Time `json:"savedAt"`
	Version  int       `json:"version"`
	Revision string    `json:"revision,omitempty"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRevision generates a monotonic ULID revision marker.
func NewRevision() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewRecord snapshots the given fields into a record stamped with the
// current time and a fresh revision. The fields are deep-copied.
func NewRecord(fields FieldMap) *Record {
	return &Record{
		Fields:   fields.Clone(),
		SavedAt:  time.Now().UTC(),
		Version:  CurrentRecordVersion,
		Revision: NewRevision(),
	}
}

// Validate reports whether a record read back from storage is usable.
// Callers treat invalid records the same as absent ones.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("nil record")
	}
	if r.Fields == nil {
		return fmt.Errorf("record has no fields")
	}
	if r.Version > CurrentRecordVersion {
		return fmt.Errorf("record version %d is newer than supported %d", r.Version, CurrentRecordVersion)
	}
	if r.SavedAt.IsZero() {
		return fmt.Errorf("record has no savedAt timestamp")
	}
	return nil
}

// Age returns how long ago the record was written.
func (r *Record) Age(now time.Time) time.Duration {
	return now.Sub(r.SavedAt)
}
