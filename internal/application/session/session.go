// Package session implements the per-form draft persistence engine:
// debounced autosave into a draft store, recovery of abandoned edits,
// and a close-guard that vetoes closing a form with unsaved changes.
//
// One Session is bound to one open form instance. All persistence is
// best-effort: a failing store degrades the save indicator, never the
// form itself.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/app"
	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
	store "github.com/Service202508/BattwheelsGarages-sub001/internal/infra/repository/draft"
)

// DefaultDebounce is the quiet period between the last edit and the
// autosave write when Config.Debounce is zero.
const DefaultDebounce = 2 * time.Second

// Config is the per-form-instance configuration. It is programmatic;
// there is no file or environment lookup here.
type Config struct {
	// Key is the form's persistence slot.
	Key draft.Key

	// Enabled gates all storage access. A disabled session still
	// tracks dirtiness and vetoes closes, but never reads or writes
	// the store.
	Enabled bool

	// Debounce is the autosave quiet period. Zero means
	// DefaultDebounce.
	Debounce time.Duration

	// EntityName is the human-readable name used in UI copy, e.g.
	// "contact" or "clock-out entry".
	EntityName string
}

// Hooks are the callbacks a host form wires into the engine.
type Hooks struct {
	// Submit runs the host form's own submit operation. Required for
	// the close-guard's Save path.
	Submit func(ctx context.Context) error

	// Apply overwrites the host form's live state with restored
	// draft fields.
	Apply func(fields draft.FieldMap)

	// Reset returns the host form's live state to its pristine
	// initial value.
	Reset func()

	// OnChange, if set, is called with a state snapshot after an
	// asynchronous autosave completes. Host-driven operations do not
	// call it; their callers read State() directly.
	OnChange func(State)
}

// DraftInfo describes a stored draft offered for recovery.
type DraftInfo struct {
	SavedAt  time.Time
	Revision string
	Fields   draft.FieldMap
}

// State is a snapshot of the engine's observable state.
type State struct {
	IsDirty            bool
	IsSaving           bool
	LastSavedAt        time.Time
	LastSaveErr        error
	Phase              Phase
	ShowRecoveryBanner bool
	SavedDraftInfo     *DraftInfo
	ShowCloseConfirm   bool
	CloseErr           error
	EntityName         string
}

// Session binds the draft engine to one open form instance.
type Session struct {
	cfg   Config
	hooks Hooks
	store store.Store
	sched scheduler

	mu          sync.Mutex
	open        bool
	baseline    draft.FieldMap
	current     draft.FieldMap
	saving      bool
	lastSavedAt time.Time
	lastSaveErr error
	phase       Phase
	banner      bool
	draftInfo   *DraftInfo
	confirm     bool
	closeErr    error
}

// New creates a session. The store may be nil only when the session
// is disabled.
func New(s store.Store, cfg Config, hooks Hooks) (*Session, error) {
	if cfg.Enabled && cfg.Key.IsZero() {
		return nil, fmt.Errorf("session: enabled without a draft key")
	}
	if cfg.Enabled && s == nil {
		return nil, fmt.Errorf("session: enabled without a store")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Session{cfg: cfg, hooks: hooks, store: s, phase: PhaseIdle}, nil
}

// Open arms the engine for an opened form. initial is the form's
// pristine value and becomes the baseline. When a stored draft exists
// and differs materially from the baseline, the recovery banner is
// raised; the live form state is never touched here.
func (s *Session) Open(ctx context.Context, initial draft.FieldMap) {
	s.mu.Lock()
	s.open = true
	s.baseline = initial.Clone()
	s.current = initial.Clone()
	s.saving = false
	s.lastSaveErr = nil
	s.banner = false
	s.draftInfo = nil
	s.confirm = false
	s.closeErr = nil
	s.phase = PhaseNoDraft
	key := s.cfg.Key
	enabled := s.cfg.Enabled
	baseline := s.baseline
	s.mu.Unlock()

	if !enabled {
		return
	}

	rec, err := s.store.Get(ctx, key)
	if err != nil {
		// Absent and unreadable both mean a fresh form.
		return
	}

	if !draft.Dirty(rec.Fields, baseline) {
		// The draft carries nothing beyond the pristine value; drop
		// it so it cannot falsely trigger recovery later.
		if err := s.store.Remove(ctx, key); err != nil {
			app.GetLogger().Warn("Could not drop stale draft %s: %v", key, err)
		}
		return
	}

	s.mu.Lock()
	if s.open {
		s.phase = PhaseDraftFound
		s.banner = true
		s.draftInfo = &DraftInfo{
			SavedAt:  rec.SavedAt,
			Revision: rec.Revision,
			Fields:   rec.Fields.Clone(),
		}
	}
	s.mu.Unlock()
}

// Update feeds the engine the latest form snapshot. Dirtiness is
// recomputed from scratch, and a dirty snapshot (re)arms the single
// debounce slot. Only the newest snapshot is ever written.
func (s *Session) Update(fields draft.FieldMap) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	s.current = fields.Clone()
	dirty := draft.Dirty(s.current, s.baseline)
	enabled := s.cfg.Enabled
	debounce := s.cfg.Debounce
	if dirty && enabled {
		s.saving = true
	}
	if !dirty {
		s.saving = false
	}
	s.mu.Unlock()

	if !enabled {
		return
	}
	if dirty {
		s.sched.arm(debounce, s.flush)
	} else {
		// Nothing unsaved; a pending write of older state would only
		// persist data the user has since reverted.
		s.sched.cancel()
	}
}

// flush is the debounce timer callback. gen guards against a timer
// that was superseded after it fired.
func (s *Session) flush(gen uint64) {
	if !s.sched.current(gen) {
		return
	}

	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	key := s.cfg.Key
	rec := draft.NewRecord(s.current)
	s.mu.Unlock()

	err := s.store.Put(context.Background(), key, rec)

	s.mu.Lock()
	if s.open && s.sched.current(gen) {
		s.saving = false
		if err != nil {
			s.lastSaveErr = err
			app.GetLogger().Warn("Autosave of %s failed: %v", key, err)
		} else {
			s.lastSaveErr = nil
			s.lastSavedAt = rec.SavedAt
		}
	}
	st := s.stateLocked()
	s.mu.Unlock()

	if s.hooks.OnChange != nil {
		s.hooks.OnChange(st)
	}
}

// RestoreDraft applies the offered draft onto the live form state via
// Hooks.Apply. The baseline stays pristine, so the restored values
// read as dirty and will be saved or discarded eventually.
func (s *Session) RestoreDraft() {
	s.mu.Lock()
	if !s.banner || s.draftInfo == nil {
		s.mu.Unlock()
		return
	}
	fields := s.draftInfo.Fields.Clone()
	s.current = fields.Clone()
	s.banner = false
	s.phase = PhaseRestored
	s.saving = s.cfg.Enabled
	enabled := s.cfg.Enabled
	debounce := s.cfg.Debounce
	apply := s.hooks.Apply
	s.mu.Unlock()

	if apply != nil {
		apply(fields)
	}
	if enabled {
		s.sched.arm(debounce, s.flush)
	}
}

// DiscardDraft rejects the offered draft: the stored record is
// removed and the form keeps its fresh initial value.
func (s *Session) DiscardDraft(ctx context.Context) {
	s.mu.Lock()
	if !s.banner {
		s.mu.Unlock()
		return
	}
	s.banner = false
	s.draftInfo = nil
	s.phase = PhaseNoDraft
	key := s.cfg.Key
	enabled := s.cfg.Enabled
	s.mu.Unlock()

	if enabled {
		if err := s.store.Remove(ctx, key); err != nil {
			app.GetLogger().Warn("Could not discard draft %s: %v", key, err)
		}
	}
}

// RequestClose is the close-guard. A clean form closes immediately
// and its stored draft, if any, is cleared. A dirty form is vetoed:
// the close confirmation is raised and the caller must route the
// user's choice to SaveAndClose, DiscardAndClose, or CancelClose.
func (s *Session) RequestClose(ctx context.Context) bool {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return true
	}
	if draft.Dirty(s.current, s.baseline) {
		s.confirm = true
		s.mu.Unlock()
		return false
	}
	key := s.cfg.Key
	enabled := s.cfg.Enabled
	s.closeLocked()
	s.mu.Unlock()

	if enabled {
		if err := s.store.Remove(ctx, key); err != nil {
			app.GetLogger().Warn("Could not clear draft %s on close: %v", key, err)
		}
	}
	return true
}

// SaveAndClose is the confirmation's Save choice: run the host's
// submit, and only on success clear the draft, rebase the baseline,
// and let the close proceed. On failure the dialog stays open with
// the error surfaced, so a failed save can never swallow the edits.
func (s *Session) SaveAndClose(ctx context.Context) error {
	s.mu.Lock()
	if !s.confirm {
		s.mu.Unlock()
		return fmt.Errorf("session: no close confirmation pending")
	}
	submit := s.hooks.Submit
	s.mu.Unlock()

	if submit == nil {
		return fmt.Errorf("session: no submit hook wired")
	}
	if err := submit(ctx); err != nil {
		s.mu.Lock()
		s.closeErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.baseline = s.current.Clone()
	s.confirm = false
	s.closeErr = nil
	key := s.cfg.Key
	enabled := s.cfg.Enabled
	s.closeLocked()
	s.mu.Unlock()

	if enabled {
		if err := s.store.Remove(ctx, key); err != nil {
			app.GetLogger().Warn("Could not clear draft %s after save: %v", key, err)
		}
	}
	return nil
}

// DiscardAndClose is the confirmation's Discard choice: drop the
// stored draft, reset the host's live state, and let the close
// proceed.
func (s *Session) DiscardAndClose(ctx context.Context) {
	s.mu.Lock()
	if !s.confirm {
		s.mu.Unlock()
		return
	}
	s.confirm = false
	s.closeErr = nil
	s.current = s.baseline.Clone()
	key := s.cfg.Key
	enabled := s.cfg.Enabled
	reset := s.hooks.Reset
	s.closeLocked()
	s.mu.Unlock()

	if reset != nil {
		reset()
	}
	if enabled {
		if err := s.store.Remove(ctx, key); err != nil {
			app.GetLogger().Warn("Could not discard draft %s on close: %v", key, err)
		}
	}
}

// CancelClose dismisses the close confirmation; the form stays open
// with its edits intact.
func (s *Session) CancelClose() {
	s.mu.Lock()
	s.confirm = false
	s.closeErr = nil
	s.mu.Unlock()
}

// SubmitSucceeded is the host's signal that its own submit completed.
// The stored draft is cleared and the baseline rebases onto the
// just-saved value, so the close-guard will not re-trigger for data
// already persisted server-side.
func (s *Session) SubmitSucceeded(ctx context.Context) {
	s.sched.cancel()

	s.mu.Lock()
	s.baseline = s.current.Clone()
	s.saving = false
	s.lastSaveErr = nil
	key := s.cfg.Key
	enabled := s.cfg.Enabled && s.open
	s.mu.Unlock()

	if enabled {
		if err := s.store.Remove(ctx, key); err != nil {
			app.GetLogger().Warn("Could not clear draft %s after submit: %v", key, err)
		}
	}
}

// Shutdown is the unmount path: forced navigation away without going
// through the close-guard. The pending debounce timer is cancelled so
// no write lands after the form's state is gone; a draft already in
// storage stays intact for later recovery.
func (s *Session) Shutdown() {
	s.sched.cancel()
	s.mu.Lock()
	s.open = false
	s.saving = false
	s.mu.Unlock()
}

// State returns a snapshot of the observable engine state. IsDirty is
// recomputed from (current, baseline) on every call; there is no
// cached dirty flag to drift.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	st := State{
		IsDirty:            s.open && draft.Dirty(s.current, s.baseline),
		IsSaving:           s.saving,
		LastSavedAt:        s.lastSavedAt,
		LastSaveErr:        s.lastSaveErr,
		Phase:              s.phase,
		ShowRecoveryBanner: s.banner,
		ShowCloseConfirm:   s.confirm,
		CloseErr:           s.closeErr,
		EntityName:         s.cfg.EntityName,
	}
	if s.draftInfo != nil && s.banner {
		info := *s.draftInfo
		info.Fields = s.draftInfo.Fields.Clone()
		st.SavedDraftInfo = &info
	}
	return st
}

// IsOpen reports whether the form instance is still open.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// closeLocked marks the session closed and drops the pending timer.
// Callers hold s.mu; the scheduler has its own lock and never waits
// on s.mu, so this is safe.
func (s *Session) closeLocked() {
	s.open = false
	s.saving = false
	s.phase = PhaseIdle
	s.sched.cancel()
}
