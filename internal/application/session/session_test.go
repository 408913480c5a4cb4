package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/application/session"
	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
	store "github.com/Service202508/BattwheelsGarages-sub001/internal/infra/repository/draft"
)

// testDebounce keeps the suite fast; waitDebounce is comfortably past
// it so a scheduled write has always landed.
const (
	testDebounce = 40 * time.Millisecond
	waitDebounce = 200 * time.Millisecond
)

// countingStore wraps a real store and counts writes, optionally
// injecting a write failure.
type countingStore struct {
	store.Store
	mu     sync.Mutex
	puts   int
	putErr error
}

func (c *countingStore) Put(ctx context.Context, key draft.Key, rec *draft.Record) error {
	c.mu.Lock()
	c.puts++
	err := c.putErr
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.Store.Put(ctx, key, rec)
}

func (c *countingStore) putCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puts
}

func newTestStore() *countingStore {
	return &countingStore{Store: store.NewFileStore(afero.NewMemMapFs(), "var/drafts")}
}

func contactKey(t *testing.T) draft.Key {
	t.Helper()
	key, err := draft.NewEntityKey("contact", "")
	require.NoError(t, err)
	return key
}

func newContactSession(t *testing.T, s store.Store, hooks session.Hooks) *session.Session {
	t.Helper()
	sess, err := session.New(s, session.Config{
		Key:        contactKey(t),
		Enabled:    true,
		Debounce:   testDebounce,
		EntityName: "contact",
	}, hooks)
	require.NoError(t, err)
	t.Cleanup(sess.Shutdown)
	return sess
}

func TestNew_Validation(t *testing.T) {
	_, err := session.New(newTestStore(), session.Config{Enabled: true}, session.Hooks{})
	assert.Error(t, err, "enabled session needs a key")

	_, err = session.New(nil, session.Config{Enabled: true, Key: contactKey(t)}, session.Hooks{})
	assert.Error(t, err, "enabled session needs a store")

	sess, err := session.New(nil, session.Config{Enabled: false}, session.Hooks{})
	require.NoError(t, err)
	assert.NotNil(t, sess)
}

func TestAutosave_CoalescesRapidEdits(t *testing.T) {
	ts := newTestStore()
	sess := newContactSession(t, ts, session.Hooks{})
	ctx := context.Background()

	sess.Open(ctx, draft.FieldMap{"name": ""})

	// A burst of edits within the quiet period.
	for i := 1; i <= 5; i++ {
		sess.Update(draft.FieldMap{"name": fmt.Sprintf("Acme v%d", i)})
		time.Sleep(testDebounce / 4)
	}
	assert.True(t, sess.State().IsSaving)

	time.Sleep(waitDebounce)

	// Exactly one write, holding the last edit's value.
	assert.Equal(t, 1, ts.putCount())
	rec, err := ts.Get(ctx, contactKey(t))
	require.NoError(t, err)
	assert.Equal(t, "Acme v5", rec.Fields["name"])

	st := sess.State()
	assert.False(t, st.IsSaving)
	assert.NoError(t, st.LastSaveErr)
	assert.False(t, st.LastSavedAt.IsZero())
	assert.True(t, st.IsDirty, "autosave does not touch the baseline")
}

func TestAutosave_SkipsCleanSnapshots(t *testing.T) {
	ts := newTestStore()
	sess := newContactSession(t, ts, session.Hooks{})
	ctx := context.Background()

	sess.Open(ctx, draft.FieldMap{"name": "Acme Ltd"})
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})

	time.Sleep(waitDebounce)
	assert.Equal(t, 0, ts.putCount())
	assert.False(t, sess.State().IsSaving)
}

func TestAutosave_RevertCancelsPendingWrite(t *testing.T) {
	ts := newTestStore()
	sess := newContactSession(t, ts, session.Hooks{})
	ctx := context.Background()

	sess.Open(ctx, draft.FieldMap{"name": "Acme Ltd"})
	sess.Update(draft.FieldMap{"name": "Acme GmbH"})
	// The user reverts before the quiet period elapses.
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})

	time.Sleep(waitDebounce)
	assert.Equal(t, 0, ts.putCount())
	_, err := ts.Get(ctx, contactKey(t))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAutosave_FailureDegradesToIndicator(t *testing.T) {
	ts := newTestStore()
	ts.putErr = fmt.Errorf("quota exceeded")

	var changed []session.State
	var mu sync.Mutex
	sess := newContactSession(t, ts, session.Hooks{
		OnChange: func(st session.State) {
			mu.Lock()
			changed = append(changed, st)
			mu.Unlock()
		},
	})
	ctx := context.Background()

	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})
	time.Sleep(waitDebounce)

	st := sess.State()
	assert.Error(t, st.LastSaveErr, "failure surfaces on the indicator")
	assert.True(t, st.LastSavedAt.IsZero())
	assert.False(t, st.IsSaving)
	assert.True(t, st.IsDirty, "the live edits are untouched")
	assert.True(t, sess.IsOpen())

	mu.Lock()
	require.NotEmpty(t, changed, "OnChange fires after the attempted save")
	mu.Unlock()
}

func TestOpen_NoDraftIsFreshForm(t *testing.T) {
	sess := newContactSession(t, newTestStore(), session.Hooks{})
	sess.Open(context.Background(), draft.FieldMap{"name": ""})

	st := sess.State()
	assert.Equal(t, session.PhaseNoDraft, st.Phase)
	assert.False(t, st.ShowRecoveryBanner)
	assert.Nil(t, st.SavedDraftInfo)
	assert.False(t, st.IsDirty)
}

func TestOpen_OffersExistingDraftWithoutTouchingForm(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	seeded := draft.NewRecord(draft.FieldMap{"name": "Acme Ltd"})
	require.NoError(t, ts.Store.Put(ctx, contactKey(t), seeded))

	applied := false
	sess := newContactSession(t, ts, session.Hooks{
		Apply: func(draft.FieldMap) { applied = true },
	})
	sess.Open(ctx, draft.FieldMap{"name": ""})

	st := sess.State()
	assert.Equal(t, session.PhaseDraftFound, st.Phase)
	assert.True(t, st.ShowRecoveryBanner)
	require.NotNil(t, st.SavedDraftInfo)
	assert.Equal(t, seeded.SavedAt.Unix(), st.SavedDraftInfo.SavedAt.Unix())
	assert.Equal(t, seeded.Revision, st.SavedDraftInfo.Revision)
	assert.False(t, applied, "live state must not change before an explicit Restore")
	assert.False(t, st.IsDirty)
}

func TestOpen_DropsDraftEqualToBaseline(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	require.NoError(t, ts.Store.Put(ctx, contactKey(t), draft.NewRecord(draft.FieldMap{"name": "Acme Ltd"})))

	sess := newContactSession(t, ts, session.Hooks{})
	sess.Open(ctx, draft.FieldMap{"name": "Acme Ltd"})

	st := sess.State()
	assert.False(t, st.ShowRecoveryBanner, "a draft with nothing new offers nothing")
	_, err := ts.Get(ctx, contactKey(t))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRestoreDraft(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	require.NoError(t, ts.Store.Put(ctx, contactKey(t), draft.NewRecord(draft.FieldMap{"name": "Acme Ltd"})))

	var applied draft.FieldMap
	sess := newContactSession(t, ts, session.Hooks{
		Apply: func(fields draft.FieldMap) { applied = fields },
	})
	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.RestoreDraft()

	require.NotNil(t, applied)
	assert.Equal(t, "Acme Ltd", applied["name"])

	st := sess.State()
	assert.False(t, st.ShowRecoveryBanner)
	assert.Equal(t, session.PhaseRestored, st.Phase)
	assert.True(t, st.IsDirty, "restored values read as dirty against the pristine baseline")
}

func TestDiscardDraft(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	require.NoError(t, ts.Store.Put(ctx, contactKey(t), draft.NewRecord(draft.FieldMap{"name": "Acme Ltd"})))

	sess := newContactSession(t, ts, session.Hooks{})
	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.DiscardDraft(ctx)

	st := sess.State()
	assert.False(t, st.ShowRecoveryBanner)
	assert.Equal(t, session.PhaseNoDraft, st.Phase)
	assert.False(t, st.IsDirty, "the field stays empty")

	_, err := ts.Get(ctx, contactKey(t))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRequestClose_VetoesDirtyForm(t *testing.T) {
	sess := newContactSession(t, newTestStore(), session.Hooks{})
	ctx := context.Background()

	sess.Open(ctx, draft.FieldMap{"break_minutes": float64(0)})
	sess.Update(draft.FieldMap{"break_minutes": float64(45)})

	assert.False(t, sess.RequestClose(ctx), "dirty form must not close")

	st := sess.State()
	assert.True(t, st.ShowCloseConfirm)
	assert.True(t, st.IsDirty)
	assert.True(t, sess.IsOpen())

	// Cancel keeps the dialog open with the edit intact.
	sess.CancelClose()
	st = sess.State()
	assert.False(t, st.ShowCloseConfirm)
	assert.True(t, st.IsDirty)
	assert.True(t, sess.IsOpen())
}

func TestRequestClose_CleanFormClosesAndClearsDraft(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	sess := newContactSession(t, ts, session.Hooks{})

	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})
	time.Sleep(waitDebounce)
	require.Equal(t, 1, ts.putCount(), "autosave landed while dirty")

	// The user undoes the edit, then closes.
	sess.Update(draft.FieldMap{"name": ""})
	assert.True(t, sess.RequestClose(ctx))
	assert.False(t, sess.IsOpen())

	_, err := ts.Get(ctx, contactKey(t))
	assert.ErrorIs(t, err, store.ErrNotFound, "a clean close leaves no draft behind")
}

func TestSaveAndClose_Success(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	submitted := false
	sess := newContactSession(t, ts, session.Hooks{
		Submit: func(context.Context) error {
			submitted = true
			return nil
		},
	})

	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})
	time.Sleep(waitDebounce)

	require.False(t, sess.RequestClose(ctx))
	require.NoError(t, sess.SaveAndClose(ctx))

	assert.True(t, submitted)
	assert.False(t, sess.IsOpen())
	_, err := ts.Get(ctx, contactKey(t))
	assert.ErrorIs(t, err, store.ErrNotFound, "draft is gone after a successful save")
}

func TestSaveAndClose_FailureKeepsFormOpen(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	sess := newContactSession(t, ts, session.Hooks{
		Submit: func(context.Context) error { return fmt.Errorf("backend rejected") },
	})

	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})
	time.Sleep(waitDebounce)

	require.False(t, sess.RequestClose(ctx))
	err := sess.SaveAndClose(ctx)
	require.Error(t, err)

	st := sess.State()
	assert.True(t, sess.IsOpen(), "a failed save never forces the close")
	assert.True(t, st.ShowCloseConfirm, "the confirmation stays up with the failure surfaced")
	assert.Error(t, st.CloseErr)
	assert.True(t, st.IsDirty)

	// The draft written by autosave is still there for recovery.
	_, getErr := ts.Get(ctx, contactKey(t))
	assert.NoError(t, getErr)
}

func TestDiscardAndClose(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	resetCalled := false
	sess := newContactSession(t, ts, session.Hooks{
		Reset: func() { resetCalled = true },
	})

	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})
	time.Sleep(waitDebounce)

	require.False(t, sess.RequestClose(ctx))
	sess.DiscardAndClose(ctx)

	assert.True(t, resetCalled)
	assert.False(t, sess.IsOpen())
	_, err := ts.Get(ctx, contactKey(t))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmitSucceeded_RebasesBaseline(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	sess := newContactSession(t, ts, session.Hooks{})

	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})
	time.Sleep(waitDebounce)
	require.True(t, sess.State().IsDirty)

	sess.SubmitSucceeded(ctx)

	st := sess.State()
	assert.False(t, st.IsDirty, "the just-submitted value is the new baseline")
	_, err := ts.Get(ctx, contactKey(t))
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.True(t, sess.IsOpen(), "the form itself stays open")
}

func TestShutdown_CancelsPendingWriteKeepsStoredDraft(t *testing.T) {
	ts := newTestStore()
	ctx := context.Background()
	sess := newContactSession(t, ts, session.Hooks{})

	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})
	time.Sleep(waitDebounce)
	require.Equal(t, 1, ts.putCount())

	// A further edit arms a new write; forced navigation kills it.
	sess.Update(draft.FieldMap{"name": "Acme Ltd Pune"})
	sess.Shutdown()
	time.Sleep(waitDebounce)

	assert.Equal(t, 1, ts.putCount(), "no write lands after shutdown")
	rec, err := ts.Get(ctx, contactKey(t))
	require.NoError(t, err, "the earlier draft stays intact for recovery")
	assert.Equal(t, "Acme Ltd", rec.Fields["name"])
}

func TestDisabledSession_TracksDirtinessWithoutStorage(t *testing.T) {
	sess, err := session.New(nil, session.Config{
		Enabled:    false,
		EntityName: "contact",
	}, session.Hooks{})
	require.NoError(t, err)
	ctx := context.Background()

	sess.Open(ctx, draft.FieldMap{"name": ""})
	sess.Update(draft.FieldMap{"name": "Acme Ltd"})
	time.Sleep(waitDebounce)

	st := sess.State()
	assert.True(t, st.IsDirty)
	assert.False(t, st.IsSaving)
	assert.True(t, st.LastSavedAt.IsZero())

	// The close-guard still protects in-memory edits.
	assert.False(t, sess.RequestClose(ctx))
	sess.CancelClose()
	sess.Update(draft.FieldMap{"name": ""})
	assert.True(t, sess.RequestClose(ctx))
}
