// Package forms binds concrete business forms to the draft
// persistence engine. Each form owns its live field values and wires
// a session around them; the backend submit operation is injected, as
// the API client is not this package's concern.
package forms

import (
	"context"
	"fmt"
	"sync"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/application/session"
	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
	store "github.com/Service202508/BattwheelsGarages-sub001/internal/infra/repository/draft"
)

// SubmitFunc sends the form's current values to the backend.
type SubmitFunc func(ctx context.Context, fields draft.FieldMap) error

// Form is one open form instance: live field values plus the draft
// session guarding them.
type Form struct {
	mu      sync.Mutex
	initial draft.FieldMap
	fields  draft.FieldMap
	submit  SubmitFunc
	sess    *session.Session
}

func newForm(s store.Store, cfg session.Config, initial draft.FieldMap, submit SubmitFunc) (*Form, error) {
	f := &Form{
		initial: initial.Clone(),
		fields:  initial.Clone(),
		submit:  submit,
	}

	sess, err := session.New(s, cfg, session.Hooks{
		Submit: f.doSubmit,
		Apply: func(fields draft.FieldMap) {
			f.mu.Lock()
			f.fields = fields.Clone()
			f.mu.Unlock()
		},
		Reset: func() {
			f.mu.Lock()
			f.fields = f.initial.Clone()
			f.mu.Unlock()
		},
	})
	if err != nil {
		return nil, err
	}
	f.sess = sess
	return f, nil
}

func (f *Form) doSubmit(ctx context.Context) error {
	if f.submit == nil {
		return fmt.Errorf("form has no submit operation")
	}
	return f.submit(ctx, f.Fields())
}

// Open opens the form and arms the draft engine.
func (f *Form) Open(ctx context.Context) {
	f.sess.Open(ctx, f.initial)
}

// SetField updates one field and feeds the new snapshot to the
// engine. Values should be normalized by the caller; the engine
// compares structurally and does not second-guess field semantics.
func (f *Form) SetField(name string, value any) {
	f.mu.Lock()
	f.fields[name] = value
	snapshot := f.fields.Clone()
	f.mu.Unlock()
	f.sess.Update(snapshot)
}

// Fields returns a copy of the live field values.
func (f *Form) Fields() draft.FieldMap {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields.Clone()
}

// Submit sends the form to the backend and, on success, tells the
// engine so the stored draft is purged and the baseline rebases.
func (f *Form) Submit(ctx context.Context) error {
	if err := f.doSubmit(ctx); err != nil {
		return err
	}
	f.sess.SubmitSucceeded(ctx)
	return nil
}

// State exposes the engine's observable state for rendering the save
// indicator, recovery banner, and close confirmation.
func (f *Form) State() session.State {
	return f.sess.State()
}

// RestoreDraft accepts the offered draft.
func (f *Form) RestoreDraft() {
	f.sess.RestoreDraft()
}

// DiscardDraft rejects the offered draft.
func (f *Form) DiscardDraft(ctx context.Context) {
	f.sess.DiscardDraft(ctx)
}

// RequestClose routes a close attempt through the close-guard.
func (f *Form) RequestClose(ctx context.Context) bool {
	return f.sess.RequestClose(ctx)
}

// SaveAndClose handles the confirmation's Save choice.
func (f *Form) SaveAndClose(ctx context.Context) error {
	return f.sess.SaveAndClose(ctx)
}

// DiscardAndClose handles the confirmation's Discard choice.
func (f *Form) DiscardAndClose(ctx context.Context) {
	f.sess.DiscardAndClose(ctx)
}

// CancelClose handles the confirmation's Cancel choice.
func (f *Form) CancelClose() {
	f.sess.CancelClose()
}

// Shutdown is the unmount path: forced navigation away. Any pending
// autosave is cancelled; a stored draft stays for later recovery.
func (f *Form) Shutdown() {
	f.sess.Shutdown()
}
