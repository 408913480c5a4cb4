package forms

import (
	"time"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/application/session"
	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
	store "github.com/Service202508/BattwheelsGarages-sub001/internal/infra/repository/draft"
)

const contactFormType = "contact"

// ContactOptions configures a contact create/edit form.
type ContactOptions struct {
	// EntityID is the contact being edited; empty means a new
	// contact.
	EntityID string

	// Initial is the loaded contact (edit) or nil (create).
	Initial draft.FieldMap

	// Debounce overrides the autosave quiet period; zero keeps the
	// default.
	Debounce time.Duration

	// DisableDrafts turns draft persistence off while keeping the
	// close-guard.
	DisableDrafts bool
}

// emptyContact is the pristine value of the create form.
func emptyContact() draft.FieldMap {
	return draft.FieldMap{
		"name":    "",
		"email":   "",
		"phone":   "",
		"address": "",
		"note":    "",
	}
}

// NewContactForm builds the contact form bound to a draft session.
// The key distinguishes "new contact" from "edit contact #id", so two
// concurrently open contact forms never share a slot.
func NewContactForm(s store.Store, opts ContactOptions, submit SubmitFunc) (*Form, error) {
	key, err := draft.NewEntityKey(contactFormType, opts.EntityID)
	if err != nil {
		return nil, err
	}

	initial := opts.Initial
	if initial == nil {
		initial = emptyContact()
	}

	return newForm(s, session.Config{
		Key:        key,
		Enabled:    !opts.DisableDrafts,
		Debounce:   opts.Debounce,
		EntityName: "contact",
	}, initial, submit)
}
