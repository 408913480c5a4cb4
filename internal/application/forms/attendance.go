package forms

import (
	"time"

	"github.com/Service202508/BattwheelsGarages-sub001/internal/application/session"
	"github.com/Service202508/BattwheelsGarages-sub001/internal/domain/model/draft"
	store "github.com/Service202508/BattwheelsGarages-sub001/internal/infra/repository/draft"
)

const clockOutFormType = "attendance_clock_out"

// ClockOutOptions configures the attendance clock-out dialog.
type ClockOutOptions struct {
	// ClockOutAt is the prefilled clock-out time shown when the
	// dialog opens.
	ClockOutAt time.Time

	Debounce      time.Duration
	DisableDrafts bool
}

// NewClockOutForm builds the clock-out dialog bound to a draft
// session. The dialog exists once per user, so its key carries no
// entity discriminator.
func NewClockOutForm(s store.Store, opts ClockOutOptions, submit SubmitFunc) (*Form, error) {
	key, err := draft.NewSingletonKey(clockOutFormType)
	if err != nil {
		return nil, err
	}

	initial := draft.FieldMap{
		"clock_out_at":  opts.ClockOutAt.Format(time.RFC3339),
		"break_minutes": float64(0),
		"note":          "",
	}

	return newForm(s, session.Config{
		Key:        key,
		Enabled:    !opts.DisableDrafts,
		Debounce:   opts.Debounce,
		EntityName: "clock-out entry",
	}, initial, submit)
}
