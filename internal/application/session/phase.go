package session

// Phase names the recovery states a session moves through after the
// hosting form opens. Transitions:
//
//	Idle -> NoDraft              no stored draft (or engine disabled)
//	Idle -> DraftFound           stored draft differs from the baseline
//	DraftFound -> Restored       user chose Restore
//	DraftFound -> NoDraft        user chose Discard
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseNoDraft
	PhaseDraftFound
	PhaseRestored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseNoDraft:
		return "no_draft"
	case PhaseDraftFound:
		return "draft_found"
	case PhaseRestored:
		return "restored"
	default:
		return "unknown"
	}
}
