package execution

import "strings"

// State represents the execution state reported by the approval core. The
// core owns it; the local system only reads it.
type State string

const (
	StateUnknown         State = "UNKNOWN"
	StatePending         State = "PENDING"
	StateRunning         State = "RUNNING"
	StateWaitingForHuman State = "WAITING_FOR_HUMAN"
	StateApproved        State = "APPROVED"
	StateRejected        State = "REJECTED"
	StateCompleted       State = "COMPLETED"
)

// ParseState normalises a state string, any unrecognised value maps to StateUnknown.
func ParseState(s string) State {
	switch state := State(strings.ToUpper(strings.TrimSpace(s))); state {
	case StatePending, StateRunning, StateWaitingForHuman,
		StateApproved, StateRejected, StateCompleted:
		return state
	}
	return StateUnknown
}

func (s State) IsApproved() bool {
	return s == StateApproved
}

func (s State) IsRejected() bool {
	return s == StateRejected
}

// IsInProgress reports whether the core is still working on the execution
// without a human decision being involved.
func (s State) IsInProgress() bool {
	return s == StatePending || s == StateRunning
}

func (s State) String() string {
	if s == "" {
		return string(StateUnknown)
	}
	return string(s)
}
