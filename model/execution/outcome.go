package execution

import "fmt"

// Exit codes used when an outcome crosses a process boundary.
const (
	ExitDone         = 0
	ExitPrecondition = 1
	ExitFailure      = 2
	ExitHibernate    = 3
)

// Status is the three-way result of a worker invocation.
type Status string

const (
	StatusDone       Status = "done"
	StatusHibernated Status = "hibernated"
	StatusFailed     Status = "failed"
)

// Outcome is the typed result of a worker invocation.
type Outcome struct {
	Status Status `json:"status"`
	Code   int    `json:"code"`
	Err    error  `json:"-"`
}

func Done() *Outcome {
	return &Outcome{Status: StatusDone, Code: ExitDone}
}

func Hibernated() *Outcome {
	return &Outcome{Status: StatusHibernated, Code: ExitHibernate}
}

// Failed returns a failure outcome with ExitFailure.
func Failed(err error) *Outcome {
	return &Outcome{Status: StatusFailed, Code: ExitFailure, Err: err}
}

// PreconditionFailed returns a failure outcome with ExitPrecondition.
func PreconditionFailed(err error) *Outcome {
	return &Outcome{Status: StatusFailed, Code: ExitPrecondition, Err: err}
}

// FromExitCode maps a process exit status onto an outcome. Anything other
// than 0 or 3 is an opaque failure.
func FromExitCode(code int) *Outcome {
	switch code {
	case ExitDone:
		return Done()
	case ExitHibernate:
		return Hibernated()
	}
	return &Outcome{Status: StatusFailed, Code: code, Err: fmt.Errorf("worker exited with code %d", code)}
}

func (o *Outcome) IsDone() bool {
	return o != nil && o.Status == StatusDone
}

func (o *Outcome) IsHibernated() bool {
	return o != nil && o.Status == StatusHibernated
}

func (o *Outcome) IsFailed() bool {
	return o == nil || o.Status == StatusFailed
}

func (o *Outcome) String() string {
	if o == nil {
		return "<nil>"
	}
	if o.Err != nil {
		return fmt.Sprintf("%s(%d): %v", o.Status, o.Code, o.Err)
	}
	return fmt.Sprintf("%s(%d)", o.Status, o.Code)
}
