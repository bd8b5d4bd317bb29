package execution

// Progress tracks which local sub-task of a split execution has run. It is
// advanced by the runner from worker outcomes only and is unrelated to the
// remote approval decision.
type Progress string

const (
	ProgressStart    Progress = "START"
	ProgressPreDone  Progress = "PRE_DONE"
	ProgressPostDone Progress = "POST_DONE"
	ProgressFailed   Progress = "FAILED"
	ProgressRejected Progress = "REJECTED"
)

// IsTerminal reports whether no further dispatch can happen.
func (p Progress) IsTerminal() bool {
	switch p {
	case ProgressPostDone, ProgressFailed, ProgressRejected:
		return true
	}
	return false
}
