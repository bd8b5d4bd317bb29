package runner

import (
	"sync"

	"github.com/viant/hibernator/model/execution"
)

// StateTracker remembers the last external state seen per execution.
type StateTracker struct {
	mu     sync.Mutex
	states map[string]execution.State
}

func NewStateTracker() *StateTracker {
	return &StateTracker{states: map[string]execution.State{}}
}

// Observe records state and reports whether it differs from the last one
// seen. A first observation always counts as a change.
func (t *StateTracker) Observe(id string, state execution.State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.states[id]
	if ok && last == state {
		return false
	}
	t.states[id] = state
	return true
}

// Last returns the last state seen.
func (t *StateTracker) Last(id string) (execution.State, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, ok := t.states[id]
	return state, ok
}

// ProgressTracker holds local progress of split executions.
type ProgressTracker struct {
	mu       sync.Mutex
	progress map[string]execution.Progress
}

func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{progress: map[string]execution.Progress{}}
}

// Get returns the progress, START for unseen executions.
func (t *ProgressTracker) Get(id string) execution.Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	if progress, ok := t.progress[id]; ok {
		return progress
	}
	return execution.ProgressStart
}

func (t *ProgressTracker) Set(id string, progress execution.Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress[id] = progress
}
