// Package inproc runs workers inside the runner process, used by tests and
// the single-binary demo.
package inproc

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/launcher"
	"github.com/viant/hibernator/service/worker"
)

// Func is a worker entry point; worker Run methods satisfy it.
type Func func(ctx context.Context, env *worker.Env) *execution.Outcome

// Service dispatches launches to registered functions by role.
type Service struct {
	mu    sync.RWMutex
	funcs map[launcher.Role]Func
}

// New creates an in-process launcher.
func New() *Service {
	return &Service{funcs: map[launcher.Role]Func{}}
}

// Register binds fn to role and returns the service for chaining.
func (s *Service) Register(role launcher.Role, fn Func) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs[role] = fn
	return s
}

// Launch runs the worker synchronously. A panicking worker is reported as
// a failed outcome.
func (s *Service) Launch(ctx context.Context, spec *launcher.Spec) (outcome *execution.Outcome, err error) {
	s.mu.RLock()
	fn, ok := s.funcs[spec.Role]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no worker registered for role %s", spec.Role)
	}
	env := make(map[string]string, len(spec.Env))
	for k, v := range spec.Env {
		env[k] = v
	}
	defer func() {
		if r := recover(); r != nil {
			outcome = execution.Failed(fmt.Errorf("worker panic: %v", r))
			err = nil
		}
	}()
	outcome = fn(ctx, worker.NewEnv(env))
	if outcome == nil {
		outcome = execution.Failed(fmt.Errorf("worker returned no outcome"))
	}
	return outcome, nil
}

var _ launcher.Launcher = (*Service)(nil)
