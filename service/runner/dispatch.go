package runner

import (
	"context"
	"time"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/launcher"
	"github.com/viant/hibernator/service/worker"
	"github.com/viant/hibernator/tracing"
)

// splitDecision is the external state as seen by a split execution.
type splitDecision string

const (
	decisionApproved splitDecision = "approved"
	decisionRejected splitDecision = "rejected"
	decisionWaiting  splitDecision = "waiting"
)

func decisionOf(state execution.State) splitDecision {
	switch state {
	case execution.StateApproved:
		return decisionApproved
	case execution.StateRejected:
		return decisionRejected
	}
	return decisionWaiting
}

// shouldLaunchUnified applies the unified dispatch policy to a changed state.
func (s *Service) shouldLaunchUnified(state execution.State) bool {
	switch state {
	case execution.StateWaitingForHuman, execution.StateApproved:
		return true
	case execution.StatePending, execution.StateRunning:
		return s.config.PassThroughInProgress
	}
	return false
}

func (s *Service) dispatchUnified(ctx context.Context, instance *execution.Instance) {
	state := instance.StateOrUnknown()
	if !s.states.Observe(instance.ID, state) {
		return
	}
	logger := s.logger.With("executionId", instance.ID, "state", state.String())
	if !s.shouldLaunchUnified(state) {
		logger.Info("state changed, no launch required")
		return
	}
	logger.Info("state changed, launching worker")
	_, report := s.launch(ctx, instance, launcher.RoleUnified)
	s.publish(ctx, report)
}

func (s *Service) dispatchSplit(ctx context.Context, instance *execution.Instance) {
	state := instance.StateOrUnknown()
	s.states.Observe(instance.ID, state)
	logger := s.logger.With("executionId", instance.ID, "state", state.String())

	switch progress := s.progress.Get(instance.ID); progress {
	case execution.ProgressStart:
		logger.Info("new execution, launching pre-worker")
		outcome, report := s.launch(ctx, instance, launcher.RolePre)
		next := execution.ProgressFailed
		if outcome.IsDone() {
			next = execution.ProgressPreDone
		}
		s.progress.Set(instance.ID, next)
		report.Progress = next
		logger.Info("pre-worker finished", "progress", string(next))
		s.publish(ctx, report)

	case execution.ProgressPreDone:
		switch decisionOf(state) {
		case decisionApproved:
			logger.Info("approved, launching post-worker")
			outcome, report := s.launch(ctx, instance, launcher.RolePost)
			next := execution.ProgressFailed
			if outcome.IsDone() {
				next = execution.ProgressPostDone
			}
			s.progress.Set(instance.ID, next)
			report.Progress = next
			logger.Info("post-worker finished", "progress", string(next))
			s.publish(ctx, report)
		case decisionRejected:
			logger.Info("rejected, abandoning execution")
			s.progress.Set(instance.ID, execution.ProgressRejected)
		}
	}
}

// launch runs a worker synchronously. A launcher error is reported as a
// failed outcome.
func (s *Service) launch(ctx context.Context, instance *execution.Instance, role launcher.Role) (outcome *execution.Outcome, report *Report) {
	ctx, span := tracing.StartSpan(ctx, "runner.launch", tracing.KindInternal)
	span.WithAttributes(map[string]string{"execution.id": instance.ID, "worker.role": string(role)})
	started := time.Now()
	report = &Report{ExecutionID: instance.ID, Role: role, State: instance.StateOrUnknown(), StartedAt: started}

	spec := &launcher.Spec{ExecutionID: instance.ID, Role: role, Env: s.environment(ctx, instance)}
	outcome, err := s.launcher.Launch(ctx, spec)
	if err != nil {
		outcome = execution.Failed(err)
	}
	if outcome == nil {
		outcome = execution.FromExitCode(execution.ExitFailure)
	}
	span.WithInt("worker.code", outcome.Code)
	tracing.EndSpan(span, outcome.Err)

	report.Status = outcome.Status
	report.Code = outcome.Code
	report.Elapsed = time.Since(started)
	if outcome.Err != nil {
		report.Error = outcome.Err.Error()
	}

	logger := s.logger.With("executionId", instance.ID, "role", string(role), "code", outcome.Code)
	switch {
	case outcome.IsDone():
		logger.Info("worker completed")
	case outcome.IsHibernated():
		logger.Info("worker hibernated")
	default:
		logger.Error("worker failed", "error", outcome.Err)
	}
	return outcome, report
}

// environment builds the worker variables: the resolved declared environment
// plus EXECUTION_ID and STATUS, which always win.
func (s *Service) environment(ctx context.Context, instance *execution.Instance) map[string]string {
	env := s.resolver.ResolveEnvironment(ctx, instance.Environment())
	env[worker.EnvExecutionID] = instance.ID
	env[worker.EnvStatus] = instance.StateOrUnknown().String()
	return env
}
