package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/hibernator/model/checkpoint"
	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/dao"
)

// Task is the work performed by a unified worker.
type Task interface {
	// Prepare runs the preliminary steps and returns the payload needed to
	// perform the gated action later.
	Prepare(ctx context.Context, env *Env) (interface{}, error)

	// Execute performs the gated action. data is the Prepare payload, read
	// back from the checkpoint when resuming.
	Execute(ctx context.Context, env *Env, data interface{}) error
}

// Unified runs the single-process protocol:
//
//	no checkpoint, not approved  -> Prepare, save checkpoint, hibernate
//	no checkpoint, approved      -> Prepare, Execute, done
//	checkpoint,    approved      -> Execute, delete checkpoint, done
//	checkpoint,    not approved  -> hibernate, checkpoint untouched
type Unified struct {
	checkpoints dao.Service[string, checkpoint.Checkpoint]
	task        Task
	logger      *slog.Logger
}

// NewUnified creates a unified worker.
func NewUnified(checkpoints dao.Service[string, checkpoint.Checkpoint], task Task, opts ...Option) *Unified {
	o := newOptions(opts)
	return &Unified{checkpoints: checkpoints, task: task, logger: o.logger}
}

// Run performs one invocation.
func (w *Unified) Run(ctx context.Context, env *Env) *execution.Outcome {
	if err := env.Validate(); err != nil {
		return execution.PreconditionFailed(err)
	}
	logger := w.logger.With("executionId", env.ExecutionID, "status", env.Status.String())
	logger.Info("worker started")

	state, err := w.checkpoints.Load(ctx, env.ExecutionID)
	switch {
	case dao.IsNotFound(err):
		return w.fresh(ctx, env, logger)
	case err != nil:
		logger.Error("failed to load checkpoint", "error", err)
		return execution.Failed(fmt.Errorf("failed to load checkpoint: %w", err))
	}
	return w.resume(ctx, env, state, logger)
}

func (w *Unified) fresh(ctx context.Context, env *Env, logger *slog.Logger) *execution.Outcome {
	logger.Info("no checkpoint found, starting fresh execution")
	data, err := w.task.Prepare(ctx, env)
	if err != nil {
		logger.Error("preliminary steps failed", "error", err)
		return execution.Failed(fmt.Errorf("failed to prepare: %w", err))
	}
	if env.IsApproved() {
		logger.Info("already approved, executing gated step")
		if err = w.task.Execute(ctx, env, data); err != nil {
			logger.Error("gated step failed", "error", err)
			return execution.Failed(fmt.Errorf("failed to execute: %w", err))
		}
		return execution.Done()
	}
	state := &checkpoint.Checkpoint{ExecutionID: env.ExecutionID, Step: checkpoint.StepPreLaunch, Data: data}
	if err = w.checkpoints.Save(ctx, state); err != nil {
		logger.Error("failed to save checkpoint", "error", err)
		return execution.Failed(fmt.Errorf("failed to save checkpoint: %w", err))
	}
	logger.Info("gated step requires approval, hibernating", "step", state.Step)
	return execution.Hibernated()
}

func (w *Unified) resume(ctx context.Context, env *Env, state *checkpoint.Checkpoint, logger *slog.Logger) *execution.Outcome {
	logger.Info("checkpoint found", "step", state.Step)
	if state.Step != checkpoint.StepPreLaunch {
		err := fmt.Errorf("unknown checkpoint step: %q", state.Step)
		logger.Error("cannot resume", "error", err)
		return execution.PreconditionFailed(err)
	}
	if !env.IsApproved() {
		logger.Info("resumed without approval, hibernating again")
		return execution.Hibernated()
	}
	logger.Info("approval granted, resuming")
	if err := w.task.Execute(ctx, env, state.Data); err != nil {
		logger.Error("gated step failed", "error", err)
		return execution.Failed(fmt.Errorf("failed to execute: %w", err))
	}
	if err := w.checkpoints.Delete(ctx, env.ExecutionID); err != nil && !dao.IsNotFound(err) {
		logger.Error("failed to delete checkpoint", "error", err)
		return execution.Failed(fmt.Errorf("failed to delete checkpoint: %w", err))
	}
	return execution.Done()
}
