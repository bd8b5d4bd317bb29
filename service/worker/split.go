package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/hibernator/internal/clock"
	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/model/handoff"
	"github.com/viant/hibernator/service/approval"
	"github.com/viant/hibernator/service/dao"
)

// PreTask gathers the context the gated action needs.
type PreTask interface {
	Prepare(ctx context.Context, env *Env) (*handoff.Context, error)
}

// PostTask performs the gated action from a handoff.
type PostTask interface {
	Execute(ctx context.Context, env *Env, record *handoff.Context) error
}

// Pre writes the handoff and asks the core for a decision. It never
// hibernates.
type Pre struct {
	handoffs  dao.Service[string, handoff.Context]
	approvals approval.Service
	task      PreTask
	logger    *slog.Logger
}

// NewPre creates a pre-worker. approvals may be nil, in which case no
// decision is requested.
func NewPre(handoffs dao.Service[string, handoff.Context], approvals approval.Service, task PreTask, opts ...Option) *Pre {
	o := newOptions(opts)
	return &Pre{handoffs: handoffs, approvals: approvals, task: task, logger: o.logger}
}

// Run performs one invocation.
func (w *Pre) Run(ctx context.Context, env *Env) *execution.Outcome {
	if err := env.Validate(); err != nil {
		return execution.PreconditionFailed(err)
	}
	logger := w.logger.With("executionId", env.ExecutionID, "role", "pre")
	logger.Info("worker started")

	record, err := w.task.Prepare(ctx, env)
	if err != nil {
		logger.Error("preliminary steps failed", "error", err)
		return execution.Failed(fmt.Errorf("failed to prepare: %w", err))
	}
	if record == nil {
		return execution.Failed(errors.New("prepare returned no handoff context"))
	}
	record.ExecutionID = env.ExecutionID
	record.Timestamp = clock.Now()
	if err = w.handoffs.Save(ctx, record); err != nil {
		logger.Error("failed to save handoff", "error", err)
		return execution.Failed(fmt.Errorf("failed to save handoff: %w", err))
	}
	logger.Info("handoff saved", "target", record.Target, "risk", record.Risk)

	if w.approvals != nil {
		if err = w.approvals.RequestDecision(ctx, approval.NewRequest(env.ExecutionID, record.AsMap())); err != nil {
			logger.Warn("decision request failed", "error", err)
		} else {
			logger.Info("decision requested")
		}
	}
	return execution.Done()
}

// Post consumes the handoff after approval. It never hibernates.
type Post struct {
	handoffs dao.Service[string, handoff.Context]
	task     PostTask
	logger   *slog.Logger
}

// NewPost creates a post-worker.
func NewPost(handoffs dao.Service[string, handoff.Context], task PostTask, opts ...Option) *Post {
	o := newOptions(opts)
	return &Post{handoffs: handoffs, task: task, logger: o.logger}
}

// Run performs one invocation.
func (w *Post) Run(ctx context.Context, env *Env) *execution.Outcome {
	if err := env.Validate(); err != nil {
		return execution.PreconditionFailed(err)
	}
	logger := w.logger.With("executionId", env.ExecutionID, "role", "post")
	logger.Info("worker started")

	record, err := w.handoffs.Load(ctx, env.ExecutionID)
	switch {
	case dao.IsNotFound(err):
		logger.Error("no handoff found")
		return execution.PreconditionFailed(fmt.Errorf("no handoff for %s: %w", env.ExecutionID, err))
	case err != nil:
		logger.Error("failed to load handoff", "error", err)
		return execution.Failed(fmt.Errorf("failed to load handoff: %w", err))
	}
	if record.ExecutionID != env.ExecutionID {
		logger.Warn("handoff belongs to another execution", "recorded", record.ExecutionID)
	}
	logger.Info("executing gated action", "action", record.Action)
	if err = w.task.Execute(ctx, env, record); err != nil {
		logger.Error("gated action failed", "error", err)
		return execution.Failed(fmt.Errorf("failed to execute: %w", err))
	}
	if err = w.handoffs.Delete(ctx, env.ExecutionID); err != nil && !dao.IsNotFound(err) {
		logger.Error("failed to delete handoff", "error", err)
		return execution.Failed(fmt.Errorf("failed to delete handoff: %w", err))
	}
	return execution.Done()
}
