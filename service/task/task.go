// Package task provides reference tasks run by the CLI workers: a two-step
// job whose second step is gated on approval, and its split counterpart
// exchanging a handoff record.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/viant/hibernator/model/handoff"
	"github.com/viant/hibernator/service/worker"
)

// LaunchPayload is the checkpoint payload written before the gated step.
const LaunchPayload = "ready_to_launch"

// Defaults describing the split task's gated action.
const (
	DefaultTarget = "Production DB"
	DefaultAction = "DROP TABLE users"
	DefaultRisk   = "HIGH"
)

// Gated gathers intelligence, then launches once approved.
type Gated struct {
	// Delay simulates work in each step.
	Delay time.Duration
	// SecretKeys are reported by presence, never by value.
	SecretKeys []string
	Logger     *slog.Logger
}

func (t *Gated) Prepare(ctx context.Context, env *worker.Env) (interface{}, error) {
	logger := t.logger()
	reportSecrets(logger, env, t.SecretKeys)
	logger.Info("gathering intelligence")
	if err := pause(ctx, t.Delay); err != nil {
		return nil, err
	}
	logger.Info("preliminary step complete, approaching gated step")
	return LaunchPayload, nil
}

func (t *Gated) Execute(ctx context.Context, env *worker.Env, data interface{}) error {
	logger := t.logger()
	if data != LaunchPayload {
		return fmt.Errorf("unexpected launch payload: %v", data)
	}
	logger.Info("executing gated step")
	if err := pause(ctx, t.Delay); err != nil {
		return err
	}
	logger.Info("gated step complete")
	return nil
}

func (t *Gated) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

// Split is the pre/post version of Gated.
type Split struct {
	Target     string
	Action     string
	Risk       string
	Delay      time.Duration
	SecretKeys []string
	Logger     *slog.Logger
}

func (t *Split) Prepare(ctx context.Context, env *worker.Env) (*handoff.Context, error) {
	logger := t.logger()
	reportSecrets(logger, env, t.SecretKeys)
	logger.Info("gathering intelligence")
	if err := pause(ctx, t.Delay); err != nil {
		return nil, err
	}
	ret := &handoff.Context{
		Target: orDefault(t.Target, DefaultTarget),
		Action: orDefault(t.Action, DefaultAction),
		Risk:   orDefault(t.Risk, DefaultRisk),
	}
	logger.Info("identified target", "target", ret.Target)
	return ret, nil
}

func (t *Split) Execute(ctx context.Context, env *worker.Env, record *handoff.Context) error {
	logger := t.logger()
	reportSecrets(logger, env, t.SecretKeys)
	logger.Info("authorized to execute", "action", record.Action, "target", record.Target)
	if err := pause(ctx, t.Delay); err != nil {
		return err
	}
	logger.Info("action complete")
	return nil
}

func (t *Split) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

func reportSecrets(logger *slog.Logger, env *worker.Env, keys []string) {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	for _, key := range sorted {
		logger.Info("secret check", "key", key, "present", env.Has(key))
	}
}

func pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
