package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/approval"
	"github.com/viant/hibernator/service/launcher"
	"github.com/viant/hibernator/service/messaging"
	"github.com/viant/hibernator/service/secret"
	"github.com/viant/hibernator/tracing"
)

const reportTimeout = 100 * time.Millisecond

// Service is the orchestration loop. It never touches checkpoint or handoff
// records; those belong to the workers.
type Service struct {
	config    Config
	approvals approval.Service
	launcher  launcher.Launcher
	resolver  *secret.Resolver
	reports   messaging.Queue[Report]
	logger    *slog.Logger

	states   *StateTracker
	progress *ProgressTracker
	locks    *keyedLocker
}

// New creates an orchestration loop.
func New(options ...Option) (*Service, error) {
	s := &Service{
		config:   DefaultConfig(),
		logger:   slog.Default(),
		states:   NewStateTracker(),
		progress: NewProgressTracker(),
		locks:    newKeyedLocker(),
	}
	for _, opt := range options {
		opt(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.approvals == nil {
		return nil, fmt.Errorf("approval service is required")
	}
	if s.launcher == nil {
		return nil, fmt.Errorf("launcher is required")
	}
	if s.resolver == nil {
		s.resolver = secret.NewResolver(secret.WithLogger(s.logger))
	}
	return s, nil
}

// States exposes the last seen external states.
func (s *Service) States() *StateTracker { return s.states }

// Progress exposes local split progress.
func (s *Service) Progress() *ProgressTracker { return s.progress }

// Start polls until ctx is cancelled, pausing PollInterval between cycles.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("runner started", "topology", string(s.config.Topology),
		"interval", s.config.PollInterval.String(), "workers", s.config.Workers)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("runner stopped")
			return nil
		case <-timer.C:
		}
		_ = s.Poll(ctx)
		timer.Reset(s.config.PollInterval)
	}
}

// Poll runs one cycle. A core failure is logged and returned, the cycle is
// then treated as having no executions.
func (s *Service) Poll(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, "runner.poll", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()

	instances, err := s.approvals.Instances(ctx)
	if err != nil {
		s.logger.Error("failed to poll approval core", "error", err)
		return err
	}
	span.WithInt("instances", len(instances))
	if s.config.Workers <= 1 {
		for _, instance := range instances {
			if ctx.Err() != nil {
				return nil
			}
			s.process(ctx, instance)
		}
		return nil
	}

	sem := make(chan struct{}, s.config.Workers)
	var wg sync.WaitGroup
	for _, instance := range instances {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(instance *execution.Instance) {
			defer wg.Done()
			defer func() { <-sem }()
			s.process(ctx, instance)
		}(instance)
	}
	wg.Wait()
	return nil
}

func (s *Service) process(ctx context.Context, instance *execution.Instance) {
	if instance == nil || instance.ID == "" {
		return
	}
	unlock := s.locks.Lock(instance.ID)
	defer unlock()
	switch s.config.Topology {
	case TopologySplit:
		s.dispatchSplit(ctx, instance)
	default:
		s.dispatchUnified(ctx, instance)
	}
}

func (s *Service) publish(ctx context.Context, report *Report) {
	if s.reports == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, reportTimeout)
	defer cancel()
	if err := s.reports.Publish(ctx, report); err != nil {
		s.logger.Warn("failed to publish report", "executionId", report.ExecutionID, "error", err)
	}
}
