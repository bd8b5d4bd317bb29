package hibernator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/afs"

	"github.com/viant/hibernator/model/checkpoint"
	"github.com/viant/hibernator/model/handoff"
	"github.com/viant/hibernator/service/approval"
	ahttp "github.com/viant/hibernator/service/approval/http"
	"github.com/viant/hibernator/service/approval/memory"
	"github.com/viant/hibernator/service/dao/fs"
	"github.com/viant/hibernator/service/launcher"
	"github.com/viant/hibernator/service/launcher/inproc"
	"github.com/viant/hibernator/service/launcher/shell"
	"github.com/viant/hibernator/service/messaging"
	qfs "github.com/viant/hibernator/service/messaging/fs"
	qmem "github.com/viant/hibernator/service/messaging/memory"
	"github.com/viant/hibernator/service/runner"
	"github.com/viant/hibernator/service/secret"
	"github.com/viant/hibernator/service/task"
	"github.com/viant/hibernator/service/worker"
)

const (
	serviceName    = "hibernator"
	serviceVersion = "0.1.0"
)

// Service wires runner and workers from a Config.
type Service struct {
	config      *Config
	logger      *slog.Logger
	fs          afs.Service
	approvals   approval.Service
	core        approval.Core
	resolver    *secret.Resolver
	checkpoints *fs.Service[checkpoint.Checkpoint]
	handoffs    *fs.Service[handoff.Context]
	launcher    launcher.Launcher
	reports     messaging.Queue[runner.Report]
}

// New creates a Service. A nil config means DefaultConfig.
func New(config *Config, options ...Option) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := &Service{config: config, logger: slog.Default()}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if config.Tracing.Enabled {
		if err := initTracing(config.Tracing.Output); err != nil {
			return nil, fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init() (err error) {
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.checkpoints, err = fs.NewCheckpoints(s.config.Store.CheckpointURL, fs.WithFS(s.fs)); err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}
	if s.handoffs, err = fs.NewHandoffs(s.config.Store.HandoffURL, fs.WithFS(s.fs)); err != nil {
		return fmt.Errorf("failed to create handoff store: %w", err)
	}
	s.resolver = secret.NewResolver(
		secret.WithLogger(s.logger),
		secret.WithScy(s.config.Secret.ScyBaseURL, s.config.Secret.ScyKey),
	)
	if s.approvals == nil {
		s.approvals = s.newApprovals()
	}
	if core, ok := s.approvals.(approval.Core); ok {
		s.core = core
	}
	if s.launcher == nil {
		s.launcher = s.newLauncher()
	}
	if s.reports == nil {
		if s.reports, err = s.newReports(); err != nil {
			return fmt.Errorf("failed to create report queue: %w", err)
		}
	}
	return nil
}

func (s *Service) newReports() (messaging.Queue[runner.Report], error) {
	if s.config.Store.ReportURL == "" {
		return qmem.NewQueue[runner.Report](qmem.DefaultConfig()), nil
	}
	return qfs.NewQueue[runner.Report](context.Background(), s.fs, qfs.DefaultConfig(s.config.Store.ReportURL))
}

func (s *Service) newApprovals() approval.Service {
	if s.config.IsMemoryCore() {
		return memory.New()
	}
	options := []ahttp.Option{ahttp.WithTimeout(s.config.Core.Timeout), ahttp.WithLogger(s.logger)}
	if s.config.Core.AuthSecret != "" {
		options = append(options, ahttp.WithTokenSource(ahttp.NewTokenSource(s.config.Core.AuthSecret)))
	}
	return ahttp.New(s.config.Core.URL, options...)
}

// newLauncher runs workers in-process when the core lives in this process,
// since a child process could not reach it.
func (s *Service) newLauncher() launcher.Launcher {
	if s.config.IsMemoryCore() {
		return s.InProcLauncher(&task.Gated{Logger: s.logger}, &task.Split{Logger: s.logger})
	}
	options := []shell.Option{shell.WithLogger(s.logger), shell.WithTimeout(s.config.Launcher.Timeout)}
	for role, command := range s.config.Launcher.Commands {
		options = append(options, shell.WithCommand(launcher.Role(role), command))
	}
	if s.config.Launcher.Host != "" {
		options = append(options, shell.WithHost(s.config.Launcher.Host, s.config.Launcher.Credentials))
	}
	return shell.New(options...)
}

// InProcLauncher registers the three worker roles backed by the supplied
// tasks.
func (s *Service) InProcLauncher(unified worker.Task, split interface {
	worker.PreTask
	worker.PostTask
}) *inproc.Service {
	return inproc.New().
		Register(launcher.RoleUnified, s.UnifiedWorker(unified).Run).
		Register(launcher.RolePre, s.PreWorker(split).Run).
		Register(launcher.RolePost, s.PostWorker(split).Run)
}

func (s *Service) Config() *Config { return s.config }

func (s *Service) Approvals() approval.Service { return s.approvals }

// Core returns the drivable core, nil unless the approvals service is one.
func (s *Service) Core() approval.Core { return s.core }

func (s *Service) Resolver() *secret.Resolver { return s.resolver }

func (s *Service) Checkpoints() *fs.Service[checkpoint.Checkpoint] { return s.checkpoints }

func (s *Service) Handoffs() *fs.Service[handoff.Context] { return s.handoffs }

func (s *Service) Reports() messaging.Queue[runner.Report] { return s.reports }

func (s *Service) UnifiedWorker(t worker.Task) *worker.Unified {
	return worker.NewUnified(s.checkpoints, t, worker.WithLogger(s.logger))
}

func (s *Service) PreWorker(t worker.PreTask) *worker.Pre {
	return worker.NewPre(s.handoffs, s.approvals, t, worker.WithLogger(s.logger))
}

func (s *Service) PostWorker(t worker.PostTask) *worker.Post {
	return worker.NewPost(s.handoffs, t, worker.WithLogger(s.logger))
}

// Runner builds the orchestration loop.
func (s *Service) Runner() (*runner.Service, error) {
	return runner.New(
		runner.WithConfig(s.config.LoopConfig()),
		runner.WithApprovals(s.approvals),
		runner.WithLauncher(s.launcher),
		runner.WithResolver(s.resolver),
		runner.WithReportQueue(s.reports),
		runner.WithLogger(s.logger),
	)
}

// Run starts the loop and a report consumer, blocking until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	loop, err := s.Runner()
	if err != nil {
		return err
	}
	go s.consumeReports(ctx)
	return loop.Start(ctx)
}

func (s *Service) consumeReports(ctx context.Context) {
	for {
		msg, err := s.reports.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			s.logger.Warn("failed to consume report", "error", err)
			continue
		}
		report := msg.T()
		s.logger.Debug("launch report", "executionId", report.ExecutionID, "role", string(report.Role),
			"status", string(report.Status), "code", report.Code, "progress", string(report.Progress),
			"elapsed", report.Elapsed.String())
		_ = msg.Ack()
	}
}
