package runner

import (
	"log/slog"

	"github.com/viant/hibernator/service/approval"
	"github.com/viant/hibernator/service/launcher"
	"github.com/viant/hibernator/service/messaging"
	"github.com/viant/hibernator/service/secret"
)

type Option func(*Service)

// WithConfig replaces the loop configuration.
func WithConfig(config Config) Option {
	return func(s *Service) { s.config = config }
}

// WithApprovals sets the core client.
func WithApprovals(approvals approval.Service) Option {
	return func(s *Service) { s.approvals = approvals }
}

// WithLauncher sets the worker launcher.
func WithLauncher(l launcher.Launcher) Option {
	return func(s *Service) { s.launcher = l }
}

// WithResolver sets the secret resolver used for declared environments.
func WithResolver(resolver *secret.Resolver) Option {
	return func(s *Service) { s.resolver = resolver }
}

// WithReportQueue publishes a Report after every launch.
func WithReportQueue(queue messaging.Queue[Report]) Option {
	return func(s *Service) { s.reports = queue }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}
