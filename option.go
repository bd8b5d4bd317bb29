package hibernator

import (
	"log/slog"

	"github.com/viant/afs"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/viant/hibernator/service/approval"
	"github.com/viant/hibernator/service/launcher"
	"github.com/viant/hibernator/service/messaging"
	"github.com/viant/hibernator/service/runner"
	"github.com/viant/hibernator/tracing"
)

// Option customises the Service.
type Option func(s *Service)

// WithLogger sets the logger shared by all components.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithApprovals replaces the approval core client derived from config.
func WithApprovals(approvals approval.Service) Option {
	return func(s *Service) { s.approvals = approvals }
}

// WithLauncher replaces the launcher derived from config.
func WithLauncher(l launcher.Launcher) Option {
	return func(s *Service) { s.launcher = l }
}

// WithReportQueue sets the queue runner reports are published to.
func WithReportQueue(queue messaging.Queue[runner.Report]) Option {
	return func(s *Service) { s.reports = queue }
}

// WithFS sets the storage service used for checkpoints and handoffs.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter. If
// outputFile is empty traces go to stdout. The first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
