package shell

import (
	"log/slog"
	"time"

	"github.com/viant/hibernator/service/launcher"
)

// Option customises the shell launcher.
type Option func(s *Service)

// WithCommand sets the command run for role.
func WithCommand(role launcher.Role, command string) Option {
	return func(s *Service) { s.commands[role] = command }
}

// WithHost runs workers on a remote host over SSH; credentials is a scy
// secret reference holding SSH credentials.
func WithHost(hostURL, credentials string) Option {
	return func(s *Service) {
		s.hostURL = hostURL
		s.credentials = credentials
	}
}

// WithTimeout bounds a single worker run.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) { s.timeout = timeout }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}
