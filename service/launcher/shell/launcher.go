// Package shell launches workers as shell commands through viant/gosh, on
// the local machine or on a remote host over SSH. Each launch gets a fresh
// session so the injected environment never leaks between executions.
package shell

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	rssh "github.com/viant/gosh/runner/ssh"
	"github.com/viant/scy/cred/secret"
	"golang.org/x/crypto/ssh"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/launcher"
)

const (
	localhost      = "localhost"
	defaultTimeout = 5 * time.Minute
)

// Service is a gosh backed launcher.
type Service struct {
	commands    map[launcher.Role]string
	hostURL     string
	credentials string
	timeout     time.Duration
	logger      *slog.Logger
}

// New creates a shell launcher.
func New(options ...Option) *Service {
	ret := &Service{
		commands: map[launcher.Role]string{},
		hostURL:  "ssh://" + localhost,
		timeout:  defaultTimeout,
		logger:   slog.Default(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Command returns the command configured for role.
func (s *Service) Command(role launcher.Role) (string, error) {
	command, ok := s.commands[role]
	if !ok || strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("no command configured for role %s", role)
	}
	return command, nil
}

// IsLocal reports whether workers run on this machine.
func (s *Service) IsLocal() bool {
	return url.Host(s.hostURL) == localhost || s.hostURL == ""
}

// Launch runs the role command with spec.Env and maps its exit status.
func (s *Service) Launch(ctx context.Context, spec *launcher.Spec) (*execution.Outcome, error) {
	command, err := s.Command(spec.Role)
	if err != nil {
		return nil, err
	}
	session, err := s.session(ctx, spec.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer func() { _ = session.Close() }()

	logger := s.logger.With("executionId", spec.ExecutionID, "role", string(spec.Role))
	logger.Info("launching worker", "command", command)
	started := time.Now()
	stdout, status, err := session.Run(ctx, command, runner.WithTimeout(int(s.timeout.Milliseconds())))
	elapsed := time.Since(started)
	if output := strings.TrimSpace(stdout); output != "" {
		logger.Info("worker output", "output", output)
	}
	if status == 0 && err != nil {
		return nil, fmt.Errorf("worker %s did not complete after %s: %w", spec.Role, elapsed, err)
	}
	outcome := execution.FromExitCode(status)
	logger.Info("worker exited", "code", status, "elapsed", elapsed.String())
	return outcome, nil
}

func (s *Service) session(ctx context.Context, env map[string]string) (*gosh.Service, error) {
	var options []runner.Option
	if len(env) > 0 {
		options = append(options, runner.WithEnvironment(env))
	}
	if s.IsLocal() {
		return gosh.New(ctx, local.New(options...))
	}
	config, err := s.sshConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get SSH config: %w", err)
	}
	host := url.Host(s.hostURL)
	if !strings.Contains(host, ":") {
		host += ":22"
	}
	return gosh.New(ctx, rssh.New(host, config, options...))
}

func (s *Service) sshConfig(ctx context.Context) (*ssh.ClientConfig, error) {
	credentials := s.credentials
	if credentials == "" {
		credentials = localhost
	}
	generic, err := secret.New().GetCredentials(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return generic.SSH.Config(ctx)
}

var _ launcher.Launcher = (*Service)(nil)
