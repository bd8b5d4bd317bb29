// Package cli provides the command-line interface for hibernator.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/viant/hibernator"
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

type globalOptions struct {
	configURL string
	logLevel  string
	logFormat string
	logger    *slog.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "hibernator",
		Short: "Approval-gated execution runner",
		Long: `hibernator runs long-lived executions gated on a human decision.

The run command polls the approval core and launches workers; the worker
commands are what it launches. A worker that reaches its gated step without
approval saves a checkpoint and exits with status 3, to be resumed later.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			opts.logger = logger
			slog.SetDefault(logger)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configURL, "config", "c", "", "configuration YAML URL")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(newRunCommand(opts))
	root.AddCommand(newWorkerCommand(opts))
	return root
}

func (o *globalOptions) loadConfig(ctx context.Context) (*hibernator.Config, error) {
	return hibernator.LoadConfig(ctx, o.configURL)
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handlerOptions := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOptions)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, handlerOptions)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}
