package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/viant/hibernator"
	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/launcher"
	"github.com/viant/hibernator/service/task"
	"github.com/viant/hibernator/service/worker"
)

var defaultSecretKeys = []string{"API_KEY", "MOCK_VAL"}

func newWorkerCommand(opts *globalOptions) *cobra.Command {
	var secretKeys []string
	cmd := &cobra.Command{
		Use:       "worker <unified|pre|post>",
		Short:     "Run a single worker invocation",
		Long:      `Worker reads EXECUTION_ID and STATUS from the environment and exits with 0 when done, 3 when hibernating, and any other status on failure.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(launcher.RoleUnified), string(launcher.RolePre), string(launcher.RolePost)},
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := launcher.ParseRole(args[0])
			if err != nil {
				return &ExitError{Code: execution.ExitPrecondition, Err: err}
			}
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(ctx)
			if err != nil {
				return &ExitError{Code: execution.ExitFailure, Err: err}
			}
			srv, err := hibernator.New(cfg, hibernator.WithLogger(opts.logger))
			if err != nil {
				return &ExitError{Code: execution.ExitFailure, Err: err}
			}
			outcome := runWorker(ctx, srv, role, secretKeys, worker.EnvFromOS())
			if outcome.IsDone() {
				return nil
			}
			return &ExitError{Code: outcome.Code, Err: outcome.Err}
		},
	}
	cmd.Flags().StringSliceVar(&secretKeys, "secret-keys", defaultSecretKeys, "variables reported by presence")
	return cmd
}

func runWorker(ctx context.Context, srv *hibernator.Service, role launcher.Role, secretKeys []string, env *worker.Env) *execution.Outcome {
	split := &task.Split{SecretKeys: secretKeys}
	switch role {
	case launcher.RoleUnified:
		return srv.UnifiedWorker(&task.Gated{SecretKeys: secretKeys}).Run(ctx, env)
	case launcher.RolePre:
		return srv.PreWorker(split).Run(ctx, env)
	case launcher.RolePost:
		return srv.PostWorker(split).Run(ctx, env)
	}
	return execution.PreconditionFailed(fmt.Errorf("unsupported role %s", role))
}
