package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/viant/hibernator"
	"github.com/viant/hibernator/service/approval"
)

func newRunCommand(opts *globalOptions) *cobra.Command {
	var (
		coreURL     string
		topology    string
		interval    time.Duration
		workers     int
		passThrough bool
		trace       bool
		triggers    []string
		autoApprove time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the approval core and launch workers",
		Long: `Run polls the approval core at a fixed interval and launches workers
for executions whose state requires it, until interrupted.

With --core memory an in-process core is used and workers run inside this
process; --trigger and --auto-approve drive that core for a local demo.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := opts.loadConfig(ctx)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("core") {
				cfg.Core.URL = coreURL
			}
			if flags.Changed("topology") {
				cfg.Runner.Topology = topology
			}
			if flags.Changed("interval") {
				cfg.Runner.PollInterval = interval
			}
			if flags.Changed("workers") {
				cfg.Runner.Workers = workers
			}
			if flags.Changed("pass-through") {
				cfg.Runner.PassThroughInProgress = passThrough
			}
			if trace {
				cfg.Tracing.Enabled = true
			}
			if (len(triggers) > 0 || autoApprove > 0) && !cfg.IsMemoryCore() {
				return fmt.Errorf("--trigger and --auto-approve require --core %s", hibernator.MemoryCore)
			}

			srv, err := hibernator.New(cfg, hibernator.WithLogger(opts.logger))
			if err != nil {
				return err
			}
			if core := srv.Core(); core != nil {
				for _, id := range triggers {
					if _, err = core.Trigger(ctx, id, nil); err != nil {
						return fmt.Errorf("failed to trigger %s: %w", id, err)
					}
				}
				if autoApprove > 0 {
					stop := approval.AutoApprove(ctx, core, autoApprove)
					defer stop()
				}
			}
			return srv.Run(ctx)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&coreURL, "core", "", "approval core URL or 'memory'")
	flags.StringVar(&topology, "topology", "", "worker topology: unified or split")
	flags.DurationVar(&interval, "interval", 0, "poll interval")
	flags.IntVar(&workers, "workers", 1, "parallel dispatch across executions")
	flags.BoolVar(&passThrough, "pass-through", false, "launch unified workers for PENDING and RUNNING executions")
	flags.BoolVar(&trace, "trace", false, "export traces to stdout")
	flags.StringSliceVar(&triggers, "trigger", nil, "execution ids to trigger on the memory core")
	flags.DurationVar(&autoApprove, "auto-approve", 0, "approve waiting executions on the memory core at this interval")
	return cmd
}
