// Package hibernator coordinates long-lived, approval-gated executions that
// survive process restarts between the proposal of a sensitive action and
// its approval.
//
// An external approval core owns the state of every execution. A runner
// polls the core and launches stateless workers; a worker that reaches a
// gated step without approval persists a checkpoint and exits with the
// hibernate status, to be relaunched once the core reports a decision. The
// split topology hands context from a pre-worker to a post-worker instead.
//
// The root package wires the pieces from a Config:
//
//	cfg, _ := hibernator.LoadConfig(ctx, "hibernator.yaml")
//	srv, _ := hibernator.New(cfg)
//	_ = srv.Run(ctx)
//
// Workers are built from the same Service so both sides agree on storage
// locations:
//
//	outcome := srv.UnifiedWorker(task).Run(ctx, worker.EnvFromOS())
//	os.Exit(outcome.Code)
package hibernator
