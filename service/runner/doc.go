// Package runner implements the orchestration loop. Each cycle it lists
// executions from the approval core, decides per execution whether a worker
// has to run, launches it synchronously and records the outcome.
//
// The unified topology reacts to external state changes only: an execution
// whose state has not changed since the previous poll is never relaunched.
// The split topology follows local progress (START, PRE_DONE, POST_DONE) and
// consults the external state only to release the post-worker.
package runner
