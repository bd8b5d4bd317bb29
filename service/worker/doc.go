// Package worker implements the stateless, repeatedly invoked side of the
// hibernation protocol.
//
// A Unified worker runs preliminary steps, persists a checkpoint and
// hibernates until the execution is approved, then resumes from the
// checkpoint without repeating work. The split topology separates the two
// halves: Pre gathers context into a handoff record and asks for a decision,
// Post consumes the handoff once the execution is approved.
//
// Workers return a typed execution.Outcome; the exit code convention is only
// applied at the process boundary.
package worker
