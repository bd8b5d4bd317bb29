// Package tracing wraps OpenTelemetry so that poll cycles, worker launches
// and calls to the approval core can be traced without the rest of the code
// importing the upstream packages directly. Without Init every span is a
// no-op.
package tracing
