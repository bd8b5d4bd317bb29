// Package clock exposes a stubbable time source for timestamps written into
// handoff records and reports.
package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Freeze pins Now to t and returns a restore function.
func Freeze(t time.Time) (restore func()) {
	prev := NowFunc
	NowFunc = func() time.Time { return t }
	return func() { NowFunc = prev }
}
