package approval

import (
	"context"
	"sync"
	"time"

	"github.com/viant/hibernator/model/execution"
)

// DecisionFunc decides what to do with a waiting execution.
// Return (true,  "") to approve
//
//	(false, "…") to reject with reason.
type DecisionFunc func(instance *execution.Instance) (approved bool, reason string)

// AutoDecider starts a goroutine that polls ListPending and applies fn to
// every waiting execution. It returns stop(); call it (or cancel ctx) to exit.
func AutoDecider(ctx context.Context,
	core Core,
	fn DecisionFunc,
	interval time.Duration) (stop func()) {

	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				pending, _ := core.ListPending(ctx)
				for _, instance := range pending {
					ok, reason := fn(instance)
					_, _ = core.Decide(ctx, instance.ID, ok, reason)
				}
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// AutoApprove automatically approves all waiting executions.
func AutoApprove(ctx context.Context,
	core Core,
	interval time.Duration) func() {
	return AutoDecider(ctx, core,
		func(*execution.Instance) (bool, string) { return true, "" }, interval)
}

// AutoReject automatically rejects all waiting executions with the given reason.
func AutoReject(ctx context.Context,
	core Core,
	reason string,
	interval time.Duration) func() {
	return AutoDecider(ctx, core,
		func(*execution.Instance) (bool, string) { return false, reason }, interval)
}
