package approval

import (
	"context"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/messaging"
)

// Service is what runners and workers need from the core.
type Service interface {
	// Instances lists executions known to the core.
	Instances(ctx context.Context) ([]*execution.Instance, error)

	// RequestDecision asks the core to gate an execution on a human.
	RequestDecision(ctx context.Context, request *Request) error
}

// Core is a Service that can also be driven: executions triggered, decided
// and completed.
type Core interface {
	Service

	Trigger(ctx context.Context, id string, triggerContext map[string]interface{}) (*execution.Instance, error)

	ListPending(ctx context.Context) ([]*execution.Instance, error)

	Decide(ctx context.Context, id string, approved bool, reason string) (*Decision, error)

	Complete(ctx context.Context, id string) error

	Queue() messaging.Queue[Event]
}
