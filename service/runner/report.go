package runner

import (
	"time"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/launcher"
)

// Report describes a single launch, published to the report queue.
type Report struct {
	ExecutionID string             `json:"executionId"`
	Role        launcher.Role      `json:"role"`
	State       execution.State    `json:"state"`
	Status      execution.Status   `json:"status"`
	Code        int                `json:"code"`
	Progress    execution.Progress `json:"progress,omitempty"`
	Error       string             `json:"error,omitempty"`
	StartedAt   time.Time          `json:"startedAt"`
	Elapsed     time.Duration      `json:"elapsed"`
}
