package approval

import (
	"time"
)

// DecisionRequestApproval asks the core to put an execution in front of a
// human.
const DecisionRequestApproval = "REQUEST_APPROVAL"

// Event topics published by a core.
const (
	TopicInstanceCreated   = "instance.created"
	TopicDecisionRequested = "decision.requested"
	TopicDecisionCreated   = "decision.created"
	TopicInstanceCompleted = "instance.completed"
)

// Event is a notification fanned out on the core queue.
type Event struct {
	Topic       string      `json:"topic"`
	ExecutionID string      `json:"executionId"`
	Data        interface{} `json:"data,omitempty"` // *Request | *Decision | *execution.Instance
}

// Request is the decision request body sent to the core.
type Request struct {
	ExecutionID string                 `json:"execution_id"`
	Decision    string                 `json:"decision"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

// NewRequest creates a REQUEST_APPROVAL request.
func NewRequest(executionID string, context map[string]interface{}) *Request {
	return &Request{ExecutionID: executionID, Decision: DecisionRequestApproval, Context: context}
}

// Decision records a human verdict.
type Decision struct {
	ExecutionID string    `json:"executionId"`
	Approved    bool      `json:"approved"`
	Reason      string    `json:"reason,omitempty"`
	DecidedAt   time.Time `json:"decidedAt"`
}

// InstanceList is the GET /instances payload.
type InstanceList struct {
	Instances []*InstanceView `json:"instances"`
}
