// Package checkpoint defines the record a unified worker persists right
// before it hibernates.
package checkpoint

// StepPreLaunch marks a worker paused in front of its gated step.
const StepPreLaunch = "pre_launch"

// Checkpoint holds exactly what a worker needs to resume.
type Checkpoint struct {
	ExecutionID string      `json:"executionId"`
	Step        string      `json:"step"`
	Data        interface{} `json:"data,omitempty"`
}

// Key returns the storage key.
func Key(c *Checkpoint) string { return c.ExecutionID }
