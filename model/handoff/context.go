// Package handoff defines the record passed from a pre-worker to a
// post-worker in the split topology. Ownership moves with the record: once
// written only the post-worker reads or deletes it.
package handoff

import "time"

// Context carries the pre-worker findings to the post-worker.
type Context struct {
	ExecutionID string                 `json:"execution_id"`
	Target      string                 `json:"target,omitempty"`
	Action      string                 `json:"action,omitempty"`
	Risk        string                 `json:"risk,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Fields      map[string]interface{} `json:"fields,omitempty"`
}

// Key returns the storage key.
func Key(c *Context) string { return c.ExecutionID }

// AsMap flattens the context for use as decision request context.
func (c *Context) AsMap() map[string]interface{} {
	ret := map[string]interface{}{
		"execution_id": c.ExecutionID,
		"target":       c.Target,
		"action":       c.Action,
		"risk":         c.Risk,
		"timestamp":    c.Timestamp.Unix(),
	}
	for k, v := range c.Fields {
		if _, ok := ret[k]; !ok {
			ret[k] = v
		}
	}
	return ret
}
