package fs

import (
	"github.com/viant/hibernator/model/checkpoint"
	"github.com/viant/hibernator/model/handoff"
)

// Record file prefixes.
const (
	CheckpointPrefix = "state_"
	HandoffPrefix    = "context_"
)

// NewCheckpoints creates the checkpoint store: <baseURL>/state_<id>.json.
func NewCheckpoints(baseURL string, options ...Option) (*Service[checkpoint.Checkpoint], error) {
	return New[checkpoint.Checkpoint](baseURL, CheckpointPrefix, checkpoint.Key, options...)
}

// NewHandoffs creates the handoff store: <baseURL>/context_<id>.json.
func NewHandoffs(baseURL string, options ...Option) (*Service[handoff.Context], error) {
	return New[handoff.Context](baseURL, HandoffPrefix, handoff.Key, options...)
}
