package runner

import (
	"fmt"
	"time"
)

// Topology selects how workers are dispatched.
type Topology string

const (
	TopologyUnified Topology = "unified"
	TopologySplit   Topology = "split"
)

// Config represents orchestration loop configuration.
type Config struct {
	// PollInterval is the pause between poll cycles.
	PollInterval time.Duration

	Topology Topology

	// PassThroughInProgress launches unified workers for PENDING and RUNNING
	// executions too.
	PassThroughInProgress bool

	// Workers bounds parallel dispatch across distinct executions; 1 keeps
	// the loop strictly sequential.
	Workers int
}

// DefaultConfig returns the default loop configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 3 * time.Second,
		Topology:     TopologyUnified,
		Workers:      1,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Topology {
	case TopologyUnified, TopologySplit:
	default:
		return fmt.Errorf("unsupported topology: %q", c.Topology)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive: %v", c.PollInterval)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1: %d", c.Workers)
	}
	return nil
}
