package worker

import (
	"fmt"
	"os"
	"strings"

	"github.com/viant/hibernator/model/execution"
)

// Variables every launch receives.
const (
	EnvExecutionID = "EXECUTION_ID"
	EnvStatus      = "STATUS"
)

// Env is the launch contract of a worker.
type Env struct {
	ExecutionID string
	Status      execution.State
	Values      map[string]string
}

// NewEnv builds an Env from a variable map.
func NewEnv(values map[string]string) *Env {
	if values == nil {
		values = map[string]string{}
	}
	ret := &Env{Values: values, ExecutionID: values[EnvExecutionID], Status: execution.StateUnknown}
	if status, ok := values[EnvStatus]; ok && status != "" {
		ret.Status = execution.ParseState(status)
	}
	return ret
}

// EnvFromOS reads the process environment.
func EnvFromOS() *Env {
	values := map[string]string{}
	for _, pair := range os.Environ() {
		if index := strings.Index(pair, "="); index > 0 {
			values[pair[:index]] = pair[index+1:]
		}
	}
	return NewEnv(values)
}

// Lookup returns an injected variable.
func (e *Env) Lookup(key string) (string, bool) {
	value, ok := e.Values[key]
	return value, ok
}

// Has reports whether a non-empty value was injected for key.
func (e *Env) Has(key string) bool {
	value, ok := e.Values[key]
	return ok && value != ""
}

// IsApproved reports whether the core approved the execution.
func (e *Env) IsApproved() bool {
	return e.Status.IsApproved()
}

// Validate checks the execution id was supplied.
func (e *Env) Validate() error {
	if e == nil || strings.TrimSpace(e.ExecutionID) == "" {
		return fmt.Errorf("%s is not set", EnvExecutionID)
	}
	return nil
}
