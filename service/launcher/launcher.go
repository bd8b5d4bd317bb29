// Package launcher starts worker invocations on behalf of the runner and
// reports their outcome.
package launcher

import (
	"context"
	"fmt"

	"github.com/viant/hibernator/model/execution"
)

// Role selects which worker a launch runs.
type Role string

const (
	RoleUnified Role = "unified"
	RolePre     Role = "pre"
	RolePost    Role = "post"
)

// ParseRole validates a role name.
func ParseRole(name string) (Role, error) {
	switch role := Role(name); role {
	case RoleUnified, RolePre, RolePost:
		return role, nil
	}
	return "", fmt.Errorf("unsupported worker role: %q", name)
}

// Spec describes one launch.
type Spec struct {
	ExecutionID string
	Role        Role
	Env         map[string]string
}

// Launcher runs a worker to completion. An error means the worker could not
// be started or observed; a started worker always yields an outcome.
type Launcher interface {
	Launch(ctx context.Context, spec *Spec) (*execution.Outcome, error)
}
