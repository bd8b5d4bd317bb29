package inproc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/launcher"
	"github.com/viant/hibernator/service/worker"
)

func TestService_Launch(t *testing.T) {
	var seen *worker.Env
	srv := New().
		Register(launcher.RoleUnified, func(ctx context.Context, env *worker.Env) *execution.Outcome {
			seen = env
			return execution.Hibernated()
		}).
		Register(launcher.RolePre, func(ctx context.Context, env *worker.Env) *execution.Outcome {
			panic("boom")
		}).
		Register(launcher.RolePost, func(ctx context.Context, env *worker.Env) *execution.Outcome {
			return nil
		})

	spec := &launcher.Spec{ExecutionID: "e1", Role: launcher.RoleUnified, Env: map[string]string{
		worker.EnvExecutionID: "e1", worker.EnvStatus: "WAITING_FOR_HUMAN",
	}}
	outcome, err := srv.Launch(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, execution.ExitHibernate, outcome.Code)
	assert.Equal(t, "e1", seen.ExecutionID)
	assert.Equal(t, execution.StateWaitingForHuman, seen.Status)

	outcome, err = srv.Launch(context.Background(), &launcher.Spec{Role: launcher.RolePre})
	require.NoError(t, err)
	assert.True(t, outcome.IsFailed())

	outcome, err = srv.Launch(context.Background(), &launcher.Spec{Role: launcher.RolePost})
	require.NoError(t, err)
	assert.True(t, outcome.IsFailed())

	_, err = New().Launch(context.Background(), spec)
	assert.Error(t, err)
}
