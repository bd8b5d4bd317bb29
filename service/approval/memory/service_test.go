package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/approval"
	"github.com/viant/hibernator/service/approval/memory"
	"github.com/viant/hibernator/service/dao"
)

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	core := memory.New()

	instance, err := core.Trigger(ctx, "exec-1", map[string]interface{}{
		"environment": map[string]interface{}{"REGION": "eu"},
	})
	require.NoError(t, err)
	assert.Equal(t, execution.StateWaitingForHuman, instance.State)

	_, err = core.Trigger(ctx, "exec-1", nil)
	assert.Error(t, err)

	pending, err := core.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "exec-1", pending[0].ID)

	decision, err := core.Decide(ctx, "exec-1", true, "ok")
	require.NoError(t, err)
	assert.True(t, decision.Approved)

	_, err = core.Decide(ctx, "exec-1", false, "again")
	assert.True(t, errors.Is(err, memory.ErrInvalidTransition))

	instances, err := core.Instances(ctx)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, execution.StateApproved, instances[0].State)
	assert.Equal(t, map[string]interface{}{"REGION": "eu"}, instances[0].Environment())

	require.NoError(t, core.Complete(ctx, "exec-1"))
	instances, _ = core.Instances(ctx)
	assert.Equal(t, execution.StateCompleted, instances[0].State)

	pending, _ = core.ListPending(ctx)
	assert.Empty(t, pending)
}

func TestService_RequestDecision(t *testing.T) {
	ctx := context.Background()
	core := memory.New(memory.WithInitialState(execution.StateRunning))

	_, err := core.Trigger(ctx, "exec-2", nil)
	require.NoError(t, err)
	pending, _ := core.ListPending(ctx)
	assert.Empty(t, pending)

	require.NoError(t, core.RequestDecision(ctx, approval.NewRequest("exec-2", map[string]interface{}{"risk": "HIGH"})))
	pending, _ = core.ListPending(ctx)
	require.Len(t, pending, 1)

	require.NoError(t, core.RequestDecision(ctx, approval.NewRequest("exec-new", nil)))
	pending, _ = core.ListPending(ctx)
	assert.Len(t, pending, 2)

	_, err = core.Decide(ctx, "exec-2", false, "too risky")
	require.NoError(t, err)
	err = core.RequestDecision(ctx, approval.NewRequest("exec-2", nil))
	assert.True(t, errors.Is(err, memory.ErrInvalidTransition))

	err = core.RequestDecision(ctx, &approval.Request{ExecutionID: "x", Decision: "APPROVE"})
	assert.Error(t, err)
	err = core.RequestDecision(ctx, &approval.Request{})
	assert.True(t, errors.Is(err, dao.ErrInvalidID))
}

func TestService_Events(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	core := memory.New()

	_, err := core.Trigger(ctx, "exec-3", nil)
	require.NoError(t, err)
	_, err = core.Decide(ctx, "exec-3", true, "")
	require.NoError(t, err)

	var topics []string
	for i := 0; i < 2; i++ {
		msg, err := core.Queue().Consume(ctx)
		require.NoError(t, err)
		topics = append(topics, msg.T().Topic)
		assert.Equal(t, "exec-3", msg.T().ExecutionID)
		_ = msg.Ack()
	}
	assert.Equal(t, []string{approval.TopicInstanceCreated, approval.TopicDecisionCreated}, topics)
}
