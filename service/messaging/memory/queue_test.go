package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ID string
}

func TestQueue_PublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](DefaultConfig())

	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, queue.Publish(ctx, &payload{ID: id}))
	}
	assert.Equal(t, 3, queue.Len())

	for _, id := range []string{"1", "2", "3"} {
		msg, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.Equal(t, id, msg.T().ID)
		require.NoError(t, msg.Ack())
		assert.Error(t, msg.Ack())
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err := queue.Consume(timeoutCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_NackRetriesThenDeadLetters(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[payload](Config{MaxRetries: 1, RetryDelay: time.Millisecond, QueueBuffer: 2})
	require.NoError(t, queue.Publish(ctx, &payload{ID: "x"}))

	msg, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, msg.Nack(errors.New("first")))

	consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	msg, err = queue.Consume(consumeCtx)
	require.NoError(t, err)
	assert.Equal(t, "x", msg.T().ID)
	require.NoError(t, msg.Nack(errors.New("second")))

	dead := queue.DeadLetters()
	require.Len(t, dead, 1)
	assert.Equal(t, "x", dead[0].ID)
}

func TestQueue_TryPublish(t *testing.T) {
	queue := NewQueue[payload](Config{QueueBuffer: 1})
	require.NoError(t, queue.TryPublish(&payload{ID: "1"}))
	assert.ErrorIs(t, queue.TryPublish(&payload{ID: "2"}), ErrFull)
}
