// Package memory provides a buffered in-process messaging.Queue.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/viant/hibernator/internal/idgen"
	"github.com/viant/hibernator/service/messaging"
)

// ErrFull is returned by TryPublish when the buffer is exhausted.
var ErrFull = errors.New("queue is full")

var errProcessed = errors.New("message already processed")

// Config for memory queue implementation.
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for memory queue.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		QueueBuffer: 100,
	}
}

// Message is an in-memory queue message.
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	retryCount int
	mu         sync.Mutex
	processed  bool
}

// ID returns the message identifier.
func (m *Message[T]) ID() string { return m.id }

// T returns the message payload.
func (m *Message[T]) T() *T { return &m.payload }

// Ack acknowledges the message as processed successfully.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return errProcessed
	}
	m.processed = true
	return nil
}

// Nack requeues the message after RetryDelay until MaxRetries is reached,
// then moves it to the dead letter list.
func (m *Message[T]) Nack(_ error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return errProcessed
	}
	m.processed = true
	m.retryCount++
	if m.retryCount > m.queue.config.MaxRetries {
		m.queue.dlqMu.Lock()
		m.queue.dlq = append(m.queue.dlq, m)
		m.queue.dlqMu.Unlock()
		return nil
	}
	retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, retryCount: m.retryCount}
	go func() {
		time.Sleep(m.queue.config.RetryDelay)
		m.queue.messages <- retry
	}()
	return nil
}

// Queue implements an in-memory messaging.Queue.
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dlq      []*Message[T]
	dlqMu    sync.Mutex
}

// NewQueue creates a new in-memory queue.
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

func (q *Queue[T]) newMessage(t *T) *Message[T] {
	return &Message[T]{id: idgen.New(), payload: *t, queue: q}
}

// Publish adds a new item to the queue, blocking while the buffer is full.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return errors.New("nil payload")
	}
	select {
	case q.messages <- q.newMessage(t):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPublish adds an item without blocking, ErrFull when the buffer is
// exhausted.
func (q *Queue[T]) TryPublish(t *T) error {
	if t == nil {
		return errors.New("nil payload")
	}
	select {
	case q.messages <- q.newMessage(t):
		return nil
	default:
		return ErrFull
	}
}

// Consume retrieves a single item from the queue.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of buffered messages.
func (q *Queue[T]) Len() int { return len(q.messages) }

// DeadLetters returns the payloads that exhausted their retries.
func (q *Queue[T]) DeadLetters() []*T {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	ret := make([]*T, 0, len(q.dlq))
	for _, m := range q.dlq {
		ret = append(ret, m.T())
	}
	return ret
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
