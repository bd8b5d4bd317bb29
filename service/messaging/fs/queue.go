// Package fs provides a durable messaging.Queue that keeps one JSON file per
// message under an afs URL, so dispatch reports survive a runner restart.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/hibernator/internal/clock"
	"github.com/viant/hibernator/internal/idgen"
	"github.com/viant/hibernator/service/messaging"
)

const (
	pendingDir = "pending"
	doneDir    = "done"
	deadDir    = "dead"
	ext        = ".json"
)

var errProcessed = errors.New("message already processed")

// Config for the file-backed queue.
type Config struct {
	URL          string
	MaxRetries   int
	PollInterval time.Duration
}

// DefaultConfig returns a configuration rooted at URL.
func DefaultConfig(URL string) Config {
	return Config{URL: URL, MaxRetries: 3, PollInterval: 200 * time.Millisecond}
}

// Message is a queued payload together with its delivery bookkeeping.
type Message[T any] struct {
	ID        string    `json:"id"`
	Data      T         `json:"data"`
	Retries   int       `json:"retries"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	name      string
	queue     *Queue[T]
	mu        sync.Mutex
	processed bool
}

func (m *Message[T]) T() *T { return &m.Data }

// Ack moves the message to the done directory.
func (m *Message[T]) Ack() error {
	if err := m.settle(); err != nil {
		return err
	}
	return m.queue.move(context.Background(), m, doneDir)
}

// Nack puts the message back to pending until MaxRetries is exceeded, then
// parks it in the dead directory.
func (m *Message[T]) Nack(cause error) error {
	if err := m.settle(); err != nil {
		return err
	}
	m.Retries++
	if cause != nil {
		m.Error = cause.Error()
	}
	target := pendingDir
	if m.Retries > m.queue.config.MaxRetries {
		target = deadDir
	}
	return m.queue.move(context.Background(), m, target)
}

func (m *Message[T]) settle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return errProcessed
	}
	m.processed = true
	return nil
}

// Queue implements messaging.Queue on top of afs.
type Queue[T any] struct {
	fs       afs.Service
	config   Config
	mu       sync.Mutex
	inFlight map[string]bool
}

// NewQueue creates the queue directories under config.URL.
func NewQueue[T any](ctx context.Context, fs afs.Service, config Config) (*Queue[T], error) {
	if config.URL == "" {
		return nil, errors.New("queue URL was empty")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig(config.URL).PollInterval
	}
	if fs == nil {
		fs = afs.New()
	}
	q := &Queue[T]{fs: fs, config: config, inFlight: map[string]bool{}}
	for _, dir := range []string{pendingDir, doneDir, deadDir} {
		location := q.dir(dir)
		if ok, _ := fs.Exists(ctx, location); ok {
			continue
		}
		if err := fs.Create(ctx, location, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create queue directory %v: %w", location, err)
		}
	}
	return q, nil
}

func (q *Queue[T]) dir(name string) string { return url.Join(q.config.URL, name) }

// Publish writes the payload to the pending directory.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if t == nil {
		return errors.New("nil payload")
	}
	now := clock.Now()
	msg := &Message[T]{ID: idgen.New(), Data: *t, CreatedAt: now}
	msg.name = fmt.Sprintf("%020d-%s%s", now.UnixNano(), msg.ID, ext)
	return q.write(ctx, url.Join(q.dir(pendingDir), msg.name), msg)
}

// Consume returns the oldest pending message not already handed out,
// polling until one arrives or ctx is done.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	for {
		msg, err := q.next(ctx)
		if err != nil || msg != nil {
			return msg, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.config.PollInterval):
		}
	}
}

func (q *Queue[T]) next(ctx context.Context) (*Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	objects, err := q.fs.List(ctx, q.dir(pendingDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	var candidates []storage.Object
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ext) || q.inFlight[object.Name()] {
			continue
		}
		candidates = append(candidates, object)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name() < candidates[j].Name() })
	object := candidates[0]
	data, err := q.fs.DownloadWithURL(ctx, object.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to read message %v: %w", object.URL(), err)
	}
	msg := &Message[T]{}
	if err = json.Unmarshal(data, msg); err != nil {
		_ = q.fs.Move(ctx, object.URL(), url.Join(q.dir(deadDir), object.Name()))
		return nil, fmt.Errorf("failed to decode message %v: %w", object.URL(), err)
	}
	msg.name = object.Name()
	msg.queue = q
	q.inFlight[msg.name] = true
	return msg, nil
}

// move rewrites the message into dir and removes the pending copy.
func (q *Queue[T]) move(ctx context.Context, m *Message[T], dir string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	defer delete(q.inFlight, m.name)
	source := url.Join(q.dir(pendingDir), m.name)
	if dir == pendingDir {
		return q.write(ctx, source, m)
	}
	if err := q.write(ctx, url.Join(q.dir(dir), m.name), m); err != nil {
		return err
	}
	if err := q.fs.Delete(ctx, source); err != nil {
		return fmt.Errorf("failed to delete pending message %v: %w", source, err)
	}
	return nil
}

func (q *Queue[T]) write(ctx context.Context, URL string, m *Message[T]) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	return q.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data))
}

// Pending returns the number of messages awaiting delivery.
func (q *Queue[T]) Pending(ctx context.Context) (int, error) {
	return q.count(ctx, pendingDir)
}

// Dead returns the number of messages that exhausted their retries.
func (q *Queue[T]) Dead(ctx context.Context) (int, error) {
	return q.count(ctx, deadDir)
}

func (q *Queue[T]) count(ctx context.Context, dir string) (int, error) {
	objects, err := q.fs.List(ctx, q.dir(dir))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ext) {
			count++
		}
	}
	return count, nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
