package store

import (
	"context"
	"sync"

	"github.com/viant/hibernator/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service keyed by
// the value returned from keySelector. Records are copied on the way in and
// out so callers cannot mutate stored state by accident.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]T
	keySelector func(*T) K
	stateOf     func(*T) string
}

// Option customises a MemoryStore.
type Option[K comparable, T any] func(s *MemoryStore[K, T])

// WithStateSelector enables dao.StateParameter filtering in List.
func WithStateSelector[K comparable, T any](fn func(*T) string) Option[K, T] {
	return func(s *MemoryStore[K, T]) { s.stateOf = fn }
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, options ...Option[K, T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]T),
		keySelector: keySelector,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = *v
	return nil
}

// Load returns a copy of the record or dao.ErrNotFound.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return &v, nil
}

// Delete removes a record, dao.ErrNotFound when absent.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// List returns copies of all stored records matching the parameters.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		record := v
		if s.stateOf != nil && !matchState(s.stateOf(&record), parameters) {
			continue
		}
		out = append(out, &record)
	}
	return out, nil
}

var _ dao.Service[string, struct{}] = (*MemoryStore[string, struct{}])(nil)
