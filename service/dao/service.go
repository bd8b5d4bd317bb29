// Package dao defines the storage contract shared by checkpoint, handoff and
// in-memory core stores.
package dao

import (
	"context"
)

// Service is a keyed record store. Load returns ErrNotFound when the key is
// absent.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
