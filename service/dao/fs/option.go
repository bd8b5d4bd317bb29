package fs

import "github.com/viant/afs"

type config struct {
	fs afs.Service
}

// Option customises a filesystem store.
type Option func(c *config)

// WithFS overrides the afs service, mostly useful with in-memory storage.
func WithFS(fs afs.Service) Option {
	return func(c *config) { c.fs = fs }
}
