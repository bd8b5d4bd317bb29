package worker

import "log/slog"

type options struct {
	logger *slog.Logger
}

// Option customises a worker.
type Option func(o *options)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) *options {
	ret := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
