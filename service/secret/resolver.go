package secret

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/toolbox"
)

// Resolver maps secret references to values using a fixed provider table.
type Resolver struct {
	providers map[string]Provider
	logger    *slog.Logger
}

// Option customises a Resolver.
type Option func(r *Resolver)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithEnvLookup replaces the environment lookup used by the env provider.
func WithEnvLookup(lookup func(string) (string, bool)) Option {
	return func(r *Resolver) { r.providers[ProviderEnv] = &Env{lookup: lookup} }
}

// WithScy configures the scy provider location and encryption key.
func WithScy(baseURL, encryptionKey string) Option {
	return func(r *Resolver) {
		r.providers[ProviderScy] = NewScy(baseURL, encryptionKey)
	}
}

// NewResolver creates a resolver with the env, vault and scy providers.
func NewResolver(options ...Option) *Resolver {
	ret := &Resolver{
		providers: map[string]Provider{
			ProviderEnv:   &Env{},
			ProviderVault: &Vault{},
			ProviderScy:   NewScy("", ""),
		},
		logger: slog.Default(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Resolve returns the secret value for a reference, value unchanged when it
// is not a reference, and "" when resolution fails.
func (r *Resolver) Resolve(ctx context.Context, value string) (resolved string) {
	if !IsReference(value) {
		return value
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("secret resolution panicked", "reference", value, "error", fmt.Sprint(rec))
			resolved = ""
		}
	}()
	ref, err := ParseReference(value)
	if err != nil {
		r.logger.Error("malformed secret reference", "reference", value, "error", err)
		return ""
	}
	provider, ok := r.providers[ref.Provider]
	if !ok {
		r.logger.Error("unknown secret provider", "reference", value, "provider", ref.Provider)
		return ""
	}
	r.logger.Info("resolving secret", "reference", value)
	secret, err := provider.Secret(ctx, ref.Path, ref.Key)
	if err != nil {
		r.logger.Error("failed to resolve secret", "reference", value, "error", err)
		return ""
	}
	return secret
}

// ResolveValue resolves string values; anything else passes through.
func (r *Resolver) ResolveValue(ctx context.Context, value interface{}) interface{} {
	text, ok := value.(string)
	if !ok {
		return value
	}
	return r.Resolve(ctx, text)
}

// ResolveEnvironment resolves every entry of a declared environment. Each
// key is always present in the result; only its value may be empty.
func (r *Resolver) ResolveEnvironment(ctx context.Context, env map[string]interface{}) map[string]string {
	ret := make(map[string]string, len(env))
	for key, value := range env {
		resolved := r.ResolveValue(ctx, value)
		if resolved == nil {
			ret[key] = ""
			continue
		}
		ret[key] = toolbox.AsString(resolved)
	}
	return ret
}
