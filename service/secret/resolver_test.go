package secret

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver(env map[string]string) *Resolver {
	return NewResolver(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithEnvLookup(func(name string) (string, bool) {
			value, ok := env[name]
			return value, ok
		}),
	)
}

func TestResolver_Resolve(t *testing.T) {
	resolver := newTestResolver(map[string]string{"DB_PASSWORD": "s3cret"})
	testCases := []struct {
		description string
		input       string
		expect      string
	}{
		{description: "plain value", input: "plain-value", expect: "plain-value"},
		{description: "empty value", input: "", expect: ""},
		{description: "env", input: "hibernator+secret://env/DB_PASSWORD", expect: "s3cret"},
		{description: "env missing", input: "hibernator+secret://env/MISSING", expect: ""},
		{description: "vault", input: "hibernator+secret://vault/my-secret", expect: "mock-vault-value-for-my-secret"},
		{description: "unknown provider", input: "hibernator+secret://unknown/x", expect: ""},
		{description: "malformed", input: "hibernator+secret://env", expect: ""},
		{description: "scy not configured", input: "hibernator+secret://scy/db.json", expect: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expect, resolver.Resolve(context.Background(), tc.input))
		})
	}
}

func TestResolver_ProcessEnv(t *testing.T) {
	t.Setenv("HIBERNATOR_TEST_TOKEN", "from-env")
	resolver := NewResolver(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	assert.Equal(t, "from-env", resolver.Resolve(context.Background(), "hibernator+secret://env/HIBERNATOR_TEST_TOKEN"))
}

func TestResolver_ResolveValue(t *testing.T) {
	resolver := newTestResolver(nil)
	assert.Equal(t, 42, resolver.ResolveValue(context.Background(), 42))
	assert.Equal(t, true, resolver.ResolveValue(context.Background(), true))
	assert.Nil(t, resolver.ResolveValue(context.Background(), nil))
	assert.Equal(t, "mock-vault-value-for-a", resolver.ResolveValue(context.Background(), "hibernator+secret://vault/a"))
}

func TestResolver_ResolveEnvironment(t *testing.T) {
	resolver := newTestResolver(map[string]string{"TOKEN": "t0k"})
	actual := resolver.ResolveEnvironment(context.Background(), map[string]interface{}{
		"TOKEN":   "hibernator+secret://env/TOKEN",
		"BROKEN":  "hibernator+secret://nope/x",
		"REGION":  "us-east-1",
		"REPLICA": 3,
		"EMPTY":   nil,
	})
	assert.Equal(t, map[string]string{
		"TOKEN":   "t0k",
		"BROKEN":  "",
		"REGION":  "us-east-1",
		"REPLICA": "3",
		"EMPTY":   "",
	}, actual)
}

func TestScy_ConcurrentUse(t *testing.T) {
	assert.NotNil(t, NewScy("", "").service)

	provider := &Scy{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := provider.Secret(context.Background(), "db/password", "")
			assert.Error(t, err)
		}()
	}
	wg.Wait()
	assert.NotNil(t, provider.service)
}
