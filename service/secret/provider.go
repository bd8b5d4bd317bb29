package secret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/viant/afs/url"
	"github.com/viant/scy"
	"github.com/viant/toolbox"
)

// Provider names recognised by the resolver.
const (
	ProviderEnv   = "env"
	ProviderVault = "vault"
	ProviderScy   = "scy"
)

// ErrNotFound is returned when a provider has no value for the path/key.
var ErrNotFound = errors.New("secret not found")

// Provider resolves a secret path with an optional key within it.
type Provider interface {
	Secret(ctx context.Context, path, key string) (string, error)
}

// Env reads secrets from the process environment; path is the variable
// name and key is ignored.
type Env struct {
	lookup func(string) (string, bool)
}

func (p *Env) Secret(_ context.Context, path, _ string) (string, error) {
	lookup := p.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(path)
	if !ok {
		return "", fmt.Errorf("%w: environment variable %s", ErrNotFound, path)
	}
	return value, nil
}

// Vault is a stand-in for an external vault returning a deterministic
// placeholder derived from path.
type Vault struct{}

func (p *Vault) Secret(_ context.Context, path, _ string) (string, error) {
	return "mock-vault-value-for-" + path, nil
}

// Scy loads secrets stored with viant/scy. A path without a scheme is
// resolved against BaseURL; key selects a field of a JSON secret.
type Scy struct {
	BaseURL       string
	EncryptionKey string
	once          sync.Once
	service       *scy.Service
}

// NewScy creates a scy provider with its service initialised.
func NewScy(baseURL, encryptionKey string) *Scy {
	ret := &Scy{BaseURL: baseURL, EncryptionKey: encryptionKey}
	ret.init()
	return ret
}

func (p *Scy) init() {
	p.once.Do(func() { p.service = scy.New() })
}

func (p *Scy) Secret(ctx context.Context, path, key string) (string, error) {
	p.init()
	location := path
	if !strings.Contains(path, "://") {
		if p.BaseURL == "" {
			return "", fmt.Errorf("scy base URL not configured for %s", path)
		}
		location = url.Join(p.BaseURL, path)
	}
	resource := scy.NewResource(nil, location, p.EncryptionKey)
	secret, err := p.service.Load(ctx, resource)
	if err != nil {
		return "", fmt.Errorf("failed to load scy secret: %w", err)
	}
	text := secret.String()
	if key == "" {
		return text, nil
	}
	aMap := map[string]interface{}{}
	if err := json.Unmarshal([]byte(text), &aMap); err != nil {
		return "", fmt.Errorf("scy secret is not a JSON object, cannot select key %s: %w", key, err)
	}
	value, ok := aMap[key]
	if !ok {
		return "", fmt.Errorf("%w: key %s", ErrNotFound, key)
	}
	return toolbox.AsString(value), nil
}
