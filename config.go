package hibernator

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/hibernator/service/launcher"
	"github.com/viant/hibernator/service/runner"
)

// MemoryCore selects the in-process approval core instead of a remote one.
const MemoryCore = "memory"

// Environment variables overriding configuration.
const (
	EnvCoreURL       = "CORE_URL"
	EnvAuthSecret    = "AUTH_SECRET"
	EnvCheckpointURL = "CHECKPOINT_URL"
	EnvHandoffURL    = "HANDOFF_URL"
)

// Config is a serialisable representation of the whole system. Zero values
// of nested fields are filled from DefaultConfig when loaded.
type Config struct {
	Core     CoreConfig     `json:"core" yaml:"core" toml:"core"`
	Runner   RunnerConfig   `json:"runner" yaml:"runner" toml:"runner"`
	Store    StoreConfig    `json:"store" yaml:"store" toml:"store"`
	Secret   SecretConfig   `json:"secret" yaml:"secret" toml:"secret"`
	Launcher LauncherConfig `json:"launcher" yaml:"launcher" toml:"launcher"`
	Tracing  TracingConfig  `json:"tracing" yaml:"tracing" toml:"tracing"`
}

type CoreConfig struct {
	// URL of the approval core, or "memory".
	URL        string        `json:"url" yaml:"url" toml:"url"`
	AuthSecret string        `json:"-" yaml:"authSecret" toml:"authSecret"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout" toml:"timeout"`
}

type RunnerConfig struct {
	Topology              string        `json:"topology" yaml:"topology" toml:"topology"`
	PollInterval          time.Duration `json:"pollInterval" yaml:"pollInterval" toml:"pollInterval"`
	PassThroughInProgress bool          `json:"passThroughInProgress" yaml:"passThroughInProgress" toml:"passThroughInProgress"`
	Workers               int           `json:"workers" yaml:"workers" toml:"workers"`
}

type StoreConfig struct {
	CheckpointURL string `json:"checkpointURL" yaml:"checkpointURL" toml:"checkpointURL"`
	HandoffURL    string `json:"handoffURL" yaml:"handoffURL" toml:"handoffURL"`
	// ReportURL keeps dispatch reports on disk when set, in memory otherwise.
	ReportURL     string `json:"reportURL" yaml:"reportURL" toml:"reportURL"`
}

// SecretConfig configures the scy secret provider.
type SecretConfig struct {
	ScyBaseURL string `json:"scyBaseURL" yaml:"scyBaseURL" toml:"scyBaseURL"`
	ScyKey     string `json:"scyKey" yaml:"scyKey" toml:"scyKey"`
}

// LauncherConfig configures the shell launcher.
type LauncherConfig struct {
	Commands    map[string]string `json:"commands" yaml:"commands" toml:"commands"`
	Host        string            `json:"host" yaml:"host" toml:"host"`
	Credentials string            `json:"credentials" yaml:"credentials" toml:"credentials"`
	Timeout     time.Duration     `json:"timeout" yaml:"timeout" toml:"timeout"`
}

type TracingConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	Output  string `json:"output" yaml:"output" toml:"output"`
}

// DefaultConfig returns a Config populated with default values. Callers may
// modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	loop := runner.DefaultConfig()
	return &Config{
		Core: CoreConfig{
			URL:     "http://localhost:8080",
			Timeout: 5 * time.Second,
		},
		Runner: RunnerConfig{
			Topology:     string(loop.Topology),
			PollInterval: loop.PollInterval,
			Workers:      loop.Workers,
		},
		Store: StoreConfig{
			CheckpointURL: "checkpoint",
			HandoffURL:    "handoff",
		},
		Secret: SecretConfig{
			ScyKey: "blowfish://default",
		},
		Launcher: LauncherConfig{
			Commands: map[string]string{
				string(launcher.RoleUnified): "hibernator worker unified",
				string(launcher.RolePre):     "hibernator worker pre",
				string(launcher.RolePost):    "hibernator worker post",
			},
			Timeout: 5 * time.Minute,
		},
	}
}

// LoadConfig reads a YAML (or, for a .toml URL, TOML) configuration from URL
// through afs, then applies environment overrides. An empty URL yields the
// defaults plus overrides.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	cfg := DefaultConfig()
	if URL != "" {
		data, err := afs.New().DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
		}
		if err = decodeConfig(URL, data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", URL, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeConfig(URL string, data []byte, cfg *Config) error {
	if strings.HasSuffix(strings.ToLower(URL), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if value, ok := lookup(EnvCoreURL); ok && value != "" {
		c.Core.URL = value
	}
	if value, ok := lookup(EnvAuthSecret); ok && value != "" {
		c.Core.AuthSecret = value
	}
	if value, ok := lookup(EnvCheckpointURL); ok && value != "" {
		c.Store.CheckpointURL = value
	}
	if value, ok := lookup(EnvHandoffURL); ok && value != "" {
		c.Store.HandoffURL = value
	}
}

// IsMemoryCore reports whether the in-process core is configured.
func (c *Config) IsMemoryCore() bool {
	return strings.EqualFold(c.Core.URL, MemoryCore)
}

// LoopConfig converts the runner section into the loop configuration.
func (c *Config) LoopConfig() runner.Config {
	return runner.Config{
		PollInterval:          c.Runner.PollInterval,
		Topology:              runner.Topology(strings.ToLower(c.Runner.Topology)),
		PassThroughInProgress: c.Runner.PassThroughInProgress,
		Workers:               c.Runner.Workers,
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config was nil")
	}
	var errs []string
	if c.Core.URL == "" {
		errs = append(errs, "core.url is required")
	}
	if c.Core.Timeout <= 0 {
		errs = append(errs, "core.timeout must be > 0")
	}
	if c.Store.CheckpointURL == "" {
		errs = append(errs, "store.checkpointURL is required")
	}
	if c.Store.HandoffURL == "" {
		errs = append(errs, "store.handoffURL is required")
	}
	for role := range c.Launcher.Commands {
		if _, err := launcher.ParseRole(role); err != nil {
			errs = append(errs, "launcher.commands: "+err.Error())
		}
	}
	loop := c.LoopConfig()
	if err := loop.Validate(); err != nil {
		errs = append(errs, "runner: "+err.Error())
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}
