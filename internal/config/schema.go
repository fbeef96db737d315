// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation.
package config

import (
	"time"

	"github.com/aura-ai/aura/internal/agent"
	"github.com/aura-ai/aura/internal/provider"
	"github.com/aura-ai/aura/internal/retrieval"
	"github.com/aura-ai/aura/internal/tools"
)

// Memory backend names accepted in the memory section.
const (
	MemoryBackendJSON   = "json"
	MemoryBackendSQLite = "sqlite"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Model configures the language model endpoint.
	Model ModelConfig `yaml:"model"`

	// Memory configures long-term memory persistence.
	Memory MemoryConfig `yaml:"memory"`

	// Search configures the web search tool.
	Search tools.SearchConfig `yaml:"search"`

	// Retrieval configures the knowledge base client.
	Retrieval RetrievalConfig `yaml:"retrieval"`

	// Agent configures the reason-act loop.
	Agent agent.LoopConfig `yaml:"agent"`

	// Classifier overrides the built-in keyword lists. Empty lists keep
	// the defaults.
	Classifier ClassifierConfig `yaml:"classifier"`

	// Handlers selects which specialized handlers run after the agent.
	Handlers HandlersConfig `yaml:"handlers"`

	// Gateway configures the HTTP API server.
	Gateway GatewayConfig `yaml:"gateway"`

	// Snapshots configures the scheduled memory backup job.
	Snapshots SnapshotConfig `yaml:"snapshots"`

	// Logging configures the slog handler.
	Logging LoggingConfig `yaml:"logging"`
}

// ModelConfig wraps the provider settings and the circuit breaker.
type ModelConfig struct {
	provider.OllamaConfig `yaml:",inline"`

	// Breaker configures the circuit breaker wrapped around model calls.
	Breaker provider.BreakerConfig `yaml:"breaker"`
}

// MemoryConfig selects and locates the memory store.
type MemoryConfig struct {
	// Backend is "json" or "sqlite".
	Backend string `yaml:"backend"`

	// Path is the store location: a JSON document or a SQLite database file.
	Path string `yaml:"path"`
}

// RetrievalConfig wraps the knowledge base client settings with a switch.
type RetrievalConfig struct {
	// Enabled turns the knowledge base path on. When false, knowledge
	// queries go straight to the agent.
	Enabled bool `yaml:"enabled"`

	retrieval.HTTPConfig `yaml:",inline"`
}

// ClassifierConfig carries optional keyword list overrides.
type ClassifierConfig struct {
	Realtime            []string `yaml:"realtime,omitempty"`
	Knowledge           []string `yaml:"knowledge,omitempty"`
	RememberCues        []string `yaml:"remember_cues,omitempty"`
	LikeCues            []string `yaml:"like_cues,omitempty"`
	PreferenceQuestions []string `yaml:"preference_questions,omitempty"`
	PersonalMemory      []string `yaml:"personal_memory,omitempty"`
}

// HandlersConfig selects the registered specialized handlers.
type HandlersConfig struct {
	// Enabled lists handler names in registration (precedence) order.
	// Empty means all built-in handlers.
	Enabled []string `yaml:"enabled,omitempty"`
}

// GatewayConfig configures the HTTP API server.
type GatewayConfig struct {
	// Enabled starts the HTTP server in serve mode.
	Enabled bool `yaml:"enabled"`

	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// ReadTimeout bounds request reading. Zero means 30s.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds response writing. Zero means 5m to leave room
	// for slow model completions.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown. Zero means 10s.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SnapshotConfig configures scheduled memory backups.
type SnapshotConfig struct {
	// Enabled turns the snapshot job on.
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression. Empty means daily at 03:00.
	Schedule string `yaml:"schedule"`

	// Dir is the backup directory. Empty means "backups" next to the store.
	Dir string `yaml:"dir"`

	// Keep is how many snapshots to retain. Zero means 7.
	Keep int `yaml:"keep"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	// Level is debug, info, warn, or error. Empty means info.
	Level string `yaml:"level"`

	// Format is "text" or "json". Empty means text.
	Format string `yaml:"format"`
}

// Defaults fills unset fields across all sections.
func (c *Config) Defaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	c.Model.OllamaConfig.Defaults()
	if c.Memory.Backend == "" {
		c.Memory.Backend = MemoryBackendJSON
	}
	if c.Memory.Path == "" {
		c.Memory.Path = "aura_memory.json"
	}
	c.Search.Defaults()
	c.Retrieval.HTTPConfig.Defaults()
	if len(c.Handlers.Enabled) == 0 {
		c.Handlers.Enabled = []string{"investment", "technical", "longtext"}
	}
	if c.Gateway.Addr == "" {
		c.Gateway.Addr = ":8080"
	}
	if c.Gateway.ReadTimeout == 0 {
		c.Gateway.ReadTimeout = 30 * time.Second
	}
	if c.Gateway.WriteTimeout == 0 {
		c.Gateway.WriteTimeout = 5 * time.Minute
	}
	if c.Gateway.ShutdownTimeout == 0 {
		c.Gateway.ShutdownTimeout = 10 * time.Second
	}
	if c.Snapshots.Schedule == "" {
		c.Snapshots.Schedule = "0 3 * * *"
	}
	if c.Snapshots.Dir == "" {
		c.Snapshots.Dir = "backups"
	}
	if c.Snapshots.Keep == 0 {
		c.Snapshots.Keep = 7
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}
