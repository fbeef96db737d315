package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aura-ai/aura/internal/config"
)

func validConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Defaults()
	return cfg
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	t.Parallel()

	if err := config.Validate(validConfig()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantSub string
	}{
		{
			name:    "unsupported version",
			mutate:  func(c *config.Config) { c.Version = "2" },
			wantSub: "unsupported version",
		},
		{
			name:    "unknown memory backend",
			mutate:  func(c *config.Config) { c.Memory.Backend = "redis" },
			wantSub: "memory.backend",
		},
		{
			name:    "empty memory path",
			mutate:  func(c *config.Config) { c.Memory.Path = "" },
			wantSub: "memory.path",
		},
		{
			name:    "retrieval enabled without url",
			mutate:  func(c *config.Config) { c.Retrieval.Enabled = true },
			wantSub: "retrieval.url",
		},
		{
			name:    "unknown handler name",
			mutate:  func(c *config.Config) { c.Handlers.Enabled = append(c.Handlers.Enabled, "astrology") },
			wantSub: "handlers.enabled",
		},
		{
			name:    "bad logging level",
			mutate:  func(c *config.Config) { c.Logging.Level = "verbose" },
			wantSub: "logging.level",
		},
		{
			name:    "bad model url scheme",
			mutate:  func(c *config.Config) { c.Model.BaseURL = "ftp://localhost" },
			wantSub: "base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := config.Validate(cfg)
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("AURA_TEST_MODEL", "qwen3:8b")

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
version: "1"
model:
  model: ${AURA_TEST_MODEL}
  base_url: ${AURA_TEST_URL:-http://localhost:11434/v1}
memory:
  backend: sqlite
  path: aura.db
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model.Model != "qwen3:8b" {
		t.Errorf("model = %q, want env value", cfg.Model.Model)
	}
	if cfg.Model.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("base_url = %q, want default expansion", cfg.Model.BaseURL)
	}
	if cfg.Memory.Backend != config.MemoryBackendSQLite {
		t.Errorf("backend = %q", cfg.Memory.Backend)
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: ${AURA_NO_SUCH_VAR}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "AURA_NO_SUCH_VAR") {
		t.Errorf("Load() error = %v, want unresolved variable error", err)
	}
}
