package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aura-ai/aura/internal/agent"
	"github.com/aura-ai/aura/internal/classify"
	"github.com/aura-ai/aura/internal/config"
	"github.com/aura-ai/aura/internal/extract"
	"github.com/aura-ai/aura/internal/handler"
	"github.com/aura-ai/aura/internal/memory"
	"github.com/aura-ai/aura/internal/memory/sqlite"
	"github.com/aura-ai/aura/internal/orchestrator"
	"github.com/aura-ai/aura/internal/provider"
	"github.com/aura-ai/aura/internal/retrieval"
	"github.com/aura-ai/aura/internal/tool"
	"github.com/aura-ai/aura/internal/tools"
)

// app holds the wired assistant and the resources that need closing.
type app struct {
	config       *config.Config
	logger       *slog.Logger
	store        memory.Store
	provider     provider.Provider
	orchestrator *orchestrator.Orchestrator
}

// buildApp loads configuration and wires every collaborator into a ready
// orchestrator. The returned app owns the memory store; call close when done.
func buildApp(cfgPath string) (*app, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	logger, err := buildLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg.Memory)
	if err != nil {
		return nil, err
	}

	p := provider.NewBreaker(provider.NewOllamaClient(cfg.Model.OllamaConfig), cfg.Model.Breaker)

	knowledge := retrieval.Disabled()
	if cfg.Retrieval.Enabled {
		knowledge = retrieval.NewHTTPClient(cfg.Retrieval.HTTPConfig)
	}

	registry, err := buildToolRegistry(cfg, store, knowledge)
	if err != nil {
		store.Close()
		return nil, err
	}

	loop := agent.NewLoop(p, registry, cfg.Agent, logger)

	handlers := buildHandlers(cfg.Handlers.Enabled, p, logger)

	classifier := classify.New(classify.Keywords{
		Realtime:            cfg.Classifier.Realtime,
		Knowledge:           cfg.Classifier.Knowledge,
		RememberCues:        cfg.Classifier.RememberCues,
		LikeCues:            cfg.Classifier.LikeCues,
		PreferenceQuestions: cfg.Classifier.PreferenceQuestions,
		PersonalMemory:      cfg.Classifier.PersonalMemory,
	})

	orch := orchestrator.New(
		classifier,
		extract.New(p, logger),
		store,
		knowledge,
		loop,
		handlers,
		p,
		orchestrator.Config{SystemPrompt: cfg.Model.SystemPrompt},
		logger,
	)

	return &app{
		config:       cfg,
		logger:       logger,
		store:        store,
		provider:     p,
		orchestrator: orch,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("closing memory store", "error", err)
	}
}

// loadConfig reads the config file when one exists. A missing file is not
// an error: the assistant runs on defaults.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(path); err == nil {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = &config.Config{}
	}

	cfg.Defaults()
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", cfg.Level)
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch cfg.Format {
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		h = slog.NewTextHandler(os.Stderr, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(h), nil
}

func openStore(cfg config.MemoryConfig) (memory.Store, error) {
	switch cfg.Backend {
	case config.MemoryBackendJSON:
		return memory.OpenJSONStore(cfg.Path)
	case config.MemoryBackendSQLite:
		return sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown memory backend %q", cfg.Backend)
	}
}

// buildHandlers registers the enabled specialized handlers in the order
// they are listed; order is match precedence. Unknown names were rejected
// by config validation.
func buildHandlers(enabled []string, p provider.Provider, logger *slog.Logger) *handler.Registry {
	registry := handler.NewRegistry(logger)
	for _, name := range enabled {
		switch name {
		case "investment":
			registry.Register(handler.NewInvestmentHandler(p))
		case "technical":
			registry.Register(handler.NewTechnicalHandler(p))
		case "longtext":
			registry.Register(handler.NewLongTextHandler(p))
		}
	}
	return registry
}

func buildToolRegistry(cfg *config.Config, store memory.Store, knowledge retrieval.Client) (*tool.Registry, error) {
	registry := tool.NewRegistry()

	toolset := []tool.Tool{
		tools.NewWebSearchTool(tools.NewSearchClient(cfg.Search)),
		&tools.ReadFileTool{},
		&tools.ReadFileLinesTool{},
		&tools.WriteFileTool{},
		&tools.ListDirectoryTool{},
		tools.NewRememberFactTool(store),
		tools.NewRecallFactTool(store),
	}
	if cfg.Retrieval.Enabled {
		toolset = append(toolset, tools.NewKnowledgeTool(knowledge))
	}

	var errs []error
	for _, t := range toolset {
		errs = append(errs, registry.Register(t))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return registry, nil
}
