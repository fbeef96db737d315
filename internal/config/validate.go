package config

import (
	"errors"
	"fmt"
)

// Validate checks the structural validity of a Config. Call Defaults first;
// validation does not fill missing values.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if err := cfg.Model.OllamaConfig.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch cfg.Memory.Backend {
	case MemoryBackendJSON, MemoryBackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("config: memory.backend %q is not supported (json, sqlite)", cfg.Memory.Backend))
	}
	if cfg.Memory.Path == "" {
		errs = append(errs, errors.New("config: memory.path is required"))
	}

	if cfg.Retrieval.Enabled && cfg.Retrieval.URL == "" {
		errs = append(errs, errors.New("config: retrieval.url is required when retrieval is enabled"))
	}

	for _, name := range cfg.Handlers.Enabled {
		switch name {
		case "investment", "technical", "longtext":
		default:
			errs = append(errs, fmt.Errorf("config: handlers.enabled contains unknown handler %q", name))
		}
	}

	if cfg.Gateway.Enabled && cfg.Gateway.Addr == "" {
		errs = append(errs, errors.New("config: gateway.addr is required when the gateway is enabled"))
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("config: logging.level %q is not supported (debug, info, warn, error)", cfg.Logging.Level))
	}
	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: logging.format %q is not supported (text, json)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
