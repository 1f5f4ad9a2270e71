package config

import (
	"errors"
	"fmt"
	"os"
)

// ValidationError contains details about what failed validation.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// validateConfig checks all config values for validity.
// Returns nil if valid, or joined errors for all validation failures.
func validateConfig(cfg *Config) error {
	var errs []error

	// Runtime must be one of: auto, docker, podman
	switch cfg.Runtime {
	case "auto", "docker", "podman":
	default:
		errs = append(errs, &ValidationError{
			Field:   "runtime",
			Value:   cfg.Runtime,
			Message: "must be one of: auto, docker, podman",
		})
	}

	// Backend must be cli or api
	switch cfg.Backend {
	case BackendCLI, BackendAPI:
	default:
		errs = append(errs, &ValidationError{
			Field:   "backend",
			Value:   cfg.Backend,
			Message: "must be one of: cli, api",
		})
	}

	// Registry, when set, must be a readable file
	if cfg.Registry != "" {
		if info, err := os.Stat(cfg.Registry); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "registry",
				Value:   cfg.Registry,
				Message: fmt.Sprintf("cannot read registry file: %v", err),
			})
		} else if info.IsDir() {
			errs = append(errs, &ValidationError{
				Field:   "registry",
				Value:   cfg.Registry,
				Message: "must be a file, not a directory",
			})
		}
	}

	// LogLevel must be one of: debug, info, warn, error (case-sensitive)
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
