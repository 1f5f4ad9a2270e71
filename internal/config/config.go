package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional per-directory config file.
const FileName = ".mondeploy.yaml"

// BackendType selects how the runtime is driven.
type BackendType string

const (
	// BackendCLI invokes the docker/podman binary with argument lists.
	BackendCLI BackendType = "cli"

	// BackendAPI talks to the Docker Engine API directly.
	BackendAPI BackendType = "api"
)

// Config holds all configuration for a deployment run.
// It is immutable after creation via LoadConfig() and ApplyFlags().
type Config struct {
	// Runtime is the container runtime binary: "auto", "docker" or "podman"
	Runtime string `yaml:"runtime"`

	// Backend selects the CLI or Engine API driver
	Backend BackendType `yaml:"backend"`

	// Registry is a path to a registry file; empty uses the built-in stack.
	// Relative paths are resolved from the config directory.
	Registry string `yaml:"registry"`

	// DockerHost overrides DOCKER_HOST for the api backend
	DockerHost string `yaml:"docker_host"`

	// LogLevel controls log verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// sources records where each overridden field came from
	sources map[string]string
}

// Source reports where a field's value came from: "default",
// "config:.mondeploy.yaml", "env:<VAR>" or "cli:--<flag>".
func (c *Config) Source(field string) string {
	if src, ok := c.sources[field]; ok {
		return src
	}
	return "default"
}

func (c *Config) setSource(field, src string) {
	if c.sources == nil {
		c.sources = make(map[string]string)
	}
	c.sources[field] = src
}

// IsDebug reports whether debug output is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// LoadConfig loads configuration from dir.
// It applies defaults, then file values, then environment overrides
// (process environment first, then dir/.env), then validates.
//
// Parameters:
//   - dir: directory holding .mondeploy.yaml and .env (usually the working directory)
//
// Returns the validated Config or an error if validation fails.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()

	// Try to load config file (optional)
	configPath := filepath.Join(dir, FileName)
	if data, err := os.ReadFile(configPath); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		mergeFile(cfg, &fileCfg)
	}
	// Note: missing config file is not an error (use defaults)

	// .env is optional too; real environment variables win over it
	dotenv, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil {
		dotenv = nil
	}
	applyEnvOverrides(cfg, func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	})

	// Resolve relative paths
	if cfg.Registry != "" && !filepath.IsAbs(cfg.Registry) {
		cfg.Registry = filepath.Join(dir, cfg.Registry)
	}

	// Validate
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// mergeFile copies the fields set in the config file over the defaults.
func mergeFile(cfg, file *Config) {
	src := "config:" + FileName
	if file.Runtime != "" {
		cfg.Runtime = file.Runtime
		cfg.setSource("runtime", src)
	}
	if file.Backend != "" {
		cfg.Backend = file.Backend
		cfg.setSource("backend", src)
	}
	if file.Registry != "" {
		cfg.Registry = file.Registry
		cfg.setSource("registry", src)
	}
	if file.DockerHost != "" {
		cfg.DockerHost = file.DockerHost
		cfg.setSource("docker_host", src)
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
		cfg.setSource("log_level", src)
	}
}

// FlagOverrides holds command-line values; empty fields leave config untouched.
type FlagOverrides struct {
	Runtime  string
	Backend  string
	Registry string
	Verbose  bool
}

// ApplyFlags returns a copy of cfg with command-line overrides applied and
// re-validated. Flags have the highest precedence.
func (c *Config) ApplyFlags(f FlagOverrides) (*Config, error) {
	out := *c
	out.sources = make(map[string]string, len(c.sources))
	for k, v := range c.sources {
		out.sources[k] = v
	}

	if f.Runtime != "" {
		out.Runtime = f.Runtime
		out.setSource("runtime", "cli:--runtime")
	}
	if f.Backend != "" {
		out.Backend = BackendType(f.Backend)
		out.setSource("backend", "cli:--backend")
	}
	if f.Registry != "" {
		out.Registry = f.Registry
		out.setSource("registry", "cli:--registry")
	}
	if f.Verbose {
		out.LogLevel = "debug"
		out.setSource("log_level", "cli:--verbose")
	}

	if err := validateConfig(&out); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &out, nil
}
