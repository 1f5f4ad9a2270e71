package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RevCBH/mondeploy/internal/testutil"
)

// writeFile creates a file with the given content for testing
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0644)
	if err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	testutil.ClearDeployEnv(t)
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Runtime != DefaultRuntime {
		t.Errorf("expected Runtime to be %q, got %q", DefaultRuntime, cfg.Runtime)
	}
	if cfg.Backend != DefaultBackend {
		t.Errorf("expected Backend to be %q, got %q", DefaultBackend, cfg.Backend)
	}
	if cfg.Registry != "" {
		t.Errorf("expected Registry to be empty, got %q", cfg.Registry)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("expected LogLevel to be %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.Source("runtime") != "default" {
		t.Errorf("expected runtime source default, got %q", cfg.Source("runtime"))
	}
	if cfg.IsDebug() {
		t.Error("expected debug off by default")
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	testutil.ClearDeployEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "stack.yaml"), "containers:\n  - {name: a, image: img-a}\n")

	configContent := `
runtime: podman
backend: api
registry: stack.yaml
docker_host: unix:///run/user/1000/podman/podman.sock
log_level: warn
`
	writeFile(t, filepath.Join(dir, FileName), configContent)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Runtime != "podman" {
		t.Errorf("expected Runtime 'podman', got %q", cfg.Runtime)
	}
	if cfg.Backend != BackendAPI {
		t.Errorf("expected Backend 'api', got %q", cfg.Backend)
	}
	if cfg.Registry != filepath.Join(dir, "stack.yaml") {
		t.Errorf("expected Registry resolved against dir, got %q", cfg.Registry)
	}
	if cfg.DockerHost != "unix:///run/user/1000/podman/podman.sock" {
		t.Errorf("unexpected DockerHost %q", cfg.DockerHost)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected LogLevel 'warn', got %q", cfg.LogLevel)
	}
	if cfg.Source("backend") != "config:.mondeploy.yaml" {
		t.Errorf("unexpected backend source %q", cfg.Source("backend"))
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	testutil.ClearDeployEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "runtime: [unterminated")

	_, err := LoadConfig(dir)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_EnvBeatsFile(t *testing.T) {
	testutil.ClearDeployEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), "runtime: podman\n")
	t.Setenv(EnvRuntime, "docker")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Runtime != "docker" {
		t.Errorf("expected env to win, got %q", cfg.Runtime)
	}
	if cfg.Source("runtime") != "env:MONDEPLOY_RUNTIME" {
		t.Errorf("unexpected source %q", cfg.Source("runtime"))
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	testutil.ClearDeployEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "MONDEPLOY_BACKEND=api\nMONDEPLOY_LOG_LEVEL=debug\n")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != BackendAPI {
		t.Errorf("expected .env backend 'api', got %q", cfg.Backend)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected process env to beat .env, got %q", cfg.LogLevel)
	}
	if _, set := os.LookupEnv(EnvBackend); set && os.Getenv(EnvBackend) != "" {
		t.Error(".env must not leak into the process environment")
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	testutil.ClearDeployEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, FileName), `
runtime: containerd
backend: grpc
registry: missing.yaml
log_level: trace
`)

	_, err := LoadConfig(dir)
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := map[string]bool{}
	for _, e := range err.(interface{ Unwrap() error }).Unwrap().(interface{ Unwrap() []error }).Unwrap() {
		var verr *ValidationError
		if !errors.As(e, &verr) {
			t.Fatalf("unexpected error type %T", e)
		}
		fields[verr.Field] = true
	}
	for _, f := range []string{"runtime", "backend", "registry", "log_level"} {
		if !fields[f] {
			t.Errorf("expected validation error for %s, got %v", f, fields)
		}
	}
}

func TestValidateConfig_RegistryDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Registry = t.TempDir()

	err := validateConfig(cfg)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "registry" {
		t.Fatalf("expected registry validation error, got %v", err)
	}
	if !strings.Contains(verr.Error(), "must be a file") {
		t.Errorf("unexpected message: %s", verr.Error())
	}
}

func TestApplyFlags(t *testing.T) {
	base := DefaultConfig()
	base.setSource("runtime", "env:MONDEPLOY_RUNTIME")

	cfg, err := base.ApplyFlags(FlagOverrides{Backend: "api", Verbose: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend != BackendAPI || cfg.Source("backend") != "cli:--backend" {
		t.Errorf("expected backend api from cli, got %q from %q", cfg.Backend, cfg.Source("backend"))
	}
	if !cfg.IsDebug() {
		t.Error("expected --verbose to enable debug")
	}
	if cfg.Source("runtime") != "env:MONDEPLOY_RUNTIME" {
		t.Errorf("expected untouched runtime source, got %q", cfg.Source("runtime"))
	}

	// The receiver is not modified
	if base.Backend != DefaultBackend || base.Source("backend") != "default" {
		t.Error("ApplyFlags must not mutate the receiver")
	}
}

func TestApplyFlags_Invalid(t *testing.T) {
	_, err := DefaultConfig().ApplyFlags(FlagOverrides{Runtime: "lxc"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "runtime" {
		t.Fatalf("expected runtime validation error, got %v", err)
	}
}

func TestEnvOverrides_EmptyNoChange(t *testing.T) {
	cfg := &Config{Runtime: "original-runtime", LogLevel: "original-level"}

	applyEnvOverrides(cfg, func(string) string { return "" })

	if cfg.Runtime != "original-runtime" {
		t.Errorf("expected Runtime to remain 'original-runtime', got '%s'", cfg.Runtime)
	}
	if cfg.LogLevel != "original-level" {
		t.Errorf("expected LogLevel to remain 'original-level', got '%s'", cfg.LogLevel)
	}
}

func TestEnvOverrides_AllFields(t *testing.T) {
	env := map[string]string{
		EnvRuntime:    "podman",
		EnvBackend:    "api",
		EnvRegistry:   "/etc/mondeploy/stack.yaml",
		EnvDockerHost: "tcp://10.0.0.5:2375",
		EnvLogLevel:   "debug",
	}
	cfg := DefaultConfig()

	applyEnvOverrides(cfg, func(k string) string { return env[k] })

	if cfg.Runtime != "podman" || cfg.Backend != BackendAPI || cfg.Registry != "/etc/mondeploy/stack.yaml" ||
		cfg.DockerHost != "tcp://10.0.0.5:2375" || cfg.LogLevel != "debug" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if cfg.Source("docker_host") != "env:MONDEPLOY_DOCKER_HOST" {
		t.Errorf("unexpected source %q", cfg.Source("docker_host"))
	}
}
