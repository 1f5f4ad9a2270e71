package container

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/RevCBH/mondeploy/internal/registry"
)

// CLIManager implements Manager using docker/podman CLI.
type CLIManager struct {
	runtime string // "docker" or "podman"
	runner  Runner
	logger  *log.Logger
}

// CLIOption configures a CLIManager.
type CLIOption func(*CLIManager)

// WithRunner replaces the command runner. Intended for tests.
func WithRunner(r Runner) CLIOption {
	return func(m *CLIManager) {
		m.runner = r
	}
}

// WithCommandLog logs every runtime invocation to l before it runs.
func WithCommandLog(l *log.Logger) CLIOption {
	return func(m *CLIManager) {
		m.logger = l
	}
}

// NewCLIManager creates a Manager using the specified runtime.
// Use DetectRuntime() to find an available runtime first.
func NewCLIManager(runtime string, opts ...CLIOption) *CLIManager {
	m := &CLIManager{runtime: runtime, runner: OSRunner()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Runtime returns the runtime binary this manager invokes.
func (m *CLIManager) Runtime() string {
	return m.runtime
}

// RemoveArgs builds the forced-remove invocation for name.
func RemoveArgs(name string) []string {
	return []string{"rm", "--force", name}
}

// RunArgs builds the detached run invocation for spec. Port, volume and
// extra flags appear only when set; the image always comes last.
func RunArgs(spec registry.ContainerSpec) ([]string, error) {
	args := []string{"run", "--detach", "--name", spec.Name}

	if spec.HasPorts() {
		args = append(args, "-p", spec.Ports)
	}

	if spec.HasVolume() {
		args = append(args, "-v", spec.Volume)
	}

	if spec.HasExtraFlags() {
		extra, err := registry.SplitFlags(spec.ExtraFlags)
		if err != nil {
			return nil, err
		}
		args = append(args, extra...)
	}

	args = append(args, spec.Image)
	return args, nil
}

// Remove force-removes a container, treating "no such container" as success.
func (m *CLIManager) Remove(ctx context.Context, name string) error {
	_, stderr, err := m.exec(ctx, RemoveArgs(name)...)
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNoRuntime, m.runtime)
	}

	diag := strings.TrimSpace(stderr)
	switch diagnose(stderr) {
	case diagNotFound:
		return nil
	case diagDaemonDown:
		return &RemoveError{Name: name, Diagnostic: diag, Err: ErrDaemonUnavailable}
	}
	return &RemoveError{Name: name, Diagnostic: diag, Err: err}
}

// Run starts a detached container and returns the ID printed by the runtime.
func (m *CLIManager) Run(ctx context.Context, spec registry.ContainerSpec) (ContainerID, error) {
	args, err := RunArgs(spec)
	if err != nil {
		return "", &RunError{Name: spec.Name, Err: err}
	}

	stdout, stderr, err := m.exec(ctx, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", &RunError{Name: spec.Name, Err: fmt.Errorf("%w: %s", ErrNoRuntime, m.runtime)}
		}
		runErr := &RunError{Name: spec.Name, Diagnostic: strings.TrimSpace(stderr), Err: err}
		if diagnose(stderr) == diagDaemonDown {
			runErr.Err = ErrDaemonUnavailable
		}
		return "", runErr
	}

	return ContainerID(strings.TrimSpace(stdout)), nil
}

func (m *CLIManager) exec(ctx context.Context, args ...string) (string, string, error) {
	if m.logger != nil {
		m.logger.Printf("exec: %s", CommandLine(m.runtime, args...))
	}
	return m.runner.Exec(ctx, m.runtime, args...)
}

// Verify CLIManager implements Manager interface
var _ Manager = (*CLIManager)(nil)
