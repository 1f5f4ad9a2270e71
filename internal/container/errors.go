package container

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRuntime is returned when no container runtime is found.
var ErrNoRuntime = errors.New("no container runtime found (need docker or podman)")

// ErrDaemonUnavailable is returned when the runtime binary exists but its
// daemon or socket cannot be reached.
var ErrDaemonUnavailable = errors.New("container runtime daemon is unavailable")

// RemoveError reports a removal that failed for a reason other than the
// container being absent.
type RemoveError struct {
	Name       string
	Diagnostic string
	Err        error
}

func (e *RemoveError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("failed to remove container %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("failed to remove container %s: %s", e.Name, e.Diagnostic)
}

func (e *RemoveError) Unwrap() error { return e.Err }

// RunError reports a container that could not be started.
// Diagnostic holds the runtime's own error output.
type RunError struct {
	Name       string
	Diagnostic string
	Err        error
}

func (e *RunError) Error() string {
	if e.Diagnostic == "" {
		return fmt.Sprintf("failed to start container %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("failed to start container %s: %s", e.Name, e.Diagnostic)
}

func (e *RunError) Unwrap() error { return e.Err }

type diagnosis int

const (
	diagUnknown diagnosis = iota
	diagNotFound
	diagDaemonDown
)

// Substrings docker and podman print on stderr, matched case-insensitively.
var (
	notFoundMarkers = []string{
		"no such container",
		"no container with name or id",
	}
	daemonDownMarkers = []string{
		"cannot connect to the docker daemon",
		"is the docker daemon running",
		"unable to connect to podman",
		"error during connect",
		"connection refused",
	}
)

// diagnose classifies a runtime's stderr output.
func diagnose(stderr string) diagnosis {
	lower := strings.ToLower(stderr)
	for _, m := range notFoundMarkers {
		if strings.Contains(lower, m) {
			return diagNotFound
		}
	}
	// The daemon answered, so whatever it refused to connect to is not itself.
	if strings.Contains(lower, "error response from daemon") {
		return diagUnknown
	}
	for _, m := range daemonDownMarkers {
		if strings.Contains(lower, m) {
			return diagDaemonDown
		}
	}
	return diagUnknown
}
