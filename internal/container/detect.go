package container

import (
	"fmt"
	"os/exec"
)

// Runtime names accepted by ResolveRuntime.
const (
	RuntimeAuto   = "auto"
	RuntimeDocker = "docker"
	RuntimePodman = "podman"
)

// DetectRuntime finds an available container runtime.
// Checks docker first, then podman. Verifies the binary actually works
// by running `<runtime> version`.
func DetectRuntime() (string, error) {
	for _, bin := range []string{RuntimeDocker, RuntimePodman} {
		if _, err := exec.LookPath(bin); err != nil {
			continue
		}
		cmd := exec.Command(bin, "version")
		if err := cmd.Run(); err != nil {
			continue
		}
		return bin, nil
	}
	return "", ErrNoRuntime
}

// ResolveRuntime turns a configured runtime name into a binary.
// "auto" (or empty) runs DetectRuntime; docker and podman are used as given
// and must be on PATH.
func ResolveRuntime(name string) (string, error) {
	switch name {
	case "", RuntimeAuto:
		return DetectRuntime()
	case RuntimeDocker, RuntimePodman:
		if _, err := exec.LookPath(name); err != nil {
			return "", fmt.Errorf("%w: %s not on PATH", ErrNoRuntime, name)
		}
		return name, nil
	default:
		return "", fmt.Errorf("unknown container runtime %q (must be auto, docker or podman)", name)
	}
}
