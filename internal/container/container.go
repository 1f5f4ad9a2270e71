package container

import (
	"context"

	"github.com/RevCBH/mondeploy/internal/registry"
)

// ContainerID is a unique identifier for a container.
// This is the full container ID printed by `docker run --detach`, not the short form.
type ContainerID string

// Short returns the 12-character form used by `docker ps`.
func (id ContainerID) Short() string {
	if len(id) > 12 {
		return string(id[:12])
	}
	return string(id)
}

// Manager removes and starts containers on a container runtime.
type Manager interface {
	// Remove force-removes the named container, running or stopped.
	// A container that does not exist is not an error.
	Remove(ctx context.Context, name string) error

	// Run starts a detached container from spec and returns its ID.
	// Failures are reported as *RunError carrying the runtime's diagnostic.
	Run(ctx context.Context, spec registry.ContainerSpec) (ContainerID, error)
}
