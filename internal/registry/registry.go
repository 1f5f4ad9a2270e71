package registry

import (
	"github.com/samber/lo"
)

// ContainerSpec describes one container to (re)deploy.
type ContainerSpec struct {
	// Name identifies the container for both removal and creation
	Name string `yaml:"name"`

	// Image is the image reference (e.g., "prom/prometheus", "grafana/grafana:latest")
	Image string `yaml:"image"`

	// Ports is an optional host:container port mapping (e.g., "9090:9090")
	Ports string `yaml:"ports,omitempty"`

	// Volume is an optional host-path:container-path bind mount
	Volume string `yaml:"volume,omitempty"`

	// ExtraFlags holds optional free-form runtime flags (e.g., "--network host")
	ExtraFlags string `yaml:"extra_flags,omitempty"`
}

// HasPorts reports whether a port mapping is configured.
func (s ContainerSpec) HasPorts() bool { return s.Ports != "" }

// HasVolume reports whether a bind mount is configured.
func (s ContainerSpec) HasVolume() bool { return s.Volume != "" }

// HasExtraFlags reports whether extra runtime flags are configured.
func (s ContainerSpec) HasExtraFlags() bool { return s.ExtraFlags != "" }

// Registry is an immutable, ordered list of container specs.
// Construct it with New, Default or LoadFile and pass it to the driver.
type Registry struct {
	specs []ContainerSpec
}

// New builds a validated registry preserving the given order.
func New(specs ...ContainerSpec) (*Registry, error) {
	r := &Registry{specs: append([]ContainerSpec(nil), specs...)}
	if err := Validate(r.specs); err != nil {
		return nil, err
	}
	return r, nil
}

// Specs returns a copy of the specs in deployment order.
func (r *Registry) Specs() []ContainerSpec {
	return append([]ContainerSpec(nil), r.specs...)
}

// Len returns the number of specs.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Names returns the container names in deployment order.
func (r *Registry) Names() []string {
	return lo.Map(r.specs, func(s ContainerSpec, _ int) string {
		return s.Name
	})
}

// Lookup finds a spec by name.
func (r *Registry) Lookup(name string) (ContainerSpec, bool) {
	return lo.Find(r.specs, func(s ContainerSpec) bool {
		return s.Name == name
	})
}
