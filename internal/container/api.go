package container

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types"
	containertypes "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/spf13/pflag"

	"github.com/RevCBH/mondeploy/internal/registry"
)

// EngineClient is the subset of the Docker Engine API client used by APIManager.
type EngineClient interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerRemove(ctx context.Context, containerID string, options containertypes.RemoveOptions) error
	ContainerCreate(ctx context.Context, config *containertypes.Config, hostConfig *containertypes.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (containertypes.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options containertypes.StartOptions) error
	ImagePull(ctx context.Context, refStr string, options image.PullOptions) (io.ReadCloser, error)
	Close() error
}

// APIManager implements Manager against the Docker Engine API.
//
// Supported environment variables:
// DOCKER_HOST to set the url to the docker server.
// DOCKER_API_VERSION to set the version of the API to reach, leave empty for latest.
// DOCKER_CERT_PATH to load the TLS certificates from.
// DOCKER_TLS_VERIFY to enable or disable TLS verification, off by default.
type APIManager struct {
	client EngineClient
}

// NewAPIManager creates a client for the Docker daemon. No connection is
// made until the first call. host overrides DOCKER_HOST when non-empty.
func NewAPIManager(host string) (*APIManager, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	dc, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize docker client: %w", err)
	}

	return &APIManager{client: dc}, nil
}

// Ping checks that the daemon answers. An unreachable daemon yields an
// error wrapping ErrDaemonUnavailable.
func (m *APIManager) Ping(ctx context.Context) error {
	if _, err := m.client.Ping(ctx); err != nil {
		if daemonDown(err) {
			return fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
		}
		return err
	}
	return nil
}

// NewAPIManagerWithClient wraps an existing engine client.
func NewAPIManagerWithClient(c EngineClient) *APIManager {
	return &APIManager{client: c}
}

// Close releases the underlying client.
func (m *APIManager) Close() error {
	return m.client.Close()
}

// Remove force-removes a container, treating "not found" as success.
func (m *APIManager) Remove(ctx context.Context, name string) error {
	err := m.client.ContainerRemove(ctx, name, containertypes.RemoveOptions{Force: true})
	switch {
	case err == nil, errdefs.IsNotFound(err):
		return nil
	case daemonDown(err):
		return &RemoveError{Name: name, Diagnostic: err.Error(), Err: ErrDaemonUnavailable}
	}
	return &RemoveError{Name: name, Diagnostic: err.Error(), Err: err}
}

// Run creates and starts a detached container. A missing image is pulled
// once before creation is retried, the way `docker run` does.
func (m *APIManager) Run(ctx context.Context, spec registry.ContainerSpec) (ContainerID, error) {
	cfg, hc, err := createConfig(spec)
	if err != nil {
		return "", &RunError{Name: spec.Name, Err: err}
	}

	resp, err := m.client.ContainerCreate(ctx, cfg, hc, nil, nil, spec.Name)
	if errdefs.IsNotFound(err) {
		if pullErr := m.pull(ctx, spec.Image); pullErr != nil {
			return "", m.runError(spec.Name, pullErr)
		}
		resp, err = m.client.ContainerCreate(ctx, cfg, hc, nil, nil, spec.Name)
	}
	if err != nil {
		return "", m.runError(spec.Name, err)
	}

	if err := m.client.ContainerStart(ctx, resp.ID, containertypes.StartOptions{}); err != nil {
		return "", m.runError(spec.Name, err)
	}

	return ContainerID(resp.ID), nil
}

func (m *APIManager) pull(ctx context.Context, ref string) error {
	body, err := m.client.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	defer body.Close()

	// The pull only completes once the progress stream is drained.
	if _, err := io.Copy(io.Discard, body); err != nil {
		return fmt.Errorf("failed to stream image %s: %w", ref, err)
	}
	return nil
}

func (m *APIManager) runError(name string, err error) *RunError {
	runErr := &RunError{Name: name, Diagnostic: err.Error(), Err: err}
	if daemonDown(err) {
		runErr.Err = ErrDaemonUnavailable
	}
	return runErr
}

func daemonDown(err error) bool {
	return client.IsErrConnectionFailed(err) || errdefs.IsUnavailable(err)
}

// runFlags is the subset of `docker run` flags understood by the API backend.
type runFlags struct {
	network  string
	restart  string
	env      []string
	labels   []string
	user     string
	hostname string
}

func parseRunFlags(words []string) (runFlags, error) {
	var f runFlags

	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&f.network, "network", "", "network mode")
	fs.StringVar(&f.restart, "restart", "", "restart policy")
	fs.StringArrayVarP(&f.env, "env", "e", nil, "environment variable")
	fs.StringArrayVarP(&f.labels, "label", "l", nil, "container label")
	fs.StringVarP(&f.user, "user", "u", "", "user")
	fs.StringVarP(&f.hostname, "hostname", "h", "", "hostname")

	if err := fs.Parse(words); err != nil {
		return f, fmt.Errorf("unsupported extra flags for api backend: %w", err)
	}
	if fs.NArg() > 0 {
		return f, fmt.Errorf("unsupported extra flags for api backend: unexpected argument %q", fs.Arg(0))
	}
	return f, nil
}

func restartPolicy(raw string) (containertypes.RestartPolicy, error) {
	name, count, hasCount := strings.Cut(raw, ":")
	policy := containertypes.RestartPolicy{Name: containertypes.RestartPolicyMode(name)}
	if hasCount {
		n, err := strconv.Atoi(count)
		if err != nil {
			return policy, fmt.Errorf("invalid restart policy %q: %w", raw, err)
		}
		policy.MaximumRetryCount = n
	}
	return policy, nil
}

// createConfig maps a spec onto engine create parameters. Like RunArgs,
// ports, binds and flag-derived settings are applied only when present.
func createConfig(spec registry.ContainerSpec) (*containertypes.Config, *containertypes.HostConfig, error) {
	cfg := &containertypes.Config{Image: spec.Image}
	hc := &containertypes.HostConfig{}

	if spec.HasPorts() {
		exposed, bindings, err := nat.ParsePortSpecs([]string{spec.Ports})
		if err != nil {
			return nil, nil, fmt.Errorf("invalid ports %q: %w", spec.Ports, err)
		}
		cfg.ExposedPorts = exposed
		hc.PortBindings = bindings
	}

	if spec.HasVolume() {
		hc.Binds = []string{spec.Volume}
	}

	if spec.HasExtraFlags() {
		words, err := registry.SplitFlags(spec.ExtraFlags)
		if err != nil {
			return nil, nil, err
		}
		f, err := parseRunFlags(words)
		if err != nil {
			return nil, nil, err
		}

		cfg.Env = f.env
		cfg.User = f.user
		cfg.Hostname = f.hostname
		if len(f.labels) > 0 {
			cfg.Labels = make(map[string]string, len(f.labels))
			for _, l := range f.labels {
				k, v, _ := strings.Cut(l, "=")
				cfg.Labels[k] = v
			}
		}
		if f.network != "" {
			hc.NetworkMode = containertypes.NetworkMode(f.network)
		}
		if f.restart != "" {
			policy, err := restartPolicy(f.restart)
			if err != nil {
				return nil, nil, err
			}
			hc.RestartPolicy = policy
		}
	}

	return cfg, hc, nil
}

var _ Manager = (*APIManager)(nil)
