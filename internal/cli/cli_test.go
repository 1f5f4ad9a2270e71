package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/mondeploy/internal/config"
	"github.com/RevCBH/mondeploy/internal/container"
	"github.com/RevCBH/mondeploy/internal/registry"
	"github.com/RevCBH/mondeploy/internal/testutil"
)

type fakeManager struct {
	ops     []string
	runErrs map[string]error
	rmErrs  map[string]error
	closed  bool
}

func (f *fakeManager) Remove(_ context.Context, name string) error {
	f.ops = append(f.ops, "rm "+name)
	return f.rmErrs[name]
}

func (f *fakeManager) Run(_ context.Context, spec registry.ContainerSpec) (container.ContainerID, error) {
	f.ops = append(f.ops, "run "+spec.Name)
	if err := f.runErrs[spec.Name]; err != nil {
		return "", err
	}
	return container.ContainerID("id-" + spec.Name), nil
}

// newTestApp returns an app rooted in a temp dir whose manager is fake.
func newTestApp(t *testing.T, mgr *fakeManager) (*App, string) {
	t.Helper()
	testutil.ClearDeployEnv(t)

	dir := t.TempDir()
	app := New()
	app.workDir = dir
	app.newManager = func(context.Context, *config.Config, DeployOptions, io.Writer) (container.Manager, func() error, error) {
		return mgr, func() error {
			mgr.closed = true
			return nil
		}, nil
	}
	return app, dir
}

func execute(app *App, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	app.rootCmd.SetOut(&out)
	app.rootCmd.SetErr(&errOut)
	app.rootCmd.SetArgs(args)
	err := app.Execute()
	return out.String(), errOut.String(), err
}

func writeRegistry(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "stack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRoot_DeploysDefaultRegistry(t *testing.T) {
	mgr := &fakeManager{}
	app, _ := newTestApp(t, mgr)

	out, _, err := execute(app)
	require.NoError(t, err)

	assert.Equal(t, []string{"rm prometheus", "run prometheus", "rm grafana", "run grafana"}, mgr.ops)
	assert.True(t, mgr.closed)

	want := strings.Join([]string{
		"Stopping and removing existing container: prometheus",
		"Starting container: prometheus",
		"prometheus started successfully.",
		"Stopping and removing existing container: grafana",
		"Starting container: grafana",
		"grafana started successfully.",
		"Done: 2 started, 0 failed.",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestDeploy_StartFailureStillExitsZero(t *testing.T) {
	mgr := &fakeManager{runErrs: map[string]error{
		"prometheus": &container.RunError{Name: "prometheus", Diagnostic: "docker: Error response from daemon: port is already allocated."},
	}}
	app, _ := newTestApp(t, mgr)

	out, _, err := execute(app, "deploy")
	require.NoError(t, err)

	assert.Contains(t, out, "Error starting prometheus:\ndocker: Error response from daemon: port is already allocated.\n")
	assert.Contains(t, out, "grafana started successfully.")
	assert.Contains(t, out, "Done: 1 started, 1 failed.")
}

func TestDeploy_FailOnError(t *testing.T) {
	mgr := &fakeManager{runErrs: map[string]error{
		"grafana": &container.RunError{Name: "grafana", Diagnostic: "manifest unknown"},
	}}
	app, _ := newTestApp(t, mgr)

	_, _, err := execute(app, "deploy", "--fail-on-error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 containers failed to start")
	assert.Contains(t, err.Error(), "manifest unknown")
}

func TestDeploy_DaemonUnavailableWarning(t *testing.T) {
	mgr := &fakeManager{rmErrs: map[string]error{
		"prometheus": &container.RemoveError{Name: "prometheus", Diagnostic: "Cannot connect to the Docker daemon", Err: container.ErrDaemonUnavailable},
	}}
	app, _ := newTestApp(t, mgr)

	out, errOut, err := execute(app, "--no-tui")
	require.NoError(t, err)

	assert.Contains(t, out, "Warning: could not remove prometheus:")
	assert.Contains(t, errOut, "daemon did not respond")
	assert.Equal(t, []string{"rm prometheus", "run prometheus", "rm grafana", "run grafana"}, mgr.ops)
}

func TestDeploy_RegistryFlag(t *testing.T) {
	mgr := &fakeManager{}
	app, dir := newTestApp(t, mgr)
	path := writeRegistry(t, dir, `
containers:
  - name: a
    image: img-a
    ports: "80:80"
  - name: b
    image: img-b
`)

	_, _, err := execute(app, "deploy", "--registry", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rm a", "run a", "rm b", "run b"}, mgr.ops)
}

func TestDeploy_RegistryFromConfigFile(t *testing.T) {
	mgr := &fakeManager{}
	app, dir := newTestApp(t, mgr)
	writeRegistry(t, dir, "containers:\n  - {name: only, image: img-only}\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("registry: stack.yaml\n"), 0644))

	_, _, err := execute(app)
	require.NoError(t, err)
	assert.Equal(t, []string{"rm only", "run only"}, mgr.ops)
}

func TestDeploy_InvalidRegistryFails(t *testing.T) {
	mgr := &fakeManager{}
	app, dir := newTestApp(t, mgr)
	path := writeRegistry(t, dir, `
containers:
  - name: a
    image: img-a
  - name: a
    image: img-b
`)

	_, _, err := execute(app, "deploy", "--registry", path)
	require.Error(t, err)

	var verr *registry.ValidationError
	assert.True(t, errors.As(err, &verr), "expected registry validation error, got %v", err)
	assert.Empty(t, mgr.ops, "nothing runs when the registry is invalid")
}

func TestDeploy_InvalidFlagValue(t *testing.T) {
	app, _ := newTestApp(t, &fakeManager{})

	_, _, err := execute(app, "deploy", "--backend", "grpc")
	require.Error(t, err)

	var verr *config.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "backend", verr.Field)
}

func TestDeploy_VerboseShowsPass(t *testing.T) {
	app, _ := newTestApp(t, &fakeManager{})

	out, _, err := execute(app, "-v")
	require.NoError(t, err)

	assert.Contains(t, out, "Deploying 2 container(s): prometheus, grafana (pass ")
	assert.Contains(t, out, "prometheus started successfully. (id-prometheus)")
}

func TestDeploy_RejectsArgs(t *testing.T) {
	app, _ := newTestApp(t, &fakeManager{})

	_, _, err := execute(app, "deploy", "extra")
	assert.Error(t, err)
}

// Dry run goes through the real manager factory but never touches a runtime.
func TestDeploy_DryRunPrintsCommands(t *testing.T) {
	testutil.ClearDeployEnv(t)
	app := New()
	app.workDir = t.TempDir()
	path := writeRegistry(t, app.workDir, `
containers:
  - name: a
    image: img-a
    ports: "80:80"
  - name: b
    image: img-b
    extra_flags: --network host
`)

	out, _, err := execute(app, "--dry-run", "--runtime", "podman", "--registry", path)
	require.NoError(t, err)

	assert.Contains(t, out, "podman rm --force a\n")
	assert.Contains(t, out, "podman run --detach --name a -p 80:80 img-a\n")
	assert.Contains(t, out, "podman run --detach --name b --network host img-b\n")
	assert.Contains(t, out, "Done: 2 started, 0 failed.")
}

func TestList_Table(t *testing.T) {
	app, _ := newTestApp(t, &fakeManager{})

	out, _, err := execute(app, "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], registry.PrometheusImage)
	assert.Contains(t, lines[1], registry.PrometheusPorts)
	assert.Contains(t, lines[2], registry.GrafanaImage)
	assert.Contains(t, lines[2], registry.HostNetwork)
}

func TestList_YAML(t *testing.T) {
	app, dir := newTestApp(t, &fakeManager{})
	path := writeRegistry(t, dir, "containers:\n  - {name: a, image: img-a, ports: \"80:80\"}\n")

	out, _, err := execute(app, "list", "-o", "yaml", "--registry", path)
	require.NoError(t, err)

	reg, err := registry.Parse([]byte(out))
	require.NoError(t, err)
	spec, ok := reg.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "80:80", spec.Ports)
}

func TestList_UnknownFormat(t *testing.T) {
	app, _ := newTestApp(t, &fakeManager{})

	_, _, err := execute(app, "list", "-o", "json")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestDryRunBinary(t *testing.T) {
	assert.Equal(t, "docker", dryRunBinary("docker"))
	assert.Equal(t, "podman", dryRunBinary("podman"))

	t.Setenv("PATH", "")
	assert.Equal(t, "docker", dryRunBinary("auto"))
}
