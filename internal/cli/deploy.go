package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/RevCBH/mondeploy/internal/cli/tui"
	"github.com/RevCBH/mondeploy/internal/config"
	"github.com/RevCBH/mondeploy/internal/container"
	"github.com/RevCBH/mondeploy/internal/deploy"
	"github.com/RevCBH/mondeploy/internal/events"
	"github.com/RevCBH/mondeploy/internal/registry"
)

// DeployOptions holds flags for the deploy command.
// Empty strings leave the configured value in place.
type DeployOptions struct {
	Registry    string // Registry file (default: built-in stack)
	Runtime     string // auto, docker or podman
	Backend     string // cli or api
	DryRun      bool   // Print runtime commands instead of running them
	NoTUI       bool   // Disable TUI even when stdout is a TTY
	FailOnError bool   // Exit non-zero when any container failed to start
}

// DefaultDeployOptions returns options that defer to configuration.
func DefaultDeployOptions() DeployOptions {
	return DeployOptions{}
}

// NewDeployCmd creates the deploy command
func NewDeployCmd(app *App) *cobra.Command {
	opts := DefaultDeployOptions()

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Remove and restart every container in the registry",
		Long: `Deploy processes the registry in order. For each entry it force-removes
any existing container with the same name, then starts a new detached
container. A container that is not present is not an error; a container
that fails to start is reported and the next entry is still processed.

Running mondeploy with no subcommand does the same.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunDeploy(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	addDeployFlags(cmd, &opts)

	return cmd
}

func addDeployFlags(cmd *cobra.Command, opts *DeployOptions) {
	cmd.Flags().StringVar(&opts.Registry, "registry", "", "Registry file (default: built-in prometheus + grafana stack)")
	cmd.Flags().StringVar(&opts.Runtime, "runtime", "", "Container runtime: auto, docker or podman")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "Runtime backend: cli or api")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Print runtime commands without running them")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable interactive TUI (plain progress lines)")
	cmd.Flags().BoolVar(&opts.FailOnError, "fail-on-error", false, "Exit non-zero if any container fails to start")
}

// RunDeploy executes one deployment pass over the configured registry.
// Per-container failures are reported to out and do not produce an error
// unless opts.FailOnError is set.
func (a *App) RunDeploy(ctx context.Context, out, errOut io.Writer, opts DeployOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := a.loadConfig(config.FlagOverrides{
		Runtime:  opts.Runtime,
		Backend:  opts.Backend,
		Registry: opts.Registry,
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	if cfg.IsDebug() {
		logConfig(cfg)
	}

	// Cancel the pass on SIGINT/SIGTERM
	ctx, cancel := notifyInterrupt(ctx, errOut)
	defer cancel()

	mgr, closeMgr, err := a.newManager(ctx, cfg, opts, out)
	if err != nil {
		return err
	}
	if closeMgr != nil {
		defer closeMgr()
	}

	var handlers []events.Handler
	var ui *tuiSession
	if !opts.NoTUI && !opts.DryRun && a.isTerminal(out) {
		ui = startTUI(reg.Names(), out, cfg.IsDebug(), cancel)
		handlers = append(handlers, ui.bridge.Handler())
	} else {
		handlers = append(handlers, events.LogHandler(events.LogConfig{
			Writer:  out,
			Styled:  a.isTerminal(out),
			Verbose: cfg.IsDebug(),
		}))
	}
	if cfg.IsDebug() {
		handlers = append(handlers, events.DebugHandler(log.Default()))
	}

	driver := deploy.New(mgr, deploy.WithHandler(events.Multi(handlers...)))
	report := driver.Deploy(ctx, reg)

	if ui != nil {
		ui.Stop()
	}

	if report.DaemonUnavailable() {
		fmt.Fprintln(errOut, "Warning: the container runtime daemon did not respond; is it running?")
	}

	if len(report.Skipped) > 0 {
		return fmt.Errorf("interrupted: %d container(s) not deployed", len(report.Skipped))
	}
	if opts.FailOnError {
		if err := report.Err(); err != nil {
			return fmt.Errorf("%d of %d containers failed to start: %w",
				len(report.Failed()), len(report.Results), err)
		}
	}
	return nil
}

// loadRegistry returns the configured registry file, or the built-in
// stack when none is configured.
func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.Registry == "" {
		return registry.Default(), nil
	}
	reg, err := registry.LoadFile(cfg.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

func logConfig(cfg *config.Config) {
	log.Printf("config: runtime=%s (%s) backend=%s (%s) registry=%q (%s)",
		cfg.Runtime, cfg.Source("runtime"),
		cfg.Backend, cfg.Source("backend"),
		cfg.Registry, cfg.Source("registry"))
	if cfg.DockerHost != "" {
		log.Printf("config: docker_host=%s (%s)", cfg.DockerHost, cfg.Source("docker_host"))
	}
}

// buildManager picks the container manager for cfg: a dry-run printer, the
// Engine API client, or the docker/podman binary.
func buildManager(ctx context.Context, cfg *config.Config, opts DeployOptions, out io.Writer) (container.Manager, func() error, error) {
	if opts.DryRun {
		return container.NewDryRunManager(dryRunBinary(cfg.Runtime), out), nil, nil
	}

	switch cfg.Backend {
	case config.BackendAPI:
		m, err := container.NewAPIManager(cfg.DockerHost)
		if err != nil {
			return nil, nil, err
		}
		// An unreachable daemon is reported per container, not fatal here
		if err := m.Ping(ctx); err != nil {
			if !errors.Is(err, container.ErrDaemonUnavailable) {
				m.Close()
				return nil, nil, fmt.Errorf("failed to reach docker engine: %w", err)
			}
			log.Printf("Warning: %v", err)
		}
		return m, m.Close, nil

	default:
		bin, err := container.ResolveRuntime(cfg.Runtime)
		if err != nil {
			return nil, nil, err
		}
		var cliOpts []container.CLIOption
		if cfg.IsDebug() {
			cliOpts = append(cliOpts, container.WithCommandLog(log.Default()))
		}
		return container.NewCLIManager(bin, cliOpts...), nil, nil
	}
}

// dryRunBinary names the runtime in printed commands without requiring
// it to be installed.
func dryRunBinary(runtime string) string {
	if runtime == container.RuntimeDocker || runtime == container.RuntimePodman {
		return runtime
	}
	if bin, err := container.DetectRuntime(); err == nil {
		return bin
	}
	return container.RuntimeDocker
}

// tuiSession runs the bubbletea program for the length of one pass.
type tuiSession struct {
	program *tea.Program
	bridge  *tui.Bridge
	logs    *tui.LogWriter
	prevLog io.Writer
	done    chan struct{}
}

// startTUI starts the program in the background. onExit runs when the
// program stops, including when the user quits early.
func startTUI(names []string, out io.Writer, captureLog bool, onExit func()) *tuiSession {
	program := tea.NewProgram(tui.NewModel(names), tea.WithOutput(out))
	s := &tuiSession{
		program: program,
		bridge:  tui.NewBridge(program),
		done:    make(chan struct{}),
	}

	if captureLog {
		s.logs = tui.NewLogWriter(program)
		s.prevLog = log.Writer()
		log.SetOutput(s.logs)
	}

	go func() {
		defer close(s.done)
		if _, err := program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		}
		onExit()
	}()

	return s
}

// Stop shows the final frame and waits for the program to exit.
func (s *tuiSession) Stop() {
	if s.logs != nil {
		log.SetOutput(s.prevLog)
		s.logs.Close()
	}
	s.bridge.SendDone()
	<-s.done
}
