package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RevCBH/mondeploy/internal/config"
	"github.com/RevCBH/mondeploy/internal/container"
)

// VersionInfo holds build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// managerFactory builds the container manager for a deployment pass.
// The returned close function may be nil.
type managerFactory func(ctx context.Context, cfg *config.Config, opts DeployOptions, out io.Writer) (container.Manager, func() error, error)

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Runtime state
	verbose bool

	// workDir holds .mondeploy.yaml and .env; empty means the process working directory
	workDir string

	// Seams for tests
	newManager managerFactory
	isTerminal func(io.Writer) bool

	// Version information
	versionInfo VersionInfo
}

// New creates a new CLI application
func New() *App {
	app := &App{
		newManager: buildManager,
		isTerminal: isTerminal,
	}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with ctx as the command context
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// setupRootCmd configures the root Cobra command. With no subcommand the
// root runs a deployment pass.
func (a *App) setupRootCmd() {
	opts := DefaultDeployOptions()

	a.rootCmd = &cobra.Command{
		Use:   "mondeploy",
		Short: "Redeploy the monitoring container stack",
		Long: `mondeploy replaces every container in the registry with a fresh one:
for each entry, in order, it force-removes any container with the same
name and starts a new detached container from the entry's image.

Failures are reported and never stop the pass.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.RunDeploy(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	// Add persistent flags
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output (print runtime invocations and events)")

	addDeployFlags(a.rootCmd, &opts)

	a.rootCmd.AddCommand(
		NewDeployCmd(a),
		NewListCmd(a),
		NewVersionCmd(a),
	)
}

// loadConfig resolves configuration from files, environment and flags.
func (a *App) loadConfig(flags config.FlagOverrides) (*config.Config, error) {
	dir := a.workDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	flags.Verbose = flags.Verbose || a.verbose
	return cfg.ApplyFlags(flags)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
