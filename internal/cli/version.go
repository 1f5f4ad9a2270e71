package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command
func NewVersionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := app.versionInfo

			// Use default values if not set
			if info.Version == "" {
				info.Version = "dev"
			}
			if info.Commit == "" {
				info.Commit = "unknown"
			}
			if info.Date == "" {
				info.Date = "unknown"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "mondeploy version %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "commit: %s\n", info.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "built: %s\n", info.Date)

			return nil
		},
	}

	return cmd
}
