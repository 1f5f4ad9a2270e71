package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RevCBH/mondeploy/internal/config"
	"github.com/RevCBH/mondeploy/internal/registry"
)

// ListOptions holds flags for the list command
type ListOptions struct {
	Registry string
	Output   string // table or yaml
}

// NewListCmd creates the list command
func NewListCmd(app *App) *cobra.Command {
	opts := ListOptions{Output: "table"}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the containers a deployment pass would start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunList(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Registry, "registry", "", "Registry file (default: built-in prometheus + grafana stack)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "Output format: table or yaml")

	return cmd
}

// RunList prints the resolved registry in order.
func (a *App) RunList(w io.Writer, opts ListOptions) error {
	if opts.Output != "table" && opts.Output != "yaml" {
		return fmt.Errorf("unknown output format %q (must be table or yaml)", opts.Output)
	}

	cfg, err := a.loadConfig(config.FlagOverrides{Registry: opts.Registry})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	if opts.Output == "yaml" {
		data, err := reg.Marshal()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	writeTable(w, reg)
	return nil
}

func writeTable(w io.Writer, reg *registry.Registry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tIMAGE\tPORTS\tVOLUME\tEXTRA FLAGS")
	for _, s := range reg.Specs() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.Name, s.Image, orDash(s.Ports), orDash(s.Volume), orDash(s.ExtraFlags))
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
