package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSelectCommand creates the select command.
func newSelectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <uri>",
		Short: "Resolve an interface to a concrete set of implementations",
		Long: `Select runs the solver for the given root interface, downloading any
feeds that are missing or stale, and prints the chosen implementation for
every interface in the dependency graph.`,
		Example: `  lodestar select https://apps.example.com/feeds/hello.yaml
  lodestar select --refresh --src https://apps.example.com/feeds/hello.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPolicy(args[0])
			if err != nil {
				return err
			}

			if err := p.ResolveWithDownloads(cmd.Context(), flagRefresh); err != nil {
				return err
			}
			if !p.Ready() {
				return fmt.Errorf("could not resolve %s: selection incomplete", args[0])
			}
			printSelections(p)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "re-download feeds even if a selection is already possible")
	cmd.Flags().BoolVar(&flagSource, "src", false, "select source code for the root interface")
	return cmd
}
