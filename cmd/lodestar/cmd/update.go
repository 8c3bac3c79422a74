package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newUpdateCommand creates the update command.
func newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "update <uri>",
		Short:   "Re-download every feed an interface's dependency graph uses",
		Example: `  lodestar update https://apps.example.com/feeds/hello.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPolicy(args[0])
			if err != nil {
				return err
			}

			if err := p.RefreshAll(cmd.Context()); err != nil {
				return err
			}
			if !p.Ready() {
				return fmt.Errorf("could not resolve %s after refresh", args[0])
			}
			printSelections(p)
			return nil
		},
	}
}
