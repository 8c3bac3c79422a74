package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDownloadCommand creates the download command.
func newDownloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "download <uri>",
		Short:   "Resolve an interface and fetch its uncached implementations",
		Example: `  lodestar download https://apps.example.com/feeds/hello.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPolicy(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := p.ResolveWithDownloads(ctx, false); err != nil {
				return err
			}
			if !p.Ready() {
				return fmt.Errorf("could not resolve %s: selection incomplete", args[0])
			}

			uncached := p.UncachedImplementations()
			if len(uncached) == 0 {
				fmt.Println("everything already cached")
				return nil
			}

			dl, err := p.DownloadUncachedImplementations(ctx)
			if err != nil {
				return err
			}
			select {
			case <-dl.Done():
			case <-ctx.Done():
				return ctx.Err()
			}
			if err := dl.Err(); err != nil {
				return fmt.Errorf("downloading implementations: %w", err)
			}
			fmt.Printf("downloaded %d implementation(s)\n", len(uncached))
			return nil
		},
	}
}
