// Package cmd implements the lodestar CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/lodestar"
	"github.com/agentstation/lodestar/internal/basicsolver"
	"github.com/agentstation/lodestar/internal/dirstore"
	"github.com/agentstation/lodestar/internal/feedyaml"
	"github.com/agentstation/lodestar/internal/httpfetch"
	"github.com/agentstation/lodestar/internal/memcache"
	"github.com/agentstation/lodestar/pkg/feeds"
)

// Global flags shared by every command.
var (
	flagConfig  string
	flagStore   string
	flagNetwork string
	flagRefresh bool
	flagSource  bool
)

// NewRootCommand builds the lodestar command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "lodestar",
		Short: "Resolve and fetch decentralized software components",
		Long: `Lodestar resolves a component's dependency graph to a concrete set of
implementations, downloads the feeds needed to complete the selection, and
fetches any implementations missing from the local store.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "settings file (default: user config dir)")
	root.PersistentFlags().StringVar(&flagStore, "store", defaultStoreDir(), "content store directory")
	root.PersistentFlags().StringVar(&flagNetwork, "network", "", "network use: full, minimal, or off-line")

	root.AddCommand(
		newSelectCommand(),
		newUpdateCommand(),
		newDownloadCommand(),
		newConfigCommand(),
	)
	return root
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// defaultStoreDir returns the default content store location.
func defaultStoreDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "lodestar-store")
	}
	return filepath.Join(dir, "lodestar", "store")
}

// newPolicy wires a Policy with the reference collaborators: an in-memory
// metadata cache, the YAML feed importer, the HTTP fetcher, a directory
// content store, and the greedy solver.
func newPolicy(root string) (lodestar.Policy, error) {
	cache := memcache.New()
	store := dirstore.New(flagStore)

	isCached := func(impl *feeds.Implementation) bool {
		if impl.Distribution {
			return impl.Installed
		}
		if impl.IsLocal() {
			_, err := os.Stat(impl.ID)
			return err == nil
		}
		_, err := store.Lookup(impl.ID)
		return err == nil
	}

	fetch := httpfetch.New(cache, feedyaml.Importer(cache),
		httpfetch.WithImplementationImporter(store.Importer()),
	)
	solve := basicsolver.New(cache, basicsolver.WithCachedCheck(isCached))

	opts := []lodestar.Option{
		lodestar.WithSolver(solve),
		lodestar.WithFetcher(fetch),
		lodestar.WithCache(cache),
		lodestar.WithStores(store),
		lodestar.WithConfigFile(flagConfig),
		lodestar.WithSource(flagSource),
	}
	if flagNetwork != "" {
		use := feeds.NetworkUse(flagNetwork)
		if !use.IsValid() {
			return nil, fmt.Errorf("unknown network level %q (expected full, minimal, or off-line)", flagNetwork)
		}
		opts = append(opts, lodestar.WithNetworkUse(use))
	}
	return lodestar.New(root, opts...)
}

// printSelections writes the current selection to stdout.
func printSelections(p lodestar.Policy) {
	sel := p.Selections()
	for _, uri := range sel.URIs() {
		impl, _ := sel.Get(uri)
		cached := ""
		if !p.GetCached(impl) {
			cached = " (not cached)"
		}
		fmt.Printf("%s\t%s\t%s%s\n", uri, impl.Version, impl.ID, cached)
	}
}
