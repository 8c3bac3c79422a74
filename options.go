package lodestar

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/lodestar/pkg/arch"
	"github.com/agentstation/lodestar/pkg/feeds"
	"github.com/agentstation/lodestar/pkg/fetcher"
	"github.com/agentstation/lodestar/pkg/solver"
)

// Option is a function that configures a Policy instance.
type Option func(*options) error

// options collects construction-time configuration for a Policy.
type options struct {
	solver  solver.Solver
	fetcher fetcher.Fetcher
	cache   feeds.Cache
	stores  []feeds.Store

	src           bool
	arch          *arch.Architecture
	bootstrapFeed string
	configPath    string
	skipConfig    bool
	clock         func() utc.Time

	networkUse      *feeds.NetworkUse
	freshness       *time.Duration
	helpWithTesting *bool
}

// WithSolver sets the constraint solver the policy drives. Required.
func WithSolver(s solver.Solver) Option {
	return func(o *options) error {
		o.solver = s
		return nil
	}
}

// WithFetcher sets the download subsystem. Required.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(o *options) error {
		o.fetcher = f
		return nil
	}
}

// WithCache sets the interface/feed metadata cache. Required.
func WithCache(c feeds.Cache) Option {
	return func(o *options) error {
		o.cache = c
		return nil
	}
}

// WithStores sets the content stores consulted by the presence check, in
// lookup order.
func WithStores(stores ...feeds.Store) Option {
	return func(o *options) error {
		o.stores = stores
		return nil
	}
}

// WithSource requests that the root selection be source code rather than a
// binary. Dependencies may still resolve to binaries.
func WithSource(src bool) Option {
	return func(o *options) error {
		o.src = src
		return nil
	}
}

// WithArchitecture overrides the host architecture used for solving and
// feed filtering.
func WithArchitecture(a arch.Architecture) Option {
	return func(o *options) error {
		o.arch = &a
		return nil
	}
}

// WithNetworkUse sets the network policy, overriding the configured value.
func WithNetworkUse(n feeds.NetworkUse) Option {
	return func(o *options) error {
		o.networkUse = &n
		return nil
	}
}

// WithFreshness sets the freshness window, overriding the configured value.
// Zero means cached metadata never goes stale.
func WithFreshness(d time.Duration) Option {
	return func(o *options) error {
		o.freshness = &d
		return nil
	}
}

// WithHelpWithTesting sets the default stability policy, overriding the
// configured value.
func WithHelpWithTesting(help bool) Option {
	return func(o *options) error {
		o.helpWithTesting = &help
		return nil
	}
}

// WithConfigFile sets the path of the global settings file. An empty path
// uses the default location under the user configuration directory.
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithoutConfig skips loading the global settings file at construction.
func WithoutConfig() Option {
	return func(o *options) error {
		o.skipConfig = true
		return nil
	}
}

// WithBootstrapFeed overrides the feed whose off-line suppression is
// reported quietly on first run.
func WithBootstrapFeed(url string) Option {
	return func(o *options) error {
		o.bootstrapFeed = url
		return nil
	}
}

// WithClock overrides the clock used by freshness decisions.
func WithClock(now func() utc.Time) Option {
	return func(o *options) error {
		o.clock = now
		return nil
	}
}
