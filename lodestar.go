// Package lodestar resolves a declared dependency graph of decentralized
// software components to a concrete, runnable set of implementations, and
// drives the downloads needed to make that set complete.
//
// Typical use:
//  1. Create a Policy with New, giving it the root interface URI and its
//     collaborators (solver, fetcher, metadata cache, content stores).
//  2. Call ResolveWithDownloads. The policy repeatedly runs the solver,
//     downloads any feeds that are missing or stale, and re-solves as each
//     download completes.
//  3. When Ready reports true, Selections holds the chosen versions; use
//     UncachedImplementations and DownloadUncachedImplementations to make
//     them locally available.
package lodestar

import (
	"context"
	"sync"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/lodestar/internal/config"
	"github.com/agentstation/lodestar/pkg/arch"
	"github.com/agentstation/lodestar/pkg/errors"
	"github.com/agentstation/lodestar/pkg/feeds"
	"github.com/agentstation/lodestar/pkg/fetcher"
	"github.com/agentstation/lodestar/pkg/logging"
	"github.com/agentstation/lodestar/pkg/solver"
)

// FailedCheckDelay is how long a feed check attempt, successful or not,
// suppresses re-checking the same feed. Fixed rather than backed off.
const FailedCheckDelay = time.Hour

// DefaultFreshness is how old cached feed metadata may grow before a refresh
// is warranted.
const DefaultFreshness = 30 * 24 * time.Hour

// DefaultBootstrapFeed is the feed fetched on first run to bootstrap the
// graphical launcher. First runs are always off-line for it, so its
// suppression is reported quietly.
const DefaultBootstrapFeed = "https://apps.agentstation.ai/feeds/lodestar-gui.yaml"

// Policy owns the root interface URI and the network/freshness knobs, and
// drives resolution against the external solver and fetcher.
type Policy interface {
	// Root returns the root interface URI.
	Root() string

	// SetRoot changes the root interface URI and notifies watchers.
	SetRoot(uri string)

	// Selections returns the selection produced by the latest solve. It is
	// a read-only view; the next solve replaces it entirely.
	Selections() *feeds.Selections

	// Ready reports whether the latest solve fully satisfied the graph.
	Ready() bool

	// NetworkUse returns the current network policy.
	NetworkUse() feeds.NetworkUse

	// SetNetworkUse changes the network policy, effective on the next solve.
	SetNetworkUse(n feeds.NetworkUse)

	// HelpWithTesting returns whether testing versions are acceptable by
	// default.
	HelpWithTesting() bool

	// SetHelpWithTesting changes the default stability policy.
	SetHelpWithTesting(help bool)

	// Freshness returns the freshness window. Zero means cached metadata
	// never goes stale.
	Freshness() time.Duration

	// SetFreshness changes the freshness window, effective on the next
	// staleness decision.
	SetFreshness(d time.Duration)

	// AddWatcher registers a callback invoked synchronously after every
	// completed or attempted resolution, and after root changes.
	AddWatcher(w Watcher)

	// Resolve runs a single solve, records which feeds are stale, starts
	// downloads for missing feeds (and for stale ones when fetchStale is
	// true), and notifies watchers. It does not wait for any download.
	Resolve(ctx context.Context, fetchStale bool) error

	// ResolveWithDownloads runs the solver, downloads any feeds that are
	// missing or need updating, and re-solves each time a download
	// completes. It returns once the selection is ready, or when no
	// further downloads can help; callers inspect Ready for the outcome.
	// With force true it keeps downloading even when already ready.
	ResolveWithDownloads(ctx context.Context, force bool) error

	// RefreshAll re-downloads every feed the current graph uses.
	RefreshAll(ctx context.Context) error

	// NeedDownload runs one solve and reports whether anything must still
	// be downloaded (feeds or implementations), without taking any action.
	NeedDownload(ctx context.Context) (bool, error)

	// GetImplementation returns the chosen implementation for iface.
	GetImplementation(iface *feeds.Interface) (*feeds.Implementation, error)

	// GetImplementationPath returns the local path of impl, resolving
	// store keys through the content stores.
	GetImplementationPath(impl *feeds.Implementation) (string, error)

	// GetCached reports whether impl is already available locally.
	GetCached(impl *feeds.Implementation) bool

	// UncachedImplementations lists every selected implementation that is
	// not yet available locally.
	UncachedImplementations() []Selection

	// DownloadUncachedImplementations hands every uncached selected
	// implementation to the fetcher as one batch. The selection must be
	// ready.
	DownloadUncachedImplementations(ctx context.Context) (fetcher.Download, error)

	// DownloadIcon fetches the interface's icon unless off-line.
	DownloadIcon(ctx context.Context, iface *feeds.Interface, force bool) fetcher.Download

	// GetFeedTargets returns every interface the given feed URI declares
	// itself a feed for.
	GetFeedTargets(feedURI string) ([]*feeds.Interface, error)

	// UsableFeeds filters an interface's feed references to those
	// compatible with the host architecture.
	UsableFeeds(iface *feeds.Interface) []feeds.Reference

	// IsStale reports whether a feed's cached metadata warrants a refresh.
	IsStale(feed *feeds.Feed) bool

	// StaleFeeds returns the feed URLs the last Resolve judged stale.
	StaleFeeds() []string

	// SaveConfig writes the network-use, freshness, and stability settings
	// atomically.
	SaveConfig() error
}

// Selection pairs an interface with the implementation chosen for it.
type Selection struct {
	Interface      *feeds.Interface
	Implementation *feeds.Implementation
}

// policy is the internal implementation of the Policy interface. Its state
// is mutated only between suspension points of the resolution loop; the
// mutex exists so accessors may be called from other goroutines while a
// resolution is suspended.
type policy struct {
	mu        sync.RWMutex
	root      string
	src       bool
	freshness time.Duration

	solver  solver.Solver
	fetcher fetcher.Fetcher
	cache   feeds.Cache
	stores  []feeds.Store

	hostArch      arch.Architecture
	bootstrapFeed string
	configPath    string
	skipConfig    bool

	watchers *watchers

	// solution is the latest published solve result; replaced wholesale,
	// never patched.
	solution *solver.Solution

	// staleFeeds is rebuilt by each Resolve.
	staleFeeds map[string]struct{}

	// warnedOffline is set once per process when a download is first
	// suppressed by off-line mode.
	warnedOffline bool

	// now is the clock; injectable for tests.
	now func() utc.Time
}

// New creates a Policy for the given root interface URI.
//
// A solver, fetcher, and metadata cache are required collaborators. Global
// settings (network use, freshness, help-with-testing) are loaded from the
// configuration file at construction; a missing or malformed file is
// non-fatal and defaults apply. Options are applied after the configuration
// so explicit settings win.
func New(root string, opts ...Option) (Policy, error) {
	p := &policy{
		root:          root,
		freshness:     DefaultFreshness,
		hostArch:      arch.Host(),
		bootstrapFeed: DefaultBootstrapFeed,
		watchers:      newWatchers(),
		staleFeeds:    make(map[string]struct{}),
		now:           utc.Now,
	}

	cfg, err := p.applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	if p.solver == nil {
		return nil, errors.New("lodestar: a solver is required")
	}
	if p.fetcher == nil {
		return nil, errors.New("lodestar: a fetcher is required")
	}
	if p.cache == nil {
		return nil, errors.New("lodestar: a metadata cache is required")
	}

	p.applySettings(cfg)

	logging.Debug().
		Str("root", root).
		Str("network_use", p.solver.NetworkUse().String()).
		Dur("freshness", p.freshness).
		Msg("Policy created")

	return p, nil
}

// applyOptions loads the persisted settings and then applies the options on
// top, returning the loaded settings for any field an option did not set.
func (p *policy) applyOptions(opts ...Option) (config.Settings, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return config.Settings{}, err
		}
	}

	p.src = o.src
	p.solver = o.solver
	p.fetcher = o.fetcher
	p.cache = o.cache
	p.stores = o.stores
	p.configPath = o.configPath
	p.skipConfig = o.skipConfig
	if o.arch != nil {
		p.hostArch = *o.arch
	}
	if o.bootstrapFeed != "" {
		p.bootstrapFeed = o.bootstrapFeed
	}
	if o.clock != nil {
		p.now = o.clock
	}

	cfg := config.Defaults()
	if !p.skipConfig {
		cfg = config.Load(p.configPath)
	}
	if o.networkUse != nil {
		cfg.NetworkUse = o.networkUse.String()
	}
	if o.freshness != nil {
		cfg.Freshness = int(o.freshness.Seconds())
	}
	if o.helpWithTesting != nil {
		cfg.HelpWithTesting = *o.helpWithTesting
	}
	return cfg, nil
}

// applySettings pushes loaded settings into the policy and its solver.
func (p *policy) applySettings(cfg config.Settings) {
	use := feeds.NetworkUse(cfg.NetworkUse)
	if !use.IsValid() {
		logging.Warn().Str("network_use", cfg.NetworkUse).Msg("Unknown network_use setting, using full")
		use = feeds.NetworkFull
	}
	p.solver.SetNetworkUse(use)
	p.solver.SetHelpWithTesting(cfg.HelpWithTesting)
	p.freshness = time.Duration(cfg.Freshness) * time.Second
}

// SaveConfig writes the global settings atomically.
func (p *policy) SaveConfig() error {
	return config.Save(p.configPath, config.Settings{
		HelpWithTesting: p.HelpWithTesting(),
		NetworkUse:      p.NetworkUse().String(),
		Freshness:       int(p.freshness.Seconds()),
	})
}
