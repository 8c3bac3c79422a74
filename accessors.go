package lodestar

import (
	"sort"
	"time"

	"github.com/agentstation/lodestar/pkg/errors"
	"github.com/agentstation/lodestar/pkg/feeds"
	"github.com/agentstation/lodestar/pkg/logging"
)

// Root returns the root interface URI.
func (p *policy) Root() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.root
}

// SetRoot changes the root interface URI and notifies watchers.
func (p *policy) SetRoot(uri string) {
	p.mu.Lock()
	p.root = uri
	p.mu.Unlock()
	p.watchers.notify()
}

// Selections returns the selection produced by the latest solve.
func (p *policy) Selections() *feeds.Selections {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.solution == nil {
		return feeds.NewSelections()
	}
	return p.solution.Selections
}

// Ready reports whether the latest solve fully satisfied the graph.
func (p *policy) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.solution != nil && p.solution.Ready
}

// The network and stability accessors forward to the owned solver, which is
// where those fields actually live.

// NetworkUse returns the current network policy.
func (p *policy) NetworkUse() feeds.NetworkUse {
	return p.solver.NetworkUse()
}

// SetNetworkUse changes the network policy, effective on the next solve.
func (p *policy) SetNetworkUse(n feeds.NetworkUse) {
	p.solver.SetNetworkUse(n)
}

// HelpWithTesting returns whether testing versions are acceptable by default.
func (p *policy) HelpWithTesting() bool {
	return p.solver.HelpWithTesting()
}

// SetHelpWithTesting changes the default stability policy.
func (p *policy) SetHelpWithTesting(help bool) {
	p.solver.SetHelpWithTesting(help)
}

// Freshness returns the freshness window.
func (p *policy) Freshness() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.freshness
}

// SetFreshness changes the freshness window.
func (p *policy) SetFreshness(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.freshness = d
}

// GetImplementation returns the implementation chosen for iface by the
// latest solve.
func (p *policy) GetImplementation(iface *feeds.Interface) (*feeds.Implementation, error) {
	if iface.Name == "" && len(iface.Feeds) == 0 {
		return nil, errors.NewMetadataError(iface.URI)
	}

	impl, ok := p.Selections().Get(iface.URI)
	if !ok {
		offline := p.NetworkUse() == feeds.NetworkOffline
		if len(iface.Implementations) > 0 {
			return nil, errors.NewNoUsableImplementationError(iface.String(), offline)
		}
		return nil, errors.NewSelectionError(iface.URI, offline)
	}
	return impl, nil
}

// GetImplementationPath returns the local path of impl. Absolute-path IDs
// are returned as-is; store keys are resolved through the content stores in
// order.
func (p *policy) GetImplementationPath(impl *feeds.Implementation) (string, error) {
	if impl.IsLocal() {
		return impl.ID, nil
	}

	var lastErr error
	for _, store := range p.stores {
		path, err := store.Lookup(impl.ID)
		if err == nil && path != "" {
			return path, nil
		}
		lastErr = err
	}
	return "", errors.NewStoreError(impl.ID, lastErr)
}

// GetFeedTargets returns every interface for which feedURI is declared a
// feed provider.
func (p *policy) GetFeedTargets(feedURI string) ([]*feeds.Interface, error) {
	feedIface := p.cache.Interface(feedURI)
	if len(feedIface.FeedFor) == 0 {
		return nil, errors.NewFeedTargetError(feedURI, feedIface.Name != "")
	}
	if feedIface.Name == "" {
		logging.Warn().Str("uri", feedURI).Msg("Unknown interface queried for feed targets")
	}

	targets := make([]*feeds.Interface, 0, len(feedIface.FeedFor))
	for _, uri := range feedIface.FeedFor {
		targets = append(targets, p.cache.Interface(uri))
	}
	logging.Debug().Str("feed", feedURI).Int("targets", len(targets)).Msg("Feed targets resolved")
	return targets, nil
}

// UsableFeeds filters an interface's feed references to those whose OS and
// machine tags the host architecture supports. For the resolution root under
// source mode, only source feeds pass; dependencies keep the binary ranking.
func (p *policy) UsableFeeds(iface *feeds.Interface) []feeds.Reference {
	machineRanks := p.hostArch.MachineRanks
	if p.src && iface.URI == p.Root() {
		machineRanks = p.hostArch.SourceOnly().MachineRanks
	}

	usable := make([]feeds.Reference, 0, len(iface.Feeds))
	for _, ref := range iface.Feeds {
		if !p.hostArch.OSRanks.Supports(ref.OS) || !machineRanks.Supports(ref.Machine) {
			logging.Debug().
				Str("feed", ref.URL).
				Str("os", ref.OS).
				Str("machine", ref.Machine).
				Msg("Skipping feed; unsupported architecture")
			continue
		}
		usable = append(usable, ref)
	}
	return usable
}

// StaleFeeds returns the feed URLs the last Resolve judged stale, sorted.
func (p *policy) StaleFeeds() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	urls := make([]string, 0, len(p.staleFeeds))
	for url := range p.staleFeeds {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}
