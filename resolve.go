package lodestar

import (
	"context"

	"github.com/agentstation/lodestar/pkg/arch"
	"github.com/agentstation/lodestar/pkg/errors"
	"github.com/agentstation/lodestar/pkg/feeds"
	"github.com/agentstation/lodestar/pkg/fetcher"
	"github.com/agentstation/lodestar/pkg/logging"
	"github.com/agentstation/lodestar/pkg/solver"
)

// solveArchitecture returns the architecture handed to the solver: the host
// architecture, source-wrapped when the root must be source code.
func (p *policy) solveArchitecture() arch.Architecture {
	if p.src {
		return p.hostArch.SourceOnly()
	}
	return p.hostArch
}

// solve runs the solver once, publishes the result as the current solution,
// and notifies watchers.
func (p *policy) solve(ctx context.Context) (*solver.Solution, error) {
	sol, err := p.solver.Solve(ctx, p.Root(), p.solveArchitecture())
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.solution = sol
	p.mu.Unlock()
	p.watchers.notify()
	return sol, nil
}

// ResolveWithDownloads runs the solver, then downloads any feeds that are
// missing or need updating. Each time a download completes the solver runs
// again with the newly imported metadata, possibly discovering further feeds
// to fetch. The loop ends when the selection is ready (unless force keeps it
// going) or when every fetchable feed has been tried; it never fails on
// missing feeds, leaving the verdict to Ready.
//
// A download may retroactively invalidate the previous selection; the loop
// guarantees only that it re-solves with the latest cache state, and the
// solver's determinism owns the outcome.
func (p *policy) ResolveWithDownloads(ctx context.Context, force bool) error {
	// finished holds feed URLs whose download attempt completed,
	// successfully or otherwise; inProgress maps feed URLs to their pending
	// downloads.
	finished := make(map[string]struct{})
	inProgress := make(map[string]fetcher.Download)
	completions := make(chan string)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for {
		sol, err := p.solve(ctx)
		if err != nil {
			return err
		}

		if sol.Ready && !force {
			return nil
		}
		// Once we've started downloading some things, we might as well get
		// them all.
		force = true

		for _, url := range sol.FeedsUsed {
			if feeds.IsLocalURL(url) {
				continue
			}
			if _, done := finished[url]; done {
				continue
			}
			if _, pending := inProgress[url]; pending {
				continue
			}
			dl := p.maybeDownloadFeed(ctx, url)
			if dl == nil {
				continue // off-line
			}
			inProgress[url] = dl
			go func(url string, dl fetcher.Download) {
				select {
				case <-dl.Done():
					select {
					case completions <- url:
					case <-ctx.Done():
					}
				case <-ctx.Done():
				}
			}(url, dl)
		}

		if len(inProgress) == 0 {
			// Nothing left we can do; Ready reports whether the last solve
			// sufficed.
			logging.Debug().
				Bool("ready", sol.Ready).
				Int("feeds_fetched", len(finished)).
				Msg("Resolution loop finished")
			return nil
		}

		// Suspend until at least one download completes.
		awaiting := true
		for awaiting {
			select {
			case url := <-completions:
				if _, pending := inProgress[url]; pending {
					delete(inProgress, url)
					finished[url] = struct{}{}
					awaiting = false
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		// Sweep everything else that completed in the meantime so the next
		// solve sees the whole batch at once.
		for url, dl := range inProgress {
			if dl.Happened() {
				delete(inProgress, url)
				finished[url] = struct{}{}
			}
		}
	}
}

// RefreshAll re-downloads every feed the current graph uses.
func (p *policy) RefreshAll(ctx context.Context) error {
	return p.ResolveWithDownloads(ctx, true)
}

// Resolve runs a single solve and starts downloads for feeds that are
// missing from the cache, plus stale ones when fetchStale is true. Stale
// feeds are recorded either way. It does not wait for any download; watchers
// are notified once the pass is complete.
func (p *policy) Resolve(ctx context.Context, fetchStale bool) error {
	p.mu.Lock()
	p.staleFeeds = make(map[string]struct{})
	p.mu.Unlock()

	sol, err := p.solver.Solve(ctx, p.Root(), p.solveArchitecture())
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.solution = sol
	p.mu.Unlock()

	if p.NetworkUse() == feeds.NetworkOffline {
		fetchStale = false
	}

	for _, url := range sol.FeedsUsed {
		if feeds.IsLocalURL(url) {
			continue
		}
		feed, ok := p.cache.Feed(url)
		switch {
		case !ok || feed.LastModified.IsZero():
			p.maybeDownloadFeed(ctx, url) // will start a download
		case p.IsStale(feed):
			logging.Debug().Str("feed", url).Msg("Adding feed to stale set")
			p.mu.Lock()
			p.staleFeeds[url] = struct{}{}
			p.mu.Unlock()
			if fetchStale {
				p.maybeDownloadFeed(ctx, url)
			}
		}
	}

	p.watchers.notify()
	return nil
}

// NeedDownload runs one solve and reports whether anything must still be
// downloaded: either the selection is incomplete, or a selected
// implementation is not cached. It takes no action.
func (p *policy) NeedDownload(ctx context.Context) (bool, error) {
	sol, err := p.solve(ctx)
	if err != nil {
		return false, err
	}
	if !sol.Ready {
		return true, nil // Maybe a newer version will work?
	}
	return len(p.UncachedImplementations()) > 0, nil
}

// DownloadUncachedImplementations hands every selected implementation that
// is missing locally to the fetcher as one batch. The current selection must
// be ready.
func (p *policy) DownloadUncachedImplementations(ctx context.Context) (fetcher.Download, error) {
	if !p.Ready() {
		return nil, errors.ErrNotReady
	}
	uncached := p.UncachedImplementations()
	impls := make([]*feeds.Implementation, 0, len(uncached))
	for _, sel := range uncached {
		impls = append(impls, sel.Implementation)
	}
	logging.Debug().Int("implementations", len(impls)).Msg("Downloading uncached implementations")
	return p.fetcher.DownloadImplementations(ctx, impls), nil
}
