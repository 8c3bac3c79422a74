// Package basicsolver is a deterministic greedy solver satisfying the
// solver.Solver contract, used by the CLI and tests. It walks requirements
// breadth-first from the root and picks, per interface, the best
// architecture-compatible implementation: lowest machine rank first, then
// highest version. It performs no backtracking; a production solver would
// replace it behind the same contract.
package basicsolver

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/agentstation/lodestar/pkg/arch"
	"github.com/agentstation/lodestar/pkg/feeds"
	"github.com/agentstation/lodestar/pkg/logging"
	"github.com/agentstation/lodestar/pkg/solver"
)

// Solver is a greedy reference solver.
type Solver struct {
	mu              sync.RWMutex
	cache           feeds.Cache
	networkUse      feeds.NetworkUse
	helpWithTesting bool

	// isCached lets minimal network mode prefer already-cached candidates.
	// Optional.
	isCached func(*feeds.Implementation) bool
}

// Option configures a Solver.
type Option func(*Solver)

// WithCachedCheck supplies the presence predicate minimal mode prefers by.
func WithCachedCheck(isCached func(*feeds.Implementation) bool) Option {
	return func(s *Solver) { s.isCached = isCached }
}

// New creates a solver reading metadata from cache.
func New(cache feeds.Cache, opts ...Option) *Solver {
	s := &Solver{
		cache:      cache,
		networkUse: feeds.NetworkFull,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NetworkUse returns the current network policy.
func (s *Solver) NetworkUse() feeds.NetworkUse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.networkUse
}

// SetNetworkUse changes the network policy.
func (s *Solver) SetNetworkUse(n feeds.NetworkUse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.networkUse = n
}

// HelpWithTesting returns the default stability policy.
func (s *Solver) HelpWithTesting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.helpWithTesting
}

// SetHelpWithTesting changes the default stability policy.
func (s *Solver) SetHelpWithTesting(help bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.helpWithTesting = help
}

// Solve walks the dependency graph from root and returns a fresh solution.
// Interfaces with no selectable implementation leave the solution non-ready
// but never fail the solve.
func (s *Solver) Solve(ctx context.Context, root string, a arch.Architecture) (*solver.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sel := feeds.NewSelections()
	ready := true

	var feedsUsed []string
	usedSet := make(map[string]struct{})
	useFeed := func(url string) {
		if _, ok := usedSet[url]; ok {
			return
		}
		usedSet[url] = struct{}{}
		feedsUsed = append(feedsUsed, url)
	}

	seen := map[string]struct{}{root: {}}
	queue := []string{root}
	for len(queue) > 0 {
		uri := queue[0]
		queue = queue[1:]

		iface := s.cache.Interface(uri)

		// The interface's own URI is its primary feed; its declared extra
		// feeds count too when the architecture can use them.
		useFeed(uri)
		for _, ref := range iface.Feeds {
			if a.OSRanks.Supports(ref.OS) && a.MachineRanks.Supports(ref.Machine) {
				useFeed(ref.URL)
			}
		}

		impl := s.choose(iface, a)
		if impl == nil {
			logging.Debug().Str("interface", uri).Msg("No selectable implementation")
			ready = false
			continue
		}
		sel.Set(uri, impl)

		for _, req := range impl.Requires {
			if _, ok := seen[req]; !ok {
				seen[req] = struct{}{}
				queue = append(queue, req)
			}
		}
	}

	return &solver.Solution{
		Selections: sel,
		FeedsUsed:  feedsUsed,
		Ready:      ready,
	}, nil
}

// choose picks the best compatible implementation for iface, or nil.
func (s *Solver) choose(iface *feeds.Interface, a arch.Architecture) *feeds.Implementation {
	var best *feeds.Implementation
	bestRank := 0
	preferCached := s.NetworkUse() == feeds.NetworkMinimal && s.isCached != nil

	for _, impl := range iface.Implementations {
		if !a.OSRanks.Supports(impl.OS) {
			continue
		}
		rank, ok := a.MachineRanks.Rank(impl.Machine)
		if !ok {
			continue
		}
		if best == nil || better(impl, rank, best, bestRank, preferCached, s.isCached) {
			best, bestRank = impl, rank
		}
	}
	return best
}

// better reports whether candidate beats the incumbent: cached first under
// minimal network use, then lower machine rank, then higher version.
func better(cand *feeds.Implementation, candRank int, inc *feeds.Implementation, incRank int, preferCached bool, isCached func(*feeds.Implementation) bool) bool {
	if preferCached {
		candCached, incCached := isCached(cand), isCached(inc)
		if candCached != incCached {
			return candCached
		}
	}
	if candRank != incRank {
		return candRank < incRank
	}
	return compareVersions(cand.Version, inc.Version) > 0
}

// compareVersions compares dotted-integer version strings. Non-numeric
// components compare lexically; missing components compare as zero.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var ac, bc string
		if i < len(as) {
			ac = as[i]
		}
		if i < len(bs) {
			bc = bs[i]
		}
		an, aerr := strconv.Atoi(ac)
		bn, berr := strconv.Atoi(bc)
		switch {
		case aerr == nil && berr == nil:
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
		default:
			if ac != bc {
				if ac < bc {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}
