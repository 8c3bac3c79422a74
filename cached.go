package lodestar

import (
	"os"

	"github.com/agentstation/lodestar/pkg/feeds"
)

// GetCached reports whether impl is already available locally.
//
// Distribution-packaged implementations answer from the host package
// manager's installed flag, never the content store. Local-path
// implementations check filesystem existence. Store-keyed implementations
// are cached iff a store lookup succeeds; lookup failure is a normal
// precondition for downloading, not an error.
func (p *policy) GetCached(impl *feeds.Implementation) bool {
	if impl.Distribution {
		return impl.Installed
	}
	if impl.IsLocal() {
		_, err := os.Stat(impl.ID)
		return err == nil
	}
	path, err := p.GetImplementationPath(impl)
	return err == nil && path != ""
}

// UncachedImplementations lists every selection entry whose implementation
// is not yet available locally, ordered by interface URI.
func (p *policy) UncachedImplementations() []Selection {
	sel := p.Selections()
	var uncached []Selection
	for _, uri := range sel.URIs() {
		impl, ok := sel.Get(uri)
		if !ok {
			// Selections can't hold absent entries; Set enforces it.
			continue
		}
		if !p.GetCached(impl) {
			uncached = append(uncached, Selection{
				Interface:      p.cache.Interface(uri),
				Implementation: impl,
			})
		}
	}
	return uncached
}
