package lodestar

import (
	"context"

	"github.com/agentstation/lodestar/pkg/feeds"
	"github.com/agentstation/lodestar/pkg/fetcher"
	"github.com/agentstation/lodestar/pkg/logging"
)

// maybeDownloadFeed starts a feed download unless off-line mode forbids it,
// returning nil when suppressed.
//
// The first suppressed attempt per process logs a warning; later ones only
// log at debug level. The bootstrap feed is reported at info level instead,
// because first runs are always off-line for it, and it does not consume the
// once-per-process warning.
func (p *policy) maybeDownloadFeed(ctx context.Context, url string) fetcher.Download {
	if p.NetworkUse() != feeds.NetworkOffline {
		logging.Debug().Str("feed", url).Msg("Feed not cached and not off-line; downloading")
		return p.fetcher.DownloadFeed(ctx, url)
	}

	p.mu.Lock()
	warned := p.warnedOffline
	bootstrap := url == p.bootstrapFeed
	if !warned && !bootstrap {
		p.warnedOffline = true
	}
	p.mu.Unlock()

	switch {
	case warned:
		logging.Debug().Str("feed", url).Msg("Not downloading feed because we are off-line")
	case bootstrap:
		logging.Info().Str("feed", url).Msg("Not downloading bootstrap feed because we are in off-line mode")
	default:
		logging.Warn().Str("feed", url).Msg("Not downloading feed because we are in off-line mode")
	}
	return nil
}

// DownloadIcon fetches the interface's icon unless off-line, in which case
// it returns nil.
func (p *policy) DownloadIcon(ctx context.Context, iface *feeds.Interface, force bool) fetcher.Download {
	logging.Debug().Str("interface", iface.URI).Bool("force", force).Msg("Download icon")

	if p.NetworkUse() == feeds.NetworkOffline {
		logging.Info().Str("interface", iface.URI).Msg("Off-line; not downloading icon")
		return nil
	}
	return p.fetcher.DownloadIcon(ctx, iface, force)
}
