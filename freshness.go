package lodestar

import (
	"github.com/agentstation/lodestar/pkg/feeds"
	"github.com/agentstation/lodestar/pkg/logging"
)

// IsStale reports whether a feed's cached metadata warrants a refresh.
//
// The rules, in order: a missing feed is stale; a local feed never is; a
// feed that has never been fetched is stale; within the freshness window
// (or when the window is zero) the feed is fresh; past the window, a check
// attempt within the last FailedCheckDelay suppresses re-checking so an
// unreachable source is not hammered.
func (p *policy) IsStale(feed *feeds.Feed) bool {
	if feed == nil {
		return true
	}
	if feed.IsLocal() {
		return false
	}
	if feed.LastModified.IsZero() {
		return true // Don't even have it yet
	}

	now := p.now()
	staleness := now.Sub(feed.LastChecked)
	logging.Debug().
		Str("feed", feed.URL).
		Float64("staleness_hours", staleness.Hours()).
		Msg("Feed staleness")

	freshness := p.Freshness()
	if freshness == 0 || staleness < freshness {
		return false // Fresh enough for us
	}

	if attempt, ok := p.cache.LastCheckAttempt(feed.URL); ok {
		if now.Sub(attempt) < FailedCheckDelay {
			logging.Debug().
				Str("feed", feed.URL).
				Time("last_attempt", attempt.Time).
				Msg("Stale, but a check was attempted recently; not rechecking now")
			return false
		}
	}

	return true
}
