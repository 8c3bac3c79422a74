package lodestar

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/lodestar/internal/memcache"
	"github.com/agentstation/lodestar/pkg/feeds"
)

func TestIsStale(t *testing.T) {
	const url = "https://apps.example.com/feeds/dep.yaml"
	ago := func(d time.Duration) utc.Time { return fixedNow.Add(-d) }

	tests := []struct {
		name        string
		feed        *feeds.Feed
		freshness   time.Duration
		lastAttempt time.Duration // 0 means no attempt recorded
		want        bool
	}{
		{
			name: "missing feed",
			feed: nil,
			want: true,
		},
		{
			name: "local feed never stale",
			feed: &feeds.Feed{URL: "/feeds/dep.yaml", LastModified: ago(90 * 24 * time.Hour)},
			want: false,
		},
		{
			name: "never fetched",
			feed: &feeds.Feed{URL: url},
			want: true,
		},
		{
			name:      "within freshness window",
			feed:      &feeds.Feed{URL: url, LastModified: ago(48 * time.Hour), LastChecked: ago(30 * time.Minute)},
			freshness: time.Hour,
			want:      false,
		},
		{
			name:      "past the window",
			feed:      &feeds.Feed{URL: url, LastModified: ago(48 * time.Hour), LastChecked: ago(2 * time.Hour)},
			freshness: time.Hour,
			want:      true,
		},
		{
			name:      "zero freshness disables checks",
			feed:      &feeds.Feed{URL: url, LastModified: ago(90 * 24 * time.Hour), LastChecked: ago(90 * 24 * time.Hour)},
			freshness: 0,
			want:      false,
		},
		{
			name:        "recent failed attempt suppresses recheck",
			feed:        &feeds.Feed{URL: url, LastModified: ago(48 * time.Hour), LastChecked: ago(2 * time.Hour)},
			freshness:   time.Hour,
			lastAttempt: 10 * time.Minute,
			want:        false,
		},
		{
			name:        "old attempt no longer suppresses",
			feed:        &feeds.Feed{URL: url, LastModified: ago(48 * time.Hour), LastChecked: ago(3 * time.Hour)},
			freshness:   time.Hour,
			lastAttempt: 2 * time.Hour,
			want:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := memcache.New()
			if tt.lastAttempt != 0 {
				cache.SetClock(func() utc.Time { return ago(tt.lastAttempt) })
				cache.MarkCheckAttempt(url)
			}
			p := newTestPolicy(t, "https://apps.example.com/feeds/app.yaml",
				newFakeSolver(solution(true, nil, nil)), newFakeFetcher(), cache,
				WithFreshness(tt.freshness),
				WithClock(fixedClock))

			assert.Equal(t, tt.want, p.IsStale(tt.feed))
		})
	}
}
