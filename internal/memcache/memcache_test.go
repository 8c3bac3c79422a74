package memcache

import (
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lodestar/pkg/feeds"
)

func TestInterfacePlaceholderAndPublish(t *testing.T) {
	c := New()
	a := c.Interface("https://x/app.yaml")
	b := c.Interface("https://x/app.yaml")
	assert.Same(t, a, b)
	assert.Equal(t, "https://x/app.yaml", a.URI)

	// Publishing swaps in the new instance; the old one is untouched.
	c.PutInterface(&feeds.Interface{URI: "https://x/app.yaml", Name: "app"})
	assert.Equal(t, "app", c.Interface("https://x/app.yaml").Name)
	assert.Empty(t, a.Name)
	assert.NotSame(t, a, c.Interface("https://x/app.yaml"))

	other := c.Interface("https://x/other.yaml")
	assert.NotSame(t, a, other)
}

func TestConcurrentPublishAndRead(t *testing.T) {
	c := New()
	const url = "https://x/app.yaml"
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			c.PutInterface(&feeds.Interface{
				URI:             url,
				Name:            "app",
				Implementations: []*feeds.Implementation{{ID: "sha256:abc", Version: "1.0"}},
			})
		}
	}()
	for i := 0; i < 1000; i++ {
		iface := c.Interface(url)
		if iface.Name != "" {
			assert.Len(t, iface.Implementations, 1)
		}
	}
	<-done
}

func TestFeedRoundTrip(t *testing.T) {
	c := New()
	_, ok := c.Feed("https://x/app.yaml")
	assert.False(t, ok)

	f := &feeds.Feed{URL: "https://x/app.yaml", LastModified: utc.Now()}
	c.PutFeed(f)

	got, ok := c.Feed("https://x/app.yaml")
	require.True(t, ok)
	assert.Same(t, f, got)
}

func TestCheckAttempts(t *testing.T) {
	c := New()
	_, ok := c.LastCheckAttempt("https://x/app.yaml")
	assert.False(t, ok)

	fixed := utc.Now().Add(-time.Hour)
	c.SetClock(func() utc.Time { return fixed })
	c.MarkCheckAttempt("https://x/app.yaml")

	got, ok := c.LastCheckAttempt("https://x/app.yaml")
	require.True(t, ok)
	assert.Equal(t, fixed, got)
}
