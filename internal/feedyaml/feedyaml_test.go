package feedyaml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lodestar/internal/memcache"
)

const helloFeed = `
name: hello
icon: https://apps.example.com/icons/hello.png
feeds:
  - url: https://apps.example.com/feeds/hello-extras.yaml
    os: Linux
    machine: x86_64
feed_for:
  - https://apps.example.com/feeds/greeter.yaml
implementations:
  - id: sha256:abc
    version: "1.2"
    os: Linux
    machine: x86_64
    archive: https://apps.example.com/archives/hello-1.2.tar.gz
    requires:
      - https://apps.example.com/feeds/libgreet.yaml
  - id: /opt/hello
    version: "1.1"
`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(helloFeed))
	require.NoError(t, err)

	assert.Equal(t, "hello", doc.Name)
	assert.Equal(t, "https://apps.example.com/icons/hello.png", doc.Icon)
	require.Len(t, doc.Feeds, 1)
	assert.Equal(t, "Linux", doc.Feeds[0].OS)
	assert.Equal(t, []string{"https://apps.example.com/feeds/greeter.yaml"}, doc.FeedFor)
	require.Len(t, doc.Implementations, 2)
	assert.Equal(t, "sha256:abc", doc.Implementations[0].ID)
	assert.Equal(t, []string{"https://apps.example.com/feeds/libgreet.yaml"}, doc.Implementations[0].Requires)
}

func TestParseRejectsNamelessDocument(t *testing.T) {
	_, err := Parse([]byte("icon: https://x/icon.png\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not: [valid"))
	assert.Error(t, err)
}

func TestApplyPublishesReplacement(t *testing.T) {
	const url = "https://apps.example.com/feeds/hello.yaml"
	cache := memcache.New()

	// A reference taken before import keeps its pre-import state; the cache
	// serves the new document afterwards.
	before := cache.Interface(url)
	require.Empty(t, before.Name)

	doc, err := Parse([]byte(helloFeed))
	require.NoError(t, err)
	Apply(cache, url, doc)

	assert.Empty(t, before.Name)
	after := cache.Interface(url)
	assert.Equal(t, "hello", after.Name)
	assert.Len(t, after.Implementations, 2)

	feed, ok := cache.Feed(url)
	require.True(t, ok)
	assert.False(t, feed.LastModified.IsZero())
	assert.False(t, feed.LastChecked.IsZero())
}

func TestImporter(t *testing.T) {
	const url = "https://apps.example.com/feeds/hello.yaml"
	cache := memcache.New()
	importFeed := Importer(cache)

	require.Error(t, importFeed(url, []byte("icon: only\n")))
	_, ok := cache.Feed(url)
	assert.False(t, ok)

	require.NoError(t, importFeed(url, []byte(helloFeed)))
	assert.Equal(t, "hello", cache.Interface(url).Name)
}
