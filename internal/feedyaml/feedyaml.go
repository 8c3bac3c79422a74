// Package feedyaml implements the minimal feed-document importer used by the
// reference fetcher: YAML documents describing an interface's name, declared
// feeds, feed targets, and implementations. Trust and signature checking are
// outside this importer's contract.
package feedyaml

import (
	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/lodestar/internal/memcache"
	"github.com/agentstation/lodestar/pkg/errors"
	"github.com/agentstation/lodestar/pkg/feeds"
	"github.com/agentstation/lodestar/pkg/logging"
)

// Document is one parsed feed.
type Document struct {
	Name            string                  `yaml:"name"`
	Icon            string                  `yaml:"icon,omitempty"`
	FeedFor         []string                `yaml:"feed_for,omitempty"`
	Feeds           []feeds.Reference       `yaml:"feeds,omitempty"`
	Implementations []*feeds.Implementation `yaml:"implementations,omitempty"`

	// LastModified is the document's content version. When absent, the
	// import time is used.
	LastModified utc.Time `yaml:"last_modified,omitempty"`
}

// Parse decodes a feed document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Name == "" {
		return nil, errors.New("feed document has no name")
	}
	return &doc, nil
}

// Apply imports the document fetched from url into the cache. A fresh
// interface is built and published atomically; concurrent solves see either
// the previous metadata or the whole new document, never a half-written one.
func Apply(cache *memcache.Cache, url string, doc *Document) {
	cache.PutInterface(&feeds.Interface{
		URI:             url,
		Name:            doc.Name,
		Icon:            doc.Icon,
		FeedFor:         doc.FeedFor,
		Feeds:           doc.Feeds,
		Implementations: doc.Implementations,
	})

	now := utc.Now()
	lastModified := doc.LastModified
	if lastModified.IsZero() {
		lastModified = now
	}
	cache.PutFeed(&feeds.Feed{
		URL:          url,
		LastModified: lastModified,
		LastChecked:  now,
	})

	logging.Debug().
		Str("feed", url).
		Str("name", doc.Name).
		Int("implementations", len(doc.Implementations)).
		Msg("Feed imported")
}

// Importer returns an import callback bound to the given cache, in the shape
// the reference fetcher expects.
func Importer(cache *memcache.Cache) func(url string, data []byte) error {
	return func(url string, data []byte) error {
		doc, err := Parse(data)
		if err != nil {
			return err
		}
		Apply(cache, url, doc)
		return nil
	}
}
