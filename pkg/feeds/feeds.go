// Package feeds defines the data model for interfaces, feeds, and
// implementations, plus the contracts the resolver consumes for metadata
// caching and content-store lookups.
//
// An Interface is an installable component identified by URI. Feeds are the
// metadata documents describing the implementations available for an
// Interface; an Implementation is one concrete version/build of it. The
// solver maps interfaces to implementations in a Selections set.
package feeds

import (
	"strings"

	"github.com/agentstation/utc"
)

// NetworkUse controls how freely the resolver may hit the network.
type NetworkUse string

// Network policy levels, most to least permissive.
const (
	// NetworkFull allows all downloads.
	NetworkFull NetworkUse = "full"

	// NetworkMinimal allows downloads only when nothing cached will do.
	NetworkMinimal NetworkUse = "minimal"

	// NetworkOffline forbids all new downloads.
	NetworkOffline NetworkUse = "off-line"
)

// NetworkLevels lists all valid network policy values.
func NetworkLevels() []NetworkUse {
	return []NetworkUse{NetworkFull, NetworkMinimal, NetworkOffline}
}

// IsValid reports whether n is one of the defined network levels.
func (n NetworkUse) IsValid() bool {
	for _, level := range NetworkLevels() {
		if n == level {
			return true
		}
	}
	return false
}

// String returns the string representation of the network level.
func (n NetworkUse) String() string {
	return string(n)
}

// IsLocalURL reports whether url names a local filesystem feed rather than a
// remote one. Local feeds are read directly and are never downloaded or
// considered stale.
func IsLocalURL(url string) bool {
	return strings.HasPrefix(url, "/")
}

// Reference is a feed declared by an interface, tagged with the architecture
// its implementations target. Empty OS or Machine tags match any.
type Reference struct {
	URL     string `yaml:"url"`
	OS      string `yaml:"os,omitempty"`
	Machine string `yaml:"machine,omitempty"`
}

// IsLocal reports whether the reference points at a local filesystem feed.
func (r Reference) IsLocal() bool {
	return IsLocalURL(r.URL)
}

// Feed is a cached metadata document for an interface.
type Feed struct {
	// URL identifies the feed. May be a local filesystem path.
	URL string `yaml:"url"`

	// LastModified is the content version of the cached copy. Zero means
	// the feed has never been fetched.
	LastModified utc.Time `yaml:"last_modified,omitempty"`

	// LastChecked is the local clock time of the last successful check.
	LastChecked utc.Time `yaml:"last_checked,omitempty"`
}

// IsLocal reports whether the feed lives on the local filesystem.
func (f *Feed) IsLocal() bool {
	return IsLocalURL(f.URL)
}

// Interface identifies a requestable component by canonical URI. Instances
// come from the Cache and are read-only once published; a metadata download
// publishes a replacement instance rather than mutating the old one, so
// readers on other goroutines never see a partial update.
type Interface struct {
	// URI is the canonical identifier, and doubles as the primary feed URL.
	URI string `yaml:"uri"`

	// Name is the display name. Empty until metadata has been fetched.
	Name string `yaml:"name,omitempty"`

	// Icon is the URL of the interface's icon, if it declares one.
	Icon string `yaml:"icon,omitempty"`

	// Feeds are the extra feed references the interface declares.
	Feeds []Reference `yaml:"feeds,omitempty"`

	// FeedFor lists the URIs of interfaces this interface is a feed for.
	FeedFor []string `yaml:"feed_for,omitempty"`

	// Implementations are the currently known implementations, across all
	// fetched feeds. Empty until metadata has been resolved.
	Implementations []*Implementation `yaml:"implementations,omitempty"`
}

// String returns the interface's display name, falling back to its URI.
func (i *Interface) String() string {
	if i.Name != "" {
		return i.Name
	}
	return i.URI
}

// Implementation is one concrete installable version of an interface.
type Implementation struct {
	// ID is either a content-store key or an absolute local path.
	ID string `yaml:"id"`

	// Version is the implementation's declared version string.
	Version string `yaml:"version,omitempty"`

	// OS and Machine tag the architecture the build targets. Empty matches
	// any.
	OS      string `yaml:"os,omitempty"`
	Machine string `yaml:"machine,omitempty"`

	// Archive is the URL the implementation is downloaded from.
	Archive string `yaml:"archive,omitempty"`

	// Requires lists the URIs of interfaces this implementation depends on.
	Requires []string `yaml:"requires,omitempty"`

	// Distribution marks an implementation packaged by the host
	// distribution. Its presence is governed by the package manager via
	// Installed, never by the content store.
	Distribution bool `yaml:"distribution,omitempty"`

	// Installed reports whether a distribution implementation is installed,
	// as reported by the host package manager.
	Installed bool `yaml:"installed,omitempty"`
}

// IsLocal reports whether the implementation is identified by a local path
// rather than a content-store key.
func (im *Implementation) IsLocal() bool {
	return strings.HasPrefix(im.ID, "/")
}

// Cache is the process-wide interface/feed metadata cache the resolver
// consults. Interface returns the currently published instance for a URI,
// creating an empty placeholder on first reference; imports replace the
// published instance atomically and never mutate it in place.
type Cache interface {
	// Interface returns the current metadata for uri, creating an empty
	// placeholder if unknown. The result is read-only.
	Interface(uri string) *Interface

	// Feed returns the cached feed for url, or false if it has never been
	// seen.
	Feed(url string) (*Feed, bool)

	// LastCheckAttempt returns the local clock time of the most recent
	// check attempt for url, successful or not.
	LastCheckAttempt(url string) (utc.Time, bool)
}

// Store resolves content-store keys to local paths.
type Store interface {
	// Lookup returns the local path holding the implementation with the
	// given key, or an error if it is not present.
	Lookup(key string) (string, error)
}
