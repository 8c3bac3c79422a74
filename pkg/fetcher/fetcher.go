// Package fetcher defines the contract for the asynchronous download
// subsystem. Transport mechanics (HTTP, mirrors, signature verification) are
// the fetcher implementation's concern; the resolver only launches downloads
// and waits on their handles.
package fetcher

import (
	"context"

	"github.com/agentstation/lodestar/pkg/feeds"
)

// Download is an async handle for one download operation. It resolves on
// completion whether the download succeeded or failed; failure is a normal
// outcome the resolver reacts to by re-solving, not an error it propagates.
type Download interface {
	// Done is closed when the download attempt has completed.
	Done() <-chan struct{}

	// Happened reports, without blocking, whether the attempt has
	// completed (successfully or not).
	Happened() bool

	// Err returns the failure, if any, once the attempt has completed.
	Err() error
}

// Fetcher launches downloads. Implementations must be safe for use from a
// single orchestrator goroutine issuing multiple concurrent operations.
type Fetcher interface {
	// DownloadFeed fetches and imports the feed at url into the metadata
	// cache, recording the check attempt whether or not it succeeds.
	DownloadFeed(ctx context.Context, url string) Download

	// DownloadImplementations fetches every listed implementation into the
	// content store as one batch.
	DownloadImplementations(ctx context.Context, impls []*feeds.Implementation) Download

	// DownloadIcon fetches the interface's icon into the icon cache. It
	// returns nil if the interface declares no icon and force is false.
	DownloadIcon(ctx context.Context, iface *feeds.Interface, force bool) Download
}
