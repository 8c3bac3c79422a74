// Package httpfetch is the reference fetcher.Fetcher: plain HTTP GETs with a
// pluggable importer for feed documents and implementation archives. Mirror
// selection, retries, and signature verification are out of scope here; a
// production fetcher would wrap this transport.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/lodestar/internal/memcache"
	"github.com/agentstation/lodestar/pkg/errors"
	"github.com/agentstation/lodestar/pkg/feeds"
	"github.com/agentstation/lodestar/pkg/fetcher"
	"github.com/agentstation/lodestar/pkg/logging"
)

// maxDocumentSize bounds how much of a feed document we will read.
const maxDocumentSize = 4 << 20

// FeedImporter applies a fetched feed document to the metadata cache.
type FeedImporter func(url string, data []byte) error

// ImplementationImporter stores a fetched implementation archive.
type ImplementationImporter func(impl *feeds.Implementation, data []byte) error

// Fetcher downloads feeds, implementations, and icons over HTTP.
type Fetcher struct {
	client      *http.Client
	cache       *memcache.Cache
	importFeed  FeedImporter
	importImpl  ImplementationImporter
	iconDir     string
	concurrency int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient overrides the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithImplementationImporter sets where fetched implementation archives go.
func WithImplementationImporter(imp ImplementationImporter) Option {
	return func(f *Fetcher) { f.importImpl = imp }
}

// WithIconDir sets the directory icons are saved into.
func WithIconDir(dir string) Option {
	return func(f *Fetcher) { f.iconDir = dir }
}

// WithConcurrency bounds how many implementation downloads run at once.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) { f.concurrency = n }
}

// New creates a fetcher that imports feeds into the given cache.
func New(cache *memcache.Cache, importFeed FeedImporter, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: 30 * time.Second},
		cache:       cache,
		importFeed:  importFeed,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DownloadFeed fetches and imports one feed document. The check attempt is
// recorded before the request goes out, so a failed fetch still suppresses
// immediate re-checking.
func (f *Fetcher) DownloadFeed(ctx context.Context, url string) fetcher.Download {
	h := fetcher.NewHandle()
	go func() {
		f.cache.MarkCheckAttempt(url)
		data, err := f.get(ctx, url)
		if err == nil {
			err = f.importFeed(url, data)
		}
		if err != nil {
			logging.Debug().Err(err).Str("feed", url).Msg("Feed download failed")
		}
		h.Complete(err)
	}()
	return h
}

// DownloadImplementations fetches every implementation archive as one batch,
// with bounded concurrency. The handle completes when the whole batch has
// been attempted.
func (f *Fetcher) DownloadImplementations(ctx context.Context, impls []*feeds.Implementation) fetcher.Download {
	h := fetcher.NewHandle()
	go func() {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(f.concurrency)
		for _, impl := range impls {
			impl := impl
			g.Go(func() error {
				return f.downloadImplementation(ctx, impl)
			})
		}
		h.Complete(g.Wait())
	}()
	return h
}

// downloadImplementation fetches one archive and hands it to the importer.
func (f *Fetcher) downloadImplementation(ctx context.Context, impl *feeds.Implementation) error {
	if impl.Archive == "" {
		return fmt.Errorf("implementation %s has no archive", impl.ID)
	}
	if f.importImpl == nil {
		return errors.New("no implementation importer configured")
	}
	data, err := f.get(ctx, impl.Archive)
	if err != nil {
		return err
	}
	return f.importImpl(impl, data)
}

// DownloadIcon fetches the interface's icon into the icon directory. It
// returns nil when the interface declares no icon, or when the icon is
// already present and force is false.
func (f *Fetcher) DownloadIcon(ctx context.Context, iface *feeds.Interface, force bool) fetcher.Download {
	if iface.Icon == "" || f.iconDir == "" {
		return nil
	}
	path := filepath.Join(f.iconDir, iconFileName(iface.URI))
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
	}

	h := fetcher.NewHandle()
	go func() {
		data, err := f.get(ctx, iface.Icon)
		if err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		h.Complete(err)
	}()
	return h
}

// get performs one bounded GET.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}

// iconFileName flattens an interface URI into a single path component.
func iconFileName(uri string) string {
	name := make([]rune, 0, len(uri))
	for _, r := range uri {
		switch r {
		case '/', ':', '\\':
			name = append(name, '_')
		default:
			name = append(name, r)
		}
	}
	return string(name) + ".png"
}
