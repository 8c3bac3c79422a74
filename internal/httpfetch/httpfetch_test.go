package httpfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lodestar/internal/memcache"
	"github.com/agentstation/lodestar/pkg/feeds"
)

// collectingImporter records what the fetcher hands it.
type collectingImporter struct {
	mu    sync.Mutex
	feeds map[string][]byte
	impls map[string][]byte
}

func newCollectingImporter() *collectingImporter {
	return &collectingImporter{
		feeds: make(map[string][]byte),
		impls: make(map[string][]byte),
	}
}

func (c *collectingImporter) importFeed(url string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feeds[url] = data
	return nil
}

func (c *collectingImporter) importImpl(impl *feeds.Implementation, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.impls[impl.ID] = data
	return nil
}

func TestDownloadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "name: hello\n")
	}))
	defer srv.Close()

	cache := memcache.New()
	imp := newCollectingImporter()
	f := New(cache, imp.importFeed)

	url := srv.URL + "/feeds/hello.yaml"
	dl := f.DownloadFeed(context.Background(), url)
	<-dl.Done()

	require.NoError(t, dl.Err())
	assert.Equal(t, []byte("name: hello\n"), imp.feeds[url])
	_, attempted := cache.LastCheckAttempt(url)
	assert.True(t, attempted)
}

func TestDownloadFeedRecordsAttemptOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	cache := memcache.New()
	f := New(cache, newCollectingImporter().importFeed)

	url := srv.URL + "/feeds/hello.yaml"
	dl := f.DownloadFeed(context.Background(), url)
	<-dl.Done()

	require.Error(t, dl.Err())
	_, attempted := cache.LastCheckAttempt(url)
	assert.True(t, attempted)
}

func TestDownloadFeedImporterErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "payload")
	}))
	defer srv.Close()

	importErr := fmt.Errorf("unparseable feed")
	f := New(memcache.New(), func(string, []byte) error { return importErr })

	dl := f.DownloadFeed(context.Background(), srv.URL+"/feeds/bad.yaml")
	<-dl.Done()
	assert.ErrorIs(t, dl.Err(), importErr)
}

func TestDownloadImplementations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "bytes of ", r.URL.Path)
	}))
	defer srv.Close()

	imp := newCollectingImporter()
	f := New(memcache.New(), imp.importFeed,
		WithImplementationImporter(imp.importImpl),
		WithConcurrency(2))

	impls := []*feeds.Implementation{
		{ID: "sha256:a", Archive: srv.URL + "/a.tar.gz"},
		{ID: "sha256:b", Archive: srv.URL + "/b.tar.gz"},
		{ID: "sha256:c", Archive: srv.URL + "/c.tar.gz"},
	}
	dl := f.DownloadImplementations(context.Background(), impls)
	<-dl.Done()

	require.NoError(t, dl.Err())
	require.Len(t, imp.impls, 3)
	assert.Equal(t, []byte("bytes of /a.tar.gz"), imp.impls["sha256:a"])
}

func TestDownloadImplementationsMissingArchive(t *testing.T) {
	imp := newCollectingImporter()
	f := New(memcache.New(), imp.importFeed, WithImplementationImporter(imp.importImpl))

	dl := f.DownloadImplementations(context.Background(), []*feeds.Implementation{{ID: "sha256:a"}})
	<-dl.Done()
	assert.Error(t, dl.Err())
}

func TestDownloadIcon(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "png bytes")
	}))
	defer srv.Close()

	iconDir := t.TempDir()
	f := New(memcache.New(), newCollectingImporter().importFeed, WithIconDir(iconDir))

	iface := &feeds.Interface{
		URI:  "https://x/app.yaml",
		Name: "app",
		Icon: srv.URL + "/icon.png",
	}
	dl := f.DownloadIcon(context.Background(), iface, false)
	require.NotNil(t, dl)
	<-dl.Done()
	require.NoError(t, dl.Err())

	data, err := os.ReadFile(filepath.Join(iconDir, iconFileName(iface.URI)))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	// Already present and not forced: nothing to do.
	assert.Nil(t, f.DownloadIcon(context.Background(), iface, false))
	// Forced: fetched again.
	forced := f.DownloadIcon(context.Background(), iface, true)
	require.NotNil(t, forced)
	<-forced.Done()
	assert.NoError(t, forced.Err())

	// No declared icon: nothing to do.
	assert.Nil(t, f.DownloadIcon(context.Background(), &feeds.Interface{URI: "https://x/plain.yaml"}, true))
}

func TestIconFileName(t *testing.T) {
	assert.Equal(t, "https___x_app.yaml.png", iconFileName("https://x/app.yaml"))
}
