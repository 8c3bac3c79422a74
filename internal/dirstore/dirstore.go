// Package dirstore is a minimal directory-backed content store: one
// subdirectory per implementation key. It implements feeds.Store for the CLI
// and tests; verification and unpacking are out of scope.
package dirstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/lodestar/pkg/errors"
	"github.com/agentstation/lodestar/pkg/feeds"
)

// Store holds implementations under a root directory.
type Store struct {
	root string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// keyPath flattens a store key into a directory name.
func (s *Store) keyPath(key string) string {
	return filepath.Join(s.root, strings.ReplaceAll(key, "/", "_"))
}

// Lookup returns the directory holding the implementation with the given
// key, or an error if it is not present.
func (s *Store) Lookup(key string) (string, error) {
	path := s.keyPath(key)
	if _, err := os.Stat(path); err != nil {
		return "", errors.NewStoreError(key, err)
	}
	return path, nil
}

// Add stores raw archive bytes under key. Unpacking is the caller's concern.
func (s *Store) Add(key string, data []byte) error {
	path := s.keyPath(key)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(path, "archive"), data, 0o644)
}

// Importer adapts the store to the fetcher's implementation importer shape.
func (s *Store) Importer() func(impl *feeds.Implementation, data []byte) error {
	return func(impl *feeds.Implementation, data []byte) error {
		return s.Add(impl.ID, data)
	}
}
