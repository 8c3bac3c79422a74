package feeds

import (
	"fmt"
	"sort"
)

// Selections maps interface URIs to the implementation chosen for them by one
// solver run. A solve replaces the previous selections entirely; a published
// set is never patched in place.
type Selections struct {
	impls map[string]*Implementation
}

// NewSelections returns an empty selection set.
func NewSelections() *Selections {
	return &Selections{impls: make(map[string]*Implementation)}
}

// Set records impl as the chosen implementation for the interface uri.
// A selected interface must have a concrete implementation; passing nil is a
// contract violation and panics.
func (s *Selections) Set(uri string, impl *Implementation) {
	if impl == nil {
		panic(fmt.Sprintf("selections: nil implementation selected for %q", uri))
	}
	s.impls[uri] = impl
}

// Get returns the chosen implementation for uri, if any.
func (s *Selections) Get(uri string) (*Implementation, bool) {
	if s == nil {
		return nil, false
	}
	impl, ok := s.impls[uri]
	return impl, ok
}

// Len returns the number of selected interfaces.
func (s *Selections) Len() int {
	if s == nil {
		return 0
	}
	return len(s.impls)
}

// URIs returns the selected interface URIs in sorted order.
func (s *Selections) URIs() []string {
	if s == nil {
		return nil
	}
	uris := make([]string, 0, len(s.impls))
	for uri := range s.impls {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}
