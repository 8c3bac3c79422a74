package lodestar

import "sync"

// Watcher is a callback invoked after every completed or attempted
// resolution, and after root-URI changes. Watchers run synchronously on the
// resolving goroutine and read the freshly published selection state.
type Watcher func()

// watchers manages the registered resolution callbacks.
type watchers struct {
	mu  sync.RWMutex
	fns []Watcher
}

// newWatchers creates a new watchers instance.
func newWatchers() *watchers {
	return &watchers{}
}

// add registers a callback.
func (w *watchers) add(fn Watcher) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fns = append(w.fns, fn)
}

// notify invokes every registered callback in registration order.
func (w *watchers) notify() {
	w.mu.RLock()
	fns := make([]Watcher, len(w.fns))
	copy(fns, w.fns)
	w.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// AddWatcher registers a callback invoked after every resolution.
func (p *policy) AddWatcher(w Watcher) {
	p.watchers.add(w)
}
