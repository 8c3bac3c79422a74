package fetcher

import "sync"

// Handle is a ready-made Download implementation for fetchers: create one per
// operation, call Complete exactly once when the attempt finishes.
type Handle struct {
	mu   sync.Mutex
	done chan struct{}
	err  error
}

// NewHandle returns a pending download handle.
func NewHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Complete marks the download attempt finished with the given result.
// Calling Complete more than once is a no-op.
func (h *Handle) Complete(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	select {
	case <-h.done:
		return
	default:
	}
	h.err = err
	close(h.done)
}

// Done implements Download.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Happened implements Download.
func (h *Handle) Happened() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Err implements Download.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
