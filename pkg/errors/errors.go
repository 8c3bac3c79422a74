// Package errors provides the typed failure conditions the resolver surfaces
// to callers. Pure decision functions (staleness, architecture ranking, the
// presence check) never return errors; these types cover the cases where a
// caller asked for something the current resolution state cannot provide.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As and Is re-export the standard library helpers so callers need only one
// errors import.
var (
	As = errors.As
	Is = errors.Is
)

// Common sentinel errors for the resolver.
var (
	// ErrSelectionIncomplete indicates the current selection does not cover
	// a requested interface.
	ErrSelectionIncomplete = errors.New("selection incomplete")

	// ErrMetadataMissing indicates an interface whose metadata has not been
	// fetched yet.
	ErrMetadataMissing = errors.New("metadata missing")

	// ErrNoUsableImplementation indicates implementations exist but none is
	// selectable.
	ErrNoUsableImplementation = errors.New("no usable implementation")

	// ErrFeedTarget indicates a feed URL whose targets cannot be determined.
	ErrFeedTarget = errors.New("feed target unavailable")

	// ErrNotStored indicates a content-store lookup failure.
	ErrNotStored = errors.New("not in store")

	// ErrNotReady indicates an operation that requires a complete selection
	// was invoked before one exists.
	ErrNotReady = errors.New("solver is not ready")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// offlineHint is appended to failures that may be caused by the network-use
// setting rather than by genuinely missing metadata.
const offlineHint = "; this may be because 'Network Use' is set to Off-line"

// SelectionError reports that the current selection has no implementation
// for an interface.
type SelectionError struct {
	Interface string
	Offline   bool
}

// Error implements the error interface.
func (e *SelectionError) Error() string {
	msg := fmt.Sprintf("no implementation selected for %s", e.Interface)
	if e.Offline {
		msg += offlineHint
	}
	return msg
}

// Is implements errors.Is support.
func (e *SelectionError) Is(target error) bool {
	return target == ErrSelectionIncomplete
}

// NewSelectionError creates a new SelectionError.
func NewSelectionError(iface string, offline bool) *SelectionError {
	return &SelectionError{Interface: iface, Offline: offline}
}

// MetadataError reports an interface with no known name and no known feeds:
// nothing can be selected until its metadata is downloaded.
type MetadataError struct {
	Interface string
}

// Error implements the error interface.
func (e *MetadataError) Error() string {
	return fmt.Sprintf("not enough information to resolve %s yet; its metadata must be downloaded first", e.Interface)
}

// Is implements errors.Is support.
func (e *MetadataError) Is(target error) bool {
	return target == ErrMetadataMissing
}

// NewMetadataError creates a new MetadataError.
func NewMetadataError(iface string) *MetadataError {
	return &MetadataError{Interface: iface}
}

// NoUsableImplementationError reports that implementations are known for an
// interface but none satisfies the current constraints.
type NoUsableImplementationError struct {
	Interface string
	Offline   bool
}

// Error implements the error interface.
func (e *NoUsableImplementationError) Error() string {
	msg := fmt.Sprintf("no usable implementation found for %s", e.Interface)
	if e.Offline {
		msg += offlineHint
	}
	return msg
}

// Is implements errors.Is support.
func (e *NoUsableImplementationError) Is(target error) bool {
	return target == ErrNoUsableImplementation
}

// NewNoUsableImplementationError creates a new NoUsableImplementationError.
func NewNoUsableImplementationError(iface string, offline bool) *NoUsableImplementationError {
	return &NoUsableImplementationError{Interface: iface, Offline: offline}
}

// FeedTargetError reports a feed URL queried for its targets when either its
// metadata is absent (Known=false) or it declares no targets (Known=true).
type FeedTargetError struct {
	URL   string
	Known bool
}

// Error implements the error interface.
func (e *FeedTargetError) Error() string {
	if !e.Known {
		return fmt.Sprintf("can't get feed targets for %s; failed to load interface", e.URL)
	}
	return fmt.Sprintf("%s declares no feed targets; it can't be used as a feed", e.URL)
}

// Is implements errors.Is support.
func (e *FeedTargetError) Is(target error) bool {
	return target == ErrFeedTarget
}

// NewFeedTargetError creates a new FeedTargetError.
func NewFeedTargetError(url string, known bool) *FeedTargetError {
	return &FeedTargetError{URL: url, Known: known}
}

// StoreError reports a content-store lookup failure for an implementation
// key. The presence check collapses this to "not cached"; the path accessor
// surfaces it directly.
type StoreError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("implementation %s is not in the store: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("implementation %s is not in the store", e.Key)
}

// Unwrap implements errors.Unwrap.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *StoreError) Is(target error) bool {
	return target == ErrNotStored
}

// NewStoreError creates a new StoreError.
func NewStoreError(key string, err error) *StoreError {
	return &StoreError{Key: key, Err: err}
}

// ConfigError reports a problem with local configuration. Load failures are
// recovered with defaults and logged, never surfaced; save failures are.
type ConfigError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(path, message string, err error) *ConfigError {
	return &ConfigError{Path: path, Message: message, Err: err}
}

// Helper functions for error checking

// IsSelectionIncomplete checks if an error is a selection-incomplete error.
func IsSelectionIncomplete(err error) bool {
	return errors.Is(err, ErrSelectionIncomplete)
}

// IsMetadataMissing checks if an error is a metadata-missing error.
func IsMetadataMissing(err error) bool {
	return errors.Is(err, ErrMetadataMissing)
}

// IsNoUsableImplementation checks if an error indicates implementations
// exist but none is selectable.
func IsNoUsableImplementation(err error) bool {
	return errors.Is(err, ErrNoUsableImplementation)
}

// IsNotStored checks if an error is a content-store lookup failure.
func IsNotStored(err error) bool {
	return errors.Is(err, ErrNotStored)
}
