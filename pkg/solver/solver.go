// Package solver defines the contract for the external constraint solver the
// resolver drives. The solver is a collaborator, not part of this module: it
// reads the metadata cache, applies version and architecture constraints, and
// produces a fresh selection each call.
package solver

import (
	"context"

	"github.com/agentstation/lodestar/pkg/arch"
	"github.com/agentstation/lodestar/pkg/feeds"
)

// Solution is the result of one solver run. Selections fully replaces any
// previous solution's selections; it is never merged or patched.
type Solution struct {
	// Selections maps each resolved interface to its chosen implementation.
	Selections *feeds.Selections

	// FeedsUsed lists every feed URL the solver consulted (or wanted to
	// consult) while walking the dependency graph, without duplicates.
	FeedsUsed []string

	// Ready reports whether every interface reachable in the graph has a
	// selected implementation.
	Ready bool
}

// Solver produces a selection of implementations for a root interface.
//
// Solve must be callable repeatedly and must be deterministic for a given
// (cache state, root, architecture). It represents "could not solve" as a
// non-ready Solution, not an error; errors are reserved for exceptional
// conditions such as context cancellation.
//
// The network and stability knobs live on the solver because they shape
// which candidates are admissible; the resolution policy forwards its
// accessors here.
type Solver interface {
	Solve(ctx context.Context, root string, a arch.Architecture) (*Solution, error)

	NetworkUse() feeds.NetworkUse
	SetNetworkUse(n feeds.NetworkUse)

	HelpWithTesting() bool
	SetHelpWithTesting(help bool)
}
