// SPDX-License-Identifier: MPL-2.0

// Package resolve computes the final bump for every in-scope module by
// combining direct intents with propagation along dependency edges: when a
// module's dependency bumps at all, the module itself must bump by at least a
// patch. The computation is a least fixed point over the bump lattice; since
// the graph is acyclic and modules are visited dependencies-first, one pass
// suffices.
package resolve

import (
	"bumpwise-cli/internal/graph"
	"bumpwise-cli/internal/intent"
	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"
)

// Resolution is the outcome for one module.
type Resolution struct {
	// Kind is the final bump.
	Kind semver.BumpKind
	// Direct is true when at least one intent document named the module.
	// Modules bumped purely through propagation get the canned changelog
	// message instead of user-authored text.
	Direct bool
}

// Propagated reports a bump that exists only because a dependency changed.
func (r Resolution) Propagated() bool { return !r.Direct && r.Kind > semver.None }

// Result maps every in-scope module to its resolution. Modules without any
// direct or propagated bump resolve to {None, false}.
type Result map[artifact.ID]Resolution

// Resolve runs the propagation pass. Each module is initialized from its
// aggregated direct intent; then, walking modules dependencies-first, every
// module referencing a bumped dependency is raised to at least Patch. A
// pre-existing higher direct bump is never lowered.
func Resolve(agg *intent.Aggregated, g *graph.Graph) Result {
	out := make(Result, g.Len())
	for _, id := range g.Modules() {
		kind, direct := agg.Direct(id)
		out[id] = Resolution{Kind: kind, Direct: direct}
	}

	for _, dependency := range g.Modules() {
		if out[dependency].Kind == semver.None {
			continue
		}
		for _, dependent := range g.Dependents(dependency) {
			r := out[dependent]
			r.Kind = r.Kind.AtLeast(semver.Patch)
			out[dependent] = r
		}
	}
	return out
}
