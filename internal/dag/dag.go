// SPDX-License-Identifier: MPL-2.0

// Package dag orders workspace modules so that every module is visited only
// after all modules it depends on. Bump propagation and version rewriting
// both rely on that guarantee.
package dag

import (
	"fmt"
	"strings"

	"bumpwise-cli/pkg/artifact"
)

type (
	// CycleError reports a dependency cycle between modules. The workspace
	// graph must be acyclic; a cycle is unresolvable.
	CycleError struct {
		// Members holds enough module ids to identify the cycle.
		Members []artifact.ID
	}

	// Graph is a directed module-dependency graph. An edge from a
	// dependency to its dependent means the dependency's version must be
	// resolved first.
	Graph struct {
		// dependents maps a module to the modules that depend on it.
		dependents map[artifact.ID][]artifact.ID
		// order tracks insertion order for deterministic output.
		order []artifact.ID
		// seen provides O(1) membership checks.
		seen map[artifact.ID]bool
	}
)

func (e *CycleError) Error() string {
	names := make([]string, len(e.Members))
	for i, id := range e.Members {
		names[i] = id.String()
	}
	return fmt.Sprintf("module dependency cycle: %s", strings.Join(names, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		dependents: make(map[artifact.ID][]artifact.ID),
		seen:       make(map[artifact.ID]bool),
	}
}

// AddModule registers a module. Re-adding an existing module is a no-op.
func (g *Graph) AddModule(id artifact.ID) {
	if g.seen[id] {
		return
	}
	g.seen[id] = true
	g.order = append(g.order, id)
}

// AddDependency records that dependent depends on dependency. Both modules
// are registered implicitly.
func (g *Graph) AddDependency(dependent, dependency artifact.ID) {
	g.AddModule(dependent)
	g.AddModule(dependency)
	g.dependents[dependency] = append(g.dependents[dependency], dependent)
}

// Contains reports whether id has been registered.
func (g *Graph) Contains(id artifact.ID) bool { return g.seen[id] }

// TopologicalOrder returns the modules dependencies-first using Kahn's
// algorithm. Modules at the same depth keep their insertion order, so the
// output is deterministic for a given workspace manifest. Returns CycleError
// when no such order exists.
func (g *Graph) TopologicalOrder() ([]artifact.ID, error) {
	if len(g.order) == 0 {
		return nil, nil
	}

	inDegree := make(map[artifact.ID]int, len(g.order))
	for _, id := range g.order {
		inDegree[id] = 0
	}
	for _, deps := range g.dependents {
		for _, dependent := range deps {
			inDegree[dependent]++
		}
	}

	queue := make([]artifact.ID, 0, len(g.order))
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var result []artifact.ID
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, id)

		for _, dependent := range g.dependents[id] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.order) {
		var members []artifact.ID
		for _, id := range g.order {
			if inDegree[id] > 0 {
				members = append(members, id)
			}
		}
		return nil, &CycleError{Members: members}
	}

	return result, nil
}
