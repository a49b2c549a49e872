// SPDX-License-Identifier: MPL-2.0

// Package graph builds the in-memory artifact graph for one invocation: every
// workspace module, its descriptor, and every cross-module version reference
// extracted from the descriptors. The graph is rebuilt fresh on each run and
// never mutated after Build returns; the applier mutates descriptor nodes the
// graph points into, not the graph itself.
package graph

import (
	"fmt"

	"bumpwise-cli/internal/dag"
	"bumpwise-cli/internal/descriptor"
	"bumpwise-cli/pkg/artifact"
)

// Module pairs a workspace folder with its parsed descriptor.
type Module struct {
	// Dir is the module folder, workspace-root relative.
	Dir string
	// Doc is the parsed descriptor.
	Doc *descriptor.Document
}

// Node is one module inside a built graph.
type Node struct {
	// ID is the module's coordinate, unique within the graph.
	ID artifact.ID
	// Dir is the module folder.
	Dir string
	// Doc is the descriptor backing the node.
	Doc *descriptor.Document
	// Leaf is true when the descriptor declares no nested modules.
	Leaf bool
	// Sites are the module's outgoing references, in descriptor order.
	Sites []descriptor.Site
}

// SiteRef is a reference site together with the module that owns it.
type SiteRef struct {
	Owner *Node
	Site  descriptor.Site
}

// DuplicateError reports two workspace modules carrying the same id.
type DuplicateError struct {
	ID   artifact.ID
	Dirs [2]string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate artifact id %s declared by %s and %s", e.ID, e.Dirs[0], e.Dirs[1])
}

// Graph is the immutable per-invocation artifact graph.
type Graph struct {
	nodes      map[artifact.ID]*Node
	order      []artifact.ID
	dependents map[artifact.ID][]artifact.ID
}

// Build constructs the graph from the workspace module list. Modules are
// validated for unique ids, reference sites are extracted, and the returned
// graph's Modules order is topological: every module appears after all
// in-scope modules it references.
func Build(modules []Module) (*Graph, error) {
	g := &Graph{
		nodes:      make(map[artifact.ID]*Node, len(modules)),
		dependents: make(map[artifact.ID][]artifact.ID),
	}

	d := dag.New()
	for _, m := range modules {
		id, err := m.Doc.ID()
		if err != nil {
			return nil, err
		}
		if prev, ok := g.nodes[id]; ok {
			return nil, &DuplicateError{ID: id, Dirs: [2]string{prev.Dir, m.Dir}}
		}
		sites, err := m.Doc.ReferenceSites()
		if err != nil {
			return nil, err
		}
		g.nodes[id] = &Node{
			ID:    id,
			Dir:   m.Dir,
			Doc:   m.Doc,
			Leaf:  !m.Doc.HasNestedModules(),
			Sites: sites,
		}
		d.AddModule(id)
	}

	// Edges only between in-scope modules; references to artifacts outside
	// the workspace are inert for ordering and propagation.
	for _, node := range g.nodes {
		for _, site := range node.Sites {
			if _, ok := g.nodes[site.Target]; !ok {
				continue
			}
			if site.Target == node.ID {
				continue
			}
			d.AddDependency(node.ID, site.Target)
			g.dependents[site.Target] = append(g.dependents[site.Target], node.ID)
		}
	}

	order, err := d.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	g.order = order
	return g, nil
}

// Node looks up a module by id.
func (g *Graph) Node(id artifact.ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Contains reports whether id is an in-scope module.
func (g *Graph) Contains(id artifact.ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the module count.
func (g *Graph) Len() int { return len(g.nodes) }

// Modules returns every module id, dependencies before dependents.
func (g *Graph) Modules() []artifact.ID { return g.order }

// Dependents returns the modules holding at least one reference site whose
// target is id. Order is not significant; duplicates are possible when a
// module references id from several sections.
func (g *Graph) Dependents(id artifact.ID) []artifact.ID {
	return g.dependents[id]
}

// LiteralSites returns every literal (directly rewritable) reference site in
// the whole graph whose target is id, with its owning module.
func (g *Graph) LiteralSites(id artifact.ID) []SiteRef {
	var refs []SiteRef
	for _, owner := range g.order {
		node := g.nodes[owner]
		for _, site := range node.Sites {
			if site.Target == id && site.Literal() {
				refs = append(refs, SiteRef{Owner: node, Site: site})
			}
		}
	}
	return refs
}
