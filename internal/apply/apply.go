// SPDX-License-Identifier: MPL-2.0

// Package apply turns resolved bumps into concrete version rewrites across
// the artifact graph. All mutation happens on in-memory descriptor nodes;
// flushing (or suppressing the flush in a dry run) belongs to the release
// engine, which only writes after every module has resolved cleanly.
package apply

import (
	"fmt"

	"bumpwise-cli/internal/descriptor"
	"bumpwise-cli/internal/graph"
	"bumpwise-cli/internal/resolve"
	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Scope selects which modules carry a rewritable version of their own.
type Scope int

const (
	// ScopeEveryModule bumps the version field of every module.
	ScopeEveryModule Scope = iota
	// ScopeSharedProperty bumps only the named shared version property on
	// the module being processed.
	ScopeSharedProperty
	// ScopeLeafModules bumps only modules without nested modules.
	ScopeLeafModules
)

// ParseScope reads the manifest spelling of a scope.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "", "every_module":
		return ScopeEveryModule, nil
	case "shared_property":
		return ScopeSharedProperty, nil
	case "leaf_modules":
		return ScopeLeafModules, nil
	default:
		return ScopeEveryModule, fmt.Errorf("unknown version scope %q", s)
	}
}

// Options configures one apply pass.
type Options struct {
	// Scope picks the version-bearing node strategy.
	Scope Scope
	// SharedProperty names the property for ScopeSharedProperty.
	SharedProperty string
	// GlobalBump, when not None, forces at least that bump on every module
	// in scope, intents or not.
	GlobalBump semver.BumpKind
}

// Change records one module's version move.
type Change struct {
	ID   artifact.ID
	Old  semver.Version
	New  semver.Version
	Kind semver.BumpKind
	// Direct mirrors the resolution provenance.
	Direct bool
	// RewrittenSites counts literal reference sites updated graph-wide.
	RewrittenSites int
}

// Result is the outcome of one apply pass.
type Result struct {
	// Changes lists the bumped modules in graph order.
	Changes []Change
	// Dirty holds every module whose descriptor was mutated, in graph
	// order without duplicates: bumped modules plus modules whose
	// reference sites were rewritten.
	Dirty []*graph.Node
}

// Apply computes and performs the in-memory rewrites for every module whose
// effective bump is not None, walking modules dependencies-first. It fails
// before touching anything else on the first unresolvable version node or
// malformed version text, so a returned error means some modules may carry
// in-memory mutations; callers must discard the graph on error rather than
// flush it.
func Apply(g *graph.Graph, res resolve.Result, opts Options, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Default()
	}

	var changes []Change
	dirty := make(map[artifact.ID]bool)
	for _, id := range g.Modules() {
		node, _ := g.Node(id)

		kind := res[id].Kind.AtLeast(opts.GlobalBump)
		if kind == semver.None {
			continue
		}
		if opts.Scope == ScopeLeafModules && !node.Leaf {
			logger.Debug("skipping non-leaf module", "module", id.String())
			continue
		}

		versionNode, err := locateVersionNode(node, opts)
		if err != nil {
			return nil, err
		}

		oldVersion, err := semver.Parse(versionNode.Value)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", id, err)
		}
		newVersion := oldVersion.Bump(kind)

		// Rewrite only when the node still holds exactly the text we
		// parsed; a mismatch means something else touched the document
		// between read and write.
		if versionNode.Value != oldVersion.String() {
			return nil, &descriptor.GraphError{
				Path:   node.Doc.Path(),
				Detail: fmt.Sprintf("version text %q changed during processing", versionNode.Value),
			}
		}
		versionNode.Value = newVersion.String()
		dirty[id] = true

		rewritten := rewriteReferences(g, id, oldVersion, newVersion, dirty, logger)

		logger.Debug("bumped module",
			"module", id.String(),
			"old", oldVersion.String(),
			"new", newVersion.String(),
			"kind", kind.String(),
			"references", rewritten)

		changes = append(changes, Change{
			ID:             id,
			Old:            oldVersion,
			New:            newVersion,
			Kind:           kind,
			Direct:         res[id].Direct,
			RewrittenSites: rewritten,
		})
	}

	result := &Result{Changes: changes}
	for _, id := range g.Modules() {
		if dirty[id] {
			node, _ := g.Node(id)
			result.Dirty = append(result.Dirty, node)
		}
	}
	return result, nil
}

// locateVersionNode finds the version-bearing scalar for a module under the
// configured scope.
func locateVersionNode(node *graph.Node, opts Options) (*yaml.Node, error) {
	if opts.Scope == ScopeSharedProperty {
		return node.Doc.PropertyNode(opts.SharedProperty)
	}
	return node.Doc.VersionNode()
}

// rewriteReferences updates every literal reference site in the graph whose
// target is id and whose text still equals the old version. Placeholder
// sites stay untouched: the shared property they resolve to is rewritten
// exactly once, by the owning module's own version update.
func rewriteReferences(g *graph.Graph, id artifact.ID, oldVersion, newVersion semver.Version, dirty map[artifact.ID]bool, logger *log.Logger) int {
	rewritten := 0
	for _, ref := range g.LiteralSites(id) {
		if ref.Site.Node.Value != oldVersion.String() {
			logger.Debug("reference version differs, leaving untouched",
				"module", ref.Owner.ID.String(),
				"target", id.String(),
				"have", ref.Site.Node.Value,
				"expected", oldVersion.String())
			continue
		}
		ref.Site.Node.Value = newVersion.String()
		dirty[ref.Owner.ID] = true
		rewritten++
	}
	return rewritten
}
