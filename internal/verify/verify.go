// SPDX-License-Identifier: MPL-2.0

// Package verify enforces release policy on a set of aggregated intents
// before the write path runs: which modules must carry a direct intent, and
// optionally that all declared bumps agree.
package verify

import (
	"fmt"
	"sort"
	"strings"

	"bumpwise-cli/internal/graph"
	"bumpwise-cli/internal/intent"
	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"
)

// Policy selects which modules must bear a direct intent.
type Policy int

const (
	// PolicyNone always succeeds.
	PolicyNone Policy = iota
	// PolicyAtLeastOne requires at least one declared artifact overall.
	PolicyAtLeastOne
	// PolicyDependents requires that every in-scope dependency of a module
	// bearing a direct intent bears a direct intent itself. Propagation
	// does not satisfy the requirement.
	PolicyDependents
	// PolicyAll requires a direct intent on every in-scope module.
	PolicyAll
)

// ParsePolicy reads the manifest spelling of a policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "none":
		return PolicyNone, nil
	case "at_least_one":
		return PolicyAtLeastOne, nil
	case "dependents":
		return PolicyDependents, nil
	case "all":
		return PolicyAll, nil
	default:
		return PolicyNone, fmt.Errorf("unknown verify policy %q", s)
	}
}

// String names the policy in manifest spelling.
func (p Policy) String() string {
	switch p {
	case PolicyNone:
		return "none"
	case PolicyAtLeastOne:
		return "at_least_one"
	case PolicyDependents:
		return "dependents"
	case PolicyAll:
		return "all"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// NotInScopeError reports intent declarations for artifacts outside the
// workspace module set. It fires regardless of the configured policy.
type NotInScopeError struct {
	IDs []artifact.ID
}

func (e *NotInScopeError) Error() string {
	return fmt.Sprintf("intent declares artifacts outside the workspace: %s", joinIDs(e.IDs))
}

// ScopeError reports modules that the policy requires an intent for.
type ScopeError struct {
	Policy Policy
	// IDs names the offending modules; empty for PolicyAtLeastOne, which
	// has no specific module to blame.
	IDs []artifact.ID
}

func (e *ScopeError) Error() string {
	if len(e.IDs) == 0 {
		return fmt.Sprintf("policy %s: no module declares a bump intent", e.Policy)
	}
	return fmt.Sprintf("policy %s: missing bump intent for %s", e.Policy, joinIDs(e.IDs))
}

// InconsistencyError reports direct intents that disagree on the bump kind
// while consistent bumps are required.
type InconsistencyError struct {
	Kinds map[artifact.ID]semver.BumpKind
}

func (e *InconsistencyError) Error() string {
	ids := make([]artifact.ID, 0, len(e.Kinds))
	for id := range e.Kinds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s=%s", id, e.Kinds[id])
	}
	return "inconsistent bump kinds: " + strings.Join(parts, ", ")
}

// Verify checks the aggregated intents against the policy, then optionally
// against the bump-consistency constraint. Out-of-scope declarations fail
// first, independent of policy. An empty intent set satisfies the
// consistency check vacuously.
func Verify(agg *intent.Aggregated, g *graph.Graph, policy Policy, consistentBumps bool) error {
	if err := checkScopeMembership(agg, g); err != nil {
		return err
	}
	if err := checkPolicy(agg, g, policy); err != nil {
		return err
	}
	if consistentBumps {
		return checkConsistency(agg)
	}
	return nil
}

func checkScopeMembership(agg *intent.Aggregated, g *graph.Graph) error {
	var outside []artifact.ID
	seen := make(map[artifact.ID]bool)
	for _, doc := range agg.Docs {
		for _, decl := range doc.Declarations {
			if !g.Contains(decl.ID) && !seen[decl.ID] {
				seen[decl.ID] = true
				outside = append(outside, decl.ID)
			}
		}
	}
	if len(outside) > 0 {
		sortIDs(outside)
		return &NotInScopeError{IDs: outside}
	}
	return nil
}

func checkPolicy(agg *intent.Aggregated, g *graph.Graph, policy Policy) error {
	switch policy {
	case PolicyNone:
		return nil

	case PolicyAtLeastOne:
		if agg.Empty() {
			return &ScopeError{Policy: policy}
		}
		return nil

	case PolicyDependents:
		var missing []artifact.ID
		seen := make(map[artifact.ID]bool)
		for _, id := range agg.Artifacts() {
			node, ok := g.Node(id)
			if !ok {
				continue
			}
			for _, site := range node.Sites {
				dep := site.Target
				if dep == id || !g.Contains(dep) || seen[dep] {
					continue
				}
				if _, direct := agg.Direct(dep); !direct {
					seen[dep] = true
					missing = append(missing, dep)
				}
			}
		}
		if len(missing) > 0 {
			sortIDs(missing)
			return &ScopeError{Policy: policy, IDs: missing}
		}
		return nil

	case PolicyAll:
		var missing []artifact.ID
		for _, id := range g.Modules() {
			if _, direct := agg.Direct(id); !direct {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			sortIDs(missing)
			return &ScopeError{Policy: policy, IDs: missing}
		}
		return nil

	default:
		return fmt.Errorf("unknown verify policy %d", policy)
	}
}

func checkConsistency(agg *intent.Aggregated) error {
	ids := agg.Artifacts()
	if len(ids) < 2 {
		return nil
	}
	first, _ := agg.Direct(ids[0])
	mismatch := false
	kinds := make(map[artifact.ID]semver.BumpKind, len(ids))
	for _, id := range ids {
		k, _ := agg.Direct(id)
		kinds[id] = k
		if k != first {
			mismatch = true
		}
	}
	if mismatch {
		return &InconsistencyError{Kinds: kinds}
	}
	return nil
}

func sortIDs(ids []artifact.ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
}

func joinIDs(ids []artifact.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
