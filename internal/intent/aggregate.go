// SPDX-License-Identifier: MPL-2.0

package intent

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"
)

// Aggregated is the per-module view over a set of intent documents: the
// maximum bump each artifact was given, and the ordered documents that
// contributed it. Aggregation is monotone: adding a document never lowers a
// module's resolved bump.
type Aggregated struct {
	// Docs holds every contributing document in discovery order.
	Docs []*Document

	direct map[artifact.ID]semver.BumpKind
}

// Aggregate folds documents (kept in the given order) into the per-artifact
// maximum declared bump.
func Aggregate(docs []*Document) *Aggregated {
	agg := &Aggregated{
		Docs:   docs,
		direct: make(map[artifact.ID]semver.BumpKind),
	}
	for _, doc := range docs {
		for _, decl := range doc.Declarations {
			if cur, ok := agg.direct[decl.ID]; !ok || decl.Kind > cur {
				agg.direct[decl.ID] = decl.Kind
			}
		}
	}
	return agg
}

// Direct returns the aggregated direct bump for id and whether any document
// declared one.
func (a *Aggregated) Direct(id artifact.ID) (semver.BumpKind, bool) {
	k, ok := a.direct[id]
	return k, ok
}

// Artifacts returns every artifact with a direct intent, sorted for
// deterministic iteration.
func (a *Aggregated) Artifacts() []artifact.ID {
	out := make([]artifact.ID, 0, len(a.direct))
	for id := range a.direct {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Empty reports whether no document declared any artifact.
func (a *Aggregated) Empty() bool { return len(a.direct) == 0 }

// DocsFor returns the documents mentioning id, preserving discovery order.
func (a *Aggregated) DocsFor(id artifact.ID) []*Document {
	var out []*Document
	for _, doc := range a.Docs {
		if doc.Mentions(id) {
			out = append(out, doc)
		}
	}
	return out
}

// LoadDir parses every intent document under dir (non-recursive, "*.md",
// lexical filename order, the dialect's discovery order). A missing
// directory yields an empty set: having nothing to release is not an error.
func LoadDir(dir, impliedGroup string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []*Document
	for _, name := range names {
		path := filepath.Join(dir, name)
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		doc, err := Parse(path, src, impliedGroup)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
