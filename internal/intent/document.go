// SPDX-License-Identifier: MPL-2.0

// Package intent implements the bump-intent document dialect: restricted
// Markdown carrying a leading metadata block that maps artifact ids to bump
// kinds, followed by freeform changelog body text. The package parses and
// renders documents and aggregates a set of them into per-module resolved
// direct bumps.
package intent

import (
	"fmt"

	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"
)

// FormatError reports a document that does not satisfy the dialect: missing
// metadata block, undecodable metadata, or an empty bump map.
type FormatError struct {
	// Path locates the offending document.
	Path string
	// Reason describes the violation.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("intent document %s: %s", e.Path, e.Reason)
}

// Declaration is one artifact → bump pair from a metadata block.
type Declaration struct {
	ID   artifact.ID
	Kind semver.BumpKind
}

// Document is one parsed intent file. A valid document declares at least one
// artifact. The engine never mutates documents after parse.
type Document struct {
	// Path is the source file, recorded for error messages and ordering.
	Path string
	// Declarations holds the bump map in the order artifacts appear in the
	// metadata block.
	Declarations []Declaration
	// Body is the changelog text after the metadata block, verbatim except
	// for leading blank lines.
	Body string
}

// Kind returns the bump the document declares for id, or (None, false) when
// the document does not mention id.
func (d *Document) Kind(id artifact.ID) (semver.BumpKind, bool) {
	for _, decl := range d.Declarations {
		if decl.ID == id {
			return decl.Kind, true
		}
	}
	return semver.None, false
}

// Mentions reports whether the document declares a bump for id.
func (d *Document) Mentions(id artifact.ID) bool {
	_, ok := d.Kind(id)
	return ok
}
