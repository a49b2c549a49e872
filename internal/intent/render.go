// SPDX-License-Identifier: MPL-2.0

package intent

import (
	"strings"
)

// Render writes the document back in dialect form: delimiter, one metadata
// line per declaration in order, delimiter, a blank line, then the body. The
// output round-trips through Parse.
//
// When impliedGroup is non-empty, declarations in that group render as bare
// names (the constrained-key mode of the dialect).
func Render(d *Document, impliedGroup string) string {
	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')
	for _, decl := range d.Declarations {
		key := decl.ID.String()
		if impliedGroup != "" && decl.ID.Group == impliedGroup {
			key = decl.ID.Name
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(decl.Kind.String())
		b.WriteByte('\n')
	}
	b.WriteString(delimiter)
	b.WriteByte('\n')

	body := strings.TrimRight(d.Body, "\n")
	if body != "" {
		b.WriteByte('\n')
		b.WriteString(body)
	}
	b.WriteByte('\n')
	return b.String()
}
