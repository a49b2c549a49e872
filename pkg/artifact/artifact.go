// SPDX-License-Identifier: MPL-2.0

// Package artifact defines the (group, name) coordinate that identifies a
// module inside a workspace graph.
package artifact

import (
	"fmt"
	"strings"
)

// ID identifies one module. IDs render as "group:name" and order
// lexicographically by group, then name.
type ID struct {
	Group string
	Name  string
}

// Parse reads "group:name". A bare name (no colon) is accepted only when
// impliedGroup is non-empty, in which case that group is assumed.
func Parse(s, impliedGroup string) (ID, error) {
	switch parts := strings.Split(s, ":"); len(parts) {
	case 1:
		if impliedGroup == "" {
			return ID{}, fmt.Errorf("artifact id %q: bare names require a configured default group", s)
		}
		if parts[0] == "" {
			return ID{}, fmt.Errorf("artifact id %q: empty name", s)
		}
		return ID{Group: impliedGroup, Name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return ID{}, fmt.Errorf("artifact id %q: group and name must both be non-empty", s)
		}
		return ID{Group: parts[0], Name: parts[1]}, nil
	default:
		return ID{}, fmt.Errorf("artifact id %q: expected group:name", s)
	}
}

// String renders "group:name".
func (id ID) String() string { return id.Group + ":" + id.Name }

// IsZero reports whether the id is entirely unset.
func (id ID) IsZero() bool { return id.Group == "" && id.Name == "" }

// Compare orders ids by group, then name. Returns -1, 0 or 1.
func (id ID) Compare(o ID) int {
	if c := strings.Compare(id.Group, o.Group); c != 0 {
		return c
	}
	return strings.Compare(id.Name, o.Name)
}
