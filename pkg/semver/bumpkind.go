// SPDX-License-Identifier: MPL-2.0

package semver

import "fmt"

// BumpKind is the ordered lattice of version bump magnitudes:
// None < Patch < Minor < Major.
type BumpKind int

const (
	// None leaves a version untouched.
	None BumpKind = iota
	// Patch increments the patch component.
	Patch
	// Minor increments the minor component and zeroes patch.
	Minor
	// Major increments the major component and zeroes minor and patch.
	Major
)

// ParseBumpKind accepts the canonical lowercase names ("none", "patch",
// "minor", "major") case-insensitively.
func ParseBumpKind(s string) (BumpKind, error) {
	switch lower(s) {
	case "none":
		return None, nil
	case "patch":
		return Patch, nil
	case "minor":
		return Minor, nil
	case "major":
		return Major, nil
	default:
		return None, &FormatError{Input: s, Reason: "bump kind must be one of none, patch, minor, major"}
	}
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// String renders the canonical lowercase name.
func (k BumpKind) String() string {
	switch k {
	case None:
		return "none"
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return fmt.Sprintf("BumpKind(%d)", int(k))
	}
}

// AtLeast returns the greater of k and floor.
func (k BumpKind) AtLeast(floor BumpKind) BumpKind {
	if k < floor {
		return floor
	}
	return k
}

// MaxBump returns the greatest kind in kinds, or None for an empty input.
func MaxBump(kinds ...BumpKind) BumpKind {
	out := None
	for _, k := range kinds {
		if k > out {
			out = k
		}
	}
	return out
}
