// SPDX-License-Identifier: MPL-2.0

// Package semver provides the immutable semantic version value used across
// bumpwise, together with the ordered bump-kind lattice. Versions are plain
// (major, minor, patch) triples with an optional pre-release style suffix;
// the suffix participates in rendering only, never in ordering or bump
// arithmetic.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionPattern is the only shape a version string may take.
// The suffix group includes its leading dash.
var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(-[A-Za-z0-9.-]+)?$`)

// suffixPattern validates a bare suffix (without the leading dash).
var suffixPattern = regexp.MustCompile(`^[A-Za-z0-9.-]+$`)

// FormatError indicates a string that does not form a valid semantic version
// or version suffix.
type FormatError struct {
	// Input is the offending text.
	Input string
	// Reason describes what was expected.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Input, e.Reason)
}

// Version is an immutable semantic version value. The zero value renders as
// "0.0.0". Copy freely; all operations return new values.
type Version struct {
	major  uint64
	minor  uint64
	patch  uint64
	suffix string // without the leading dash; empty means no suffix
}

// New builds a version from components. The suffix must be empty or match
// the suffix grammar.
func New(major, minor, patch uint64, suffix string) (Version, error) {
	if suffix != "" && !suffixPattern.MatchString(suffix) {
		return Version{}, &FormatError{Input: suffix, Reason: "suffix must match [A-Za-z0-9.-]+"}
	}
	return Version{major: major, minor: minor, patch: patch, suffix: suffix}, nil
}

// MustParse parses s and panics on failure. For tests and trusted constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Parse converts "major.minor.patch[-suffix]" text into a Version.
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &FormatError{Input: s, Reason: `must match "major.minor.patch[-suffix]"`}
	}
	major, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Version{}, &FormatError{Input: s, Reason: "major component out of range"}
	}
	minor, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return Version{}, &FormatError{Input: s, Reason: "minor component out of range"}
	}
	patch, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return Version{}, &FormatError{Input: s, Reason: "patch component out of range"}
	}
	return Version{
		major:  major,
		minor:  minor,
		patch:  patch,
		suffix: strings.TrimPrefix(m[4], "-"),
	}, nil
}

// Major returns the major component.
func (v Version) Major() uint64 { return v.major }

// Minor returns the minor component.
func (v Version) Minor() uint64 { return v.minor }

// Patch returns the patch component.
func (v Version) Patch() uint64 { return v.patch }

// Suffix returns the suffix without its leading dash, or "".
func (v Version) Suffix() string { return v.suffix }

// String renders "major.minor.patch" plus "-suffix" when one is present.
func (v Version) String() string {
	if v.suffix == "" {
		return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	}
	return fmt.Sprintf("%d.%d.%d-%s", v.major, v.minor, v.patch, v.suffix)
}

// Bump returns the version obtained by applying kind. The suffix carries
// over unchanged; use StripSuffix or WithSuffix to alter it.
func (v Version) Bump(kind BumpKind) Version {
	switch kind {
	case Major:
		return Version{major: v.major + 1, suffix: v.suffix}
	case Minor:
		return Version{major: v.major, minor: v.minor + 1, suffix: v.suffix}
	case Patch:
		return Version{major: v.major, minor: v.minor, patch: v.patch + 1, suffix: v.suffix}
	default:
		return v
	}
}

// WithSuffix returns a copy with the suffix replaced.
func (v Version) WithSuffix(suffix string) (Version, error) {
	if !suffixPattern.MatchString(suffix) {
		return Version{}, &FormatError{Input: suffix, Reason: "suffix must match [A-Za-z0-9.-]+"}
	}
	v.suffix = suffix
	return v, nil
}

// StripSuffix returns a copy without any suffix.
func (v Version) StripSuffix() Version {
	v.suffix = ""
	return v
}

// Compare orders versions numerically by (major, minor, patch). The suffix
// is ignored. Returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	switch {
	case v.major != o.major:
		return cmpUint(v.major, o.major)
	case v.minor != o.minor:
		return cmpUint(v.minor, o.minor)
	default:
		return cmpUint(v.patch, o.patch)
	}
}

// Equal reports numeric equality; suffixes are ignored, like Compare.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
