// SPDX-License-Identifier: MPL-2.0

// Package changelog assembles dated release sections from resolved bumps and
// intent document bodies, and splices them into the project changelog, which
// is kept most-recent-first under a single top-level title.
package changelog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"bumpwise-cli/internal/intent"
	"bumpwise-cli/internal/resolve"
	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"
)

// PropagationMessage is the canned body used for modules bumped only because
// a dependency's version changed.
const PropagationMessage = "- Dependency versions updated."

// Default format values, used when the manifest leaves a field unset.
const (
	DefaultTitle      = "Changelog"
	DefaultHeading    = "{version} - {date#2006-01-02}"
	DefaultMajorLabel = "Major Changes"
	DefaultMinorLabel = "Minor Changes"
	DefaultPatchLabel = "Patch Changes"
	DefaultOtherLabel = "Other"
)

// ConfigurationError reports an invalid heading template.
type ConfigurationError struct {
	Template string
	Detail   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid changelog heading template %q: %s", e.Template, e.Detail)
}

// Format carries the configurable changelog text pieces.
type Format struct {
	Title      string
	Heading    string
	MajorLabel string
	MinorLabel string
	PatchLabel string
	OtherLabel string
}

// withDefaults fills unset fields with the built-in constants.
func (f Format) withDefaults() Format {
	if f.Title == "" {
		f.Title = DefaultTitle
	}
	if f.Heading == "" {
		f.Heading = DefaultHeading
	}
	if f.MajorLabel == "" {
		f.MajorLabel = DefaultMajorLabel
	}
	if f.MinorLabel == "" {
		f.MinorLabel = DefaultMinorLabel
	}
	if f.PatchLabel == "" {
		f.PatchLabel = DefaultPatchLabel
	}
	if f.OtherLabel == "" {
		f.OtherLabel = DefaultOtherLabel
	}
	return f
}

// placeholderPattern matches {name} or {name#arg} template placeholders.
var placeholderPattern = regexp.MustCompile(`\{([^{}#]+)(#[^{}]*)?\}`)

// expandHeading substitutes {version}, {module} and {date#<go layout>} in the
// heading template.
func expandHeading(template string, id artifact.ID, version semver.Version, now time.Time) (string, error) {
	var bad error
	out := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		sub := placeholderPattern.FindStringSubmatch(m)
		name, arg := sub[1], strings.TrimPrefix(sub[2], "#")
		switch name {
		case "version":
			return version.String()
		case "module":
			return id.String()
		case "date":
			if arg == "" {
				arg = "2006-01-02"
			}
			return now.Format(arg)
		default:
			bad = &ConfigurationError{Template: template, Detail: fmt.Sprintf("unknown placeholder %q", name)}
			return m
		}
	})
	if bad != nil {
		return "", bad
	}
	return out, nil
}

// Section renders the dated changelog section for one module. Contributing
// bodies are bucketed under the major/minor/patch headers by the bump each
// document declared for this module; bodies tagged none, and the canned
// propagation message, land under the other header. Empty groups render
// nothing; a module with no bodies at all still gets its dated heading.
func Section(f Format, id artifact.ID, version semver.Version, r resolve.Resolution, docs []*intent.Document, now time.Time) (string, error) {
	f = f.withDefaults()

	heading, err := expandHeading(f.Heading, id, version, now)
	if err != nil {
		return "", err
	}

	groups := map[semver.BumpKind][]string{}
	for _, doc := range docs {
		kind, ok := doc.Kind(id)
		if !ok || strings.TrimSpace(doc.Body) == "" {
			continue
		}
		groups[kind] = append(groups[kind], strings.TrimRight(doc.Body, "\n"))
	}
	if r.Propagated() {
		groups[semver.None] = append(groups[semver.None], PropagationMessage)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", heading)

	order := []struct {
		kind  semver.BumpKind
		label string
	}{
		{semver.Major, f.MajorLabel},
		{semver.Minor, f.MinorLabel},
		{semver.Patch, f.PatchLabel},
		{semver.None, f.OtherLabel},
	}
	for _, g := range order {
		bodies := groups[g.kind]
		if len(bodies) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", g.label)
		b.WriteString(strings.Join(bodies, "\n\n"))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// Merge inserts section into the existing changelog text immediately after
// the top-level title, before all prior sections. An empty or titleless
// changelog first synthesizes the configured title.
func Merge(f Format, existing, section string) string {
	f = f.withDefaults()
	section = strings.TrimRight(section, "\n")

	title, rest, ok := splitTitle(existing)
	if !ok {
		title = "# " + f.Title
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(section)
	b.WriteByte('\n')
	if rest != "" {
		b.WriteByte('\n')
		b.WriteString(rest)
		if !strings.HasSuffix(rest, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// splitTitle separates the "# ..." title line from the remaining body.
// Returns ok=false when the text has no top-level title.
func splitTitle(text string) (title, rest string, ok bool) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			rest = strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
			rest = strings.TrimRight(rest, "\n")
			return trimmed, rest, true
		}
		// First real content is not a title: keep everything below a
		// synthesized title.
		rest = strings.TrimRight(strings.TrimLeft(text, "\n"), "\n")
		return "", rest, false
	}
	return "", "", false
}
