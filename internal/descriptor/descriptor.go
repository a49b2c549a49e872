// SPDX-License-Identifier: MPL-2.0

// Package descriptor models a module.yaml build descriptor as a yaml.v3 node
// tree. Keeping the node tree (instead of decoding into structs) lets the
// version applier rewrite individual scalar values in place while preserving
// the rest of the document, comments included, on write-back.
package descriptor

import (
	"bytes"
	"fmt"
	"regexp"

	"bumpwise-cli/pkg/artifact"

	"gopkg.in/yaml.v3"
)

// Category classifies where in a descriptor a version reference lives.
type Category int

const (
	// CategoryParent is the parent module reference.
	CategoryParent Category = iota
	// CategoryDependency is a regular dependency entry.
	CategoryDependency
	// CategoryDependencyManagement is a dependency-management entry.
	CategoryDependencyManagement
	// CategoryPlugin is a build plugin reference.
	CategoryPlugin
	// CategoryPluginManagement is a plugin-management entry.
	CategoryPluginManagement
)

// String names the descriptor section holding the category.
func (c Category) String() string {
	switch c {
	case CategoryParent:
		return "parent"
	case CategoryDependency:
		return "dependencies"
	case CategoryDependencyManagement:
		return "dependency_management"
	case CategoryPlugin:
		return "plugins"
	case CategoryPluginManagement:
		return "plugin_management"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// sectionOrder fixes the extraction order of reference-site sections.
var sectionOrder = []Category{
	CategoryParent,
	CategoryDependency,
	CategoryDependencyManagement,
	CategoryPlugin,
	CategoryPluginManagement,
}

// placeholderPattern matches "${property.name}" version values.
var placeholderPattern = regexp.MustCompile(`^\$\{([A-Za-z0-9._-]+)\}$`)

// GraphError reports a descriptor whose structure does not support a
// requested lookup, e.g. a missing version node or property.
type GraphError struct {
	// Path is the descriptor file involved.
	Path string
	// Detail says which lookup failed.
	Detail string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("descriptor %s: %s", e.Path, e.Detail)
}

// Site is one version-bearing reference to another module.
type Site struct {
	// Target is the referenced module.
	Target artifact.ID
	// Category says which descriptor section holds the reference.
	Category Category
	// Node is the scalar holding the version text. For placeholder sites
	// it holds the "${...}" text, not the resolved value.
	Node *yaml.Node
	// Property is the property name a placeholder resolves to; empty for
	// literal sites.
	Property string
}

// Literal reports whether the site's version text may be rewritten directly.
func (s Site) Literal() bool { return s.Property == "" }

// Document is a parsed module descriptor. The zero value is not usable;
// construct through Parse or the I/O layer's Read.
type Document struct {
	path string
	root *yaml.Node
}

// Parse builds a Document from descriptor bytes. path is recorded for error
// messages and write-back.
func Parse(path string, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &GraphError{Path: path, Detail: fmt.Sprintf("malformed YAML: %v", err)}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, &GraphError{Path: path, Detail: "descriptor must be a YAML mapping"}
	}
	return &Document{path: path, root: &root}, nil
}

// Path returns the file path the document was read from.
func (d *Document) Path() string { return d.path }

// top returns the top-level mapping node.
func (d *Document) top() *yaml.Node { return d.root.Content[0] }

// mappingValue finds the value node for key inside a mapping node.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// ID reads the module's own coordinates from the "module" section.
func (d *Document) ID() (artifact.ID, error) {
	mod := mappingValue(d.top(), "module")
	if mod == nil {
		return artifact.ID{}, &GraphError{Path: d.path, Detail: "missing module section"}
	}
	group := mappingValue(mod, "group")
	name := mappingValue(mod, "name")
	if group == nil || name == nil || group.Value == "" || name.Value == "" {
		return artifact.ID{}, &GraphError{Path: d.path, Detail: "module section needs group and name"}
	}
	return artifact.ID{Group: group.Value, Name: name.Value}, nil
}

// VersionNode returns the scalar holding the module's own version.
func (d *Document) VersionNode() (*yaml.Node, error) {
	mod := mappingValue(d.top(), "module")
	if mod == nil {
		return nil, &GraphError{Path: d.path, Detail: "missing module section"}
	}
	v := mappingValue(mod, "version")
	if v == nil || v.Kind != yaml.ScalarNode {
		return nil, &GraphError{Path: d.path, Detail: "module section has no version"}
	}
	return v, nil
}

// PropertyNode returns the scalar value of a named entry in the "properties"
// section.
func (d *Document) PropertyNode(name string) (*yaml.Node, error) {
	props := mappingValue(d.top(), "properties")
	if props == nil {
		return nil, &GraphError{Path: d.path, Detail: "missing properties section"}
	}
	v := mappingValue(props, name)
	if v == nil || v.Kind != yaml.ScalarNode {
		return nil, &GraphError{Path: d.path, Detail: fmt.Sprintf("no property %q", name)}
	}
	return v, nil
}

// NestedModules lists the folder names under the "modules" section, in
// document order. Empty for leaf modules.
func (d *Document) NestedModules() []string {
	seq := mappingValue(d.top(), "modules")
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(seq.Content))
	for _, n := range seq.Content {
		if n.Kind == yaml.ScalarNode && n.Value != "" {
			out = append(out, n.Value)
		}
	}
	return out
}

// HasNestedModules reports whether the descriptor declares nested modules.
func (d *Document) HasNestedModules() bool { return len(d.NestedModules()) > 0 }

// ReferenceSites extracts every cross-module version reference, section by
// section in the fixed category order, preserving document order within each
// section.
func (d *Document) ReferenceSites() ([]Site, error) {
	var sites []Site
	for _, cat := range sectionOrder {
		section := mappingValue(d.top(), cat.String())
		if section == nil {
			continue
		}
		switch cat {
		case CategoryParent:
			site, err := d.referenceFrom(section, cat)
			if err != nil {
				return nil, err
			}
			sites = append(sites, site)
		default:
			if section.Kind != yaml.SequenceNode {
				return nil, &GraphError{Path: d.path, Detail: fmt.Sprintf("%s must be a sequence", cat)}
			}
			for _, entry := range section.Content {
				site, err := d.referenceFrom(entry, cat)
				if err != nil {
					return nil, err
				}
				sites = append(sites, site)
			}
		}
	}
	return sites, nil
}

// referenceFrom reads one {group, name, version} mapping into a Site.
func (d *Document) referenceFrom(entry *yaml.Node, cat Category) (Site, error) {
	group := mappingValue(entry, "group")
	name := mappingValue(entry, "name")
	version := mappingValue(entry, "version")
	if group == nil || name == nil || version == nil {
		return Site{}, &GraphError{
			Path:   d.path,
			Detail: fmt.Sprintf("%s entry needs group, name and version", cat),
		}
	}
	site := Site{
		Target:   artifact.ID{Group: group.Value, Name: name.Value},
		Category: cat,
		Node:     version,
	}
	if m := placeholderPattern.FindStringSubmatch(version.Value); m != nil {
		site.Property = m[1]
	}
	return site, nil
}

// ResolvePlaceholder returns the property node a placeholder site points to.
// Calling it on a literal site is a programming error and fails.
func (d *Document) ResolvePlaceholder(s Site) (*yaml.Node, error) {
	if s.Literal() {
		return nil, &GraphError{Path: d.path, Detail: "site is literal, nothing to resolve"}
	}
	return d.PropertyNode(s.Property)
}

// Marshal renders the document back to YAML with two-space indentation.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root.Content[0]); err != nil {
		return nil, fmt.Errorf("encode %s: %w", d.path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", d.path, err)
	}
	return buf.Bytes(), nil
}
