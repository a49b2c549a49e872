// SPDX-License-Identifier: MPL-2.0

// Package workspace reads the bumpwise.toml manifest and loads every in-scope
// module descriptor, producing the ordered module list the engine operates
// on. Folders named in the manifest are loaded first; descriptors may pull in
// further nested module folders, discovered depth-first.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"bumpwise-cli/internal/descriptor"
	"bumpwise-cli/internal/graph"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestName is the workspace manifest filename.
	ManifestName = "bumpwise.toml"
	// DescriptorName is the per-module descriptor filename.
	DescriptorName = "module.yaml"

	defaultIntentsDir = ".bumpwise"
	defaultChangelog  = "CHANGELOG.md"
)

// Manifest mirrors bumpwise.toml.
type Manifest struct {
	Workspace struct {
		// Modules lists module folders relative to the workspace root.
		Modules []string `toml:"modules"`
		// DefaultGroup enables bare-name intent keys when non-empty.
		DefaultGroup string `toml:"default_group"`
		// IntentsDir holds intent documents; default ".bumpwise".
		IntentsDir string `toml:"intents_dir"`
		// Changelog is the project changelog path; default "CHANGELOG.md".
		Changelog string `toml:"changelog"`
		// ChangelogTitle overrides the synthesized changelog title.
		ChangelogTitle string `toml:"changelog_title"`
	} `toml:"workspace"`

	Versioning struct {
		Scope          string `toml:"scope"`
		SharedProperty string `toml:"shared_property"`
		GlobalBump     string `toml:"global_bump"`
	} `toml:"versioning"`

	ChangelogFormat struct {
		Heading    string `toml:"heading"`
		MajorLabel string `toml:"major_label"`
		MinorLabel string `toml:"minor_label"`
		PatchLabel string `toml:"patch_label"`
		OtherLabel string `toml:"other_label"`
	} `toml:"changelog_format"`

	Verify struct {
		Policy          string `toml:"policy"`
		ConsistentBumps bool   `toml:"consistent_bumps"`
	} `toml:"verify"`

	Hook struct {
		Script string `toml:"script"`
	} `toml:"hook"`
}

// Workspace is a loaded manifest plus every module descriptor it names.
type Workspace struct {
	// Root is the absolute workspace root.
	Root string
	// Manifest is the parsed bumpwise.toml.
	Manifest *Manifest
	// Modules holds the loaded descriptors in discovery order.
	Modules []graph.Module
}

// LoadManifest parses bumpwise.toml under root and applies defaults.
func LoadManifest(root string) (*Manifest, error) {
	path := filepath.Join(root, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &descriptor.IOError{Op: "read", Path: path, Err: err}
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(m.Workspace.Modules) == 0 {
		return nil, fmt.Errorf("%s: workspace.modules must list at least one module folder", path)
	}
	if m.Workspace.IntentsDir == "" {
		m.Workspace.IntentsDir = defaultIntentsDir
	}
	if m.Workspace.Changelog == "" {
		m.Workspace.Changelog = defaultChangelog
	}
	return &m, nil
}

// Load reads the manifest and every module descriptor, including nested
// modules declared by the descriptors themselves.
func Load(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	m, err := LoadManifest(abs)
	if err != nil {
		return nil, err
	}

	w := &Workspace{Root: abs, Manifest: m}
	seen := make(map[string]bool)
	for _, dir := range m.Workspace.Modules {
		if err := w.loadModule(dir, seen); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// loadModule reads one folder's descriptor and recurses into nested modules.
func (w *Workspace) loadModule(dir string, seen map[string]bool) error {
	clean := filepath.Clean(dir)
	if seen[clean] {
		return nil
	}
	seen[clean] = true

	doc, err := descriptor.Read(filepath.Join(w.Root, clean, DescriptorName))
	if err != nil {
		return err
	}
	w.Modules = append(w.Modules, graph.Module{Dir: clean, Doc: doc})

	for _, nested := range doc.NestedModules() {
		if err := w.loadModule(filepath.Join(clean, nested), seen); err != nil {
			return err
		}
	}
	return nil
}

// Graph builds the artifact graph over the loaded modules.
func (w *Workspace) Graph() (*graph.Graph, error) {
	return graph.Build(w.Modules)
}

// IntentsDir returns the absolute intents directory.
func (w *Workspace) IntentsDir() string {
	return filepath.Join(w.Root, w.Manifest.Workspace.IntentsDir)
}

// ChangelogPath returns the absolute project changelog path.
func (w *Workspace) ChangelogPath() string {
	return filepath.Join(w.Root, w.Manifest.Workspace.Changelog)
}
