// SPDX-License-Identifier: MPL-2.0

package apply

import (
	"errors"
	"strings"
	"testing"

	"bumpwise-cli/internal/descriptor"
	"bumpwise-cli/internal/graph"
	"bumpwise-cli/internal/resolve"
	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"
)

func id(name string) artifact.ID { return artifact.ID{Group: "acme", Name: name} }

func parse(t *testing.T, dir, src string) graph.Module {
	t.Helper()
	doc, err := descriptor.Parse(dir+"/module.yaml", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return graph.Module{Dir: dir, Doc: doc}
}

func TestApply_RewritesOwnVersionAndLiteralSites(t *testing.T) {
	t.Parallel()
	core := parse(t, "core", `module:
  group: acme
  name: core
  version: 1.2.3
`)
	// Two literal references to core 1.2.3, one placeholder.
	app := parse(t, "app", `module:
  group: acme
  name: app
  version: 0.5.0
properties:
  core.version: 1.2.3
dependencies:
  - group: acme
    name: core
    version: 1.2.3
dependency_management:
  - group: acme
    name: core
    version: 1.2.3
plugins:
  - group: acme
    name: core
    version: ${core.version}
`)
	g, err := graph.Build([]graph.Module{core, app})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	res := resolve.Result{
		id("core"): {Kind: semver.Patch, Direct: true},
		id("app"):  {Kind: semver.None},
	}
	result, err := Apply(g, res, Options{Scope: ScopeEveryModule}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(result.Changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", result.Changes)
	}
	c := result.Changes[0]
	if c.Old.String() != "1.2.3" || c.New.String() != "1.2.4" || c.RewrittenSites != 2 {
		t.Errorf("change = %+v", c)
	}
	// Both descriptors were touched: core's own version, app's references.
	if len(result.Dirty) != 2 {
		t.Errorf("dirty set has %d modules, want 2", len(result.Dirty))
	}

	out, err := app.Doc.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)
	if strings.Count(text, "1.2.4") != 2 {
		t.Errorf("expected both literal sites rewritten:\n%s", text)
	}
	if !strings.Contains(text, "${core.version}") {
		t.Errorf("placeholder must stay untouched:\n%s", text)
	}
	// The placeholder's property belongs to app, not core, so it stays at
	// the old version until app's own update path owns it.
	if !strings.Contains(text, "core.version: 1.2.3") {
		t.Errorf("property rewritten by the wrong module:\n%s", text)
	}
}

func TestApply_SharedPropertyScope(t *testing.T) {
	t.Parallel()
	root := parse(t, ".", `module:
  group: acme
  name: root
  version: 1.0.0
properties:
  revision: 3.1.4
modules:
  - core
`)
	g, err := graph.Build([]graph.Module{root})
	if err != nil {
		t.Fatal(err)
	}

	res := resolve.Result{id("root"): {Kind: semver.Minor, Direct: true}}
	result, err := Apply(g, res, Options{Scope: ScopeSharedProperty, SharedProperty: "revision"}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Changes[0].New.String() != "3.2.0" {
		t.Errorf("shared property bump = %+v", result.Changes[0])
	}

	out, _ := root.Doc.Marshal()
	if !strings.Contains(string(out), "revision: 3.2.0") {
		t.Errorf("property not rewritten:\n%s", out)
	}
	if !strings.Contains(string(out), "version: 1.0.0") {
		t.Errorf("module version must stay untouched under shared property scope:\n%s", out)
	}
}

func TestApply_SharedPropertyMissingIsGraphError(t *testing.T) {
	t.Parallel()
	root := parse(t, ".", "module:\n  group: acme\n  name: root\n  version: 1.0.0\n")
	g, err := graph.Build([]graph.Module{root})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Apply(g, resolve.Result{id("root"): {Kind: semver.Patch, Direct: true}},
		Options{Scope: ScopeSharedProperty, SharedProperty: "revision"}, nil)
	var ge *descriptor.GraphError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GraphError, got %T: %v", err, err)
	}
}

func TestApply_LeafScopeSkipsAggregators(t *testing.T) {
	t.Parallel()
	root := parse(t, ".", `module:
  group: acme
  name: root
  version: 1.0.0
modules:
  - core
`)
	core := parse(t, "core", "module:\n  group: acme\n  name: core\n  version: 2.0.0\n")
	g, err := graph.Build([]graph.Module{root, core})
	if err != nil {
		t.Fatal(err)
	}

	res := resolve.Result{
		id("root"): {Kind: semver.Patch, Direct: true},
		id("core"): {Kind: semver.Patch, Direct: true},
	}
	result, err := Apply(g, res, Options{Scope: ScopeLeafModules}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(result.Changes) != 1 || result.Changes[0].ID != id("core") {
		t.Errorf("expected only the leaf module to change: %+v", result.Changes)
	}
}

func TestApply_GlobalBumpForcesIntentlessModules(t *testing.T) {
	t.Parallel()
	a := parse(t, "a", "module:\n  group: acme\n  name: a\n  version: 1.0.0\n")
	g, err := graph.Build([]graph.Module{a})
	if err != nil {
		t.Fatal(err)
	}

	res := resolve.Result{id("a"): {Kind: semver.None}}
	result, err := Apply(g, res, Options{Scope: ScopeEveryModule, GlobalBump: semver.Minor}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(result.Changes) != 1 || result.Changes[0].New.String() != "1.1.0" {
		t.Errorf("global bump not applied: %+v", result.Changes)
	}
}

func TestApply_SuffixSurvivesBump(t *testing.T) {
	t.Parallel()
	a := parse(t, "a", "module:\n  group: acme\n  name: a\n  version: 1.0.0-SNAPSHOT\n")
	g, err := graph.Build([]graph.Module{a})
	if err != nil {
		t.Fatal(err)
	}
	result, err := Apply(g, resolve.Result{id("a"): {Kind: semver.Major, Direct: true}},
		Options{Scope: ScopeEveryModule}, nil)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if result.Changes[0].New.String() != "2.0.0-SNAPSHOT" {
		t.Errorf("suffix lost: %+v", result.Changes[0])
	}
}

func TestParseScope(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Scope{
		"":                ScopeEveryModule,
		"every_module":    ScopeEveryModule,
		"shared_property": ScopeSharedProperty,
		"leaf_modules":    ScopeLeafModules,
	} {
		got, err := ParseScope(in)
		if err != nil || got != want {
			t.Errorf("ParseScope(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseScope("all"); err == nil {
		t.Error("unknown scope must fail")
	}
}
