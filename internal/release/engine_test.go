// SPDX-License-Identifier: MPL-2.0

package release

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bumpwise-cli/internal/intent"
	"bumpwise-cli/internal/verify"
	"bumpwise-cli/internal/workspace"
	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"
)

var testDay = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// scaffold builds a two-module workspace where app depends on core, with one
// intent bumping core by a minor.
func scaffold(t *testing.T) *workspace.Workspace {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, workspace.ManifestName, `[workspace]
modules = ["core", "app"]
default_group = "acme"
`)
	writeFile(t, root, "core/module.yaml", `module:
  group: acme
  name: core
  version: 1.2.3
`)
	writeFile(t, root, "app/module.yaml", `module:
  group: acme
  name: app
  version: 0.9.0
dependencies:
  - group: acme
    name: core
    version: 1.2.3
`)
	writeFile(t, root, ".bumpwise/0001-core.md", `---
core: minor
---

### Added
- Streaming resolver.
`)
	w, err := workspace.Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return w
}

func TestUpdate_EndToEnd(t *testing.T) {
	t.Parallel()
	w := scaffold(t)

	out, err := Update(context.Background(), w, Options{Now: testDay})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(out.Changes) != 2 {
		t.Fatalf("expected core and app to change, got %+v", out.Changes)
	}
	// Dependencies first: core (direct minor) before app (propagated patch).
	if out.Changes[0].ID.Name != "core" || out.Changes[0].New.String() != "1.3.0" {
		t.Errorf("core change = %+v", out.Changes[0])
	}
	if out.Changes[1].ID.Name != "app" || out.Changes[1].New.String() != "0.9.1" || out.Changes[1].Direct {
		t.Errorf("app change = %+v", out.Changes[1])
	}

	// Descriptors rewritten on disk, including app's reference to core.
	coreDoc, err := os.ReadFile(filepath.Join(w.Root, "core/module.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(coreDoc), "version: 1.3.0") {
		t.Errorf("core descriptor not updated:\n%s", coreDoc)
	}
	appDoc, err := os.ReadFile(filepath.Join(w.Root, "app/module.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(appDoc), "version: 0.9.1") || !strings.Contains(string(appDoc), "version: 1.3.0") {
		t.Errorf("app descriptor not updated:\n%s", appDoc)
	}

	// Changelog written with both sections, author text for core and the
	// canned message for app.
	clog, err := os.ReadFile(w.ChangelogPath())
	if err != nil {
		t.Fatal(err)
	}
	text := string(clog)
	if !strings.HasPrefix(text, "# Changelog\n") {
		t.Errorf("changelog title missing:\n%s", text)
	}
	if !strings.Contains(text, "## 1.3.0 - 2026-08-31") || !strings.Contains(text, "- Streaming resolver.") {
		t.Errorf("core section missing:\n%s", text)
	}
	if !strings.Contains(text, "## 0.9.1 - 2026-08-31") || !strings.Contains(text, "- Dependency versions updated.") {
		t.Errorf("app section missing or without canned message:\n%s", text)
	}

	// Consumed intents are deleted.
	if _, err := os.Stat(filepath.Join(w.Root, ".bumpwise/0001-core.md")); !os.IsNotExist(err) {
		t.Error("consumed intent file still present")
	}
}

func TestUpdate_DryRunWritesNothing(t *testing.T) {
	t.Parallel()
	w := scaffold(t)

	out, err := Update(context.Background(), w, Options{DryRun: true, Now: testDay})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(out.Changes) != 2 || out.Changelog == "" {
		t.Errorf("dry run must compute the full outcome: %+v", out)
	}

	coreDoc, err := os.ReadFile(filepath.Join(w.Root, "core/module.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(coreDoc), "version: 1.2.3") {
		t.Errorf("dry run touched a descriptor:\n%s", coreDoc)
	}
	if _, err := os.Stat(w.ChangelogPath()); !os.IsNotExist(err) {
		t.Error("dry run wrote the changelog")
	}
	if _, err := os.Stat(filepath.Join(w.Root, ".bumpwise/0001-core.md")); err != nil {
		t.Error("dry run consumed an intent file")
	}
}

func TestUpdate_BackupKeepsOriginals(t *testing.T) {
	t.Parallel()
	w := scaffold(t)
	if _, err := Update(context.Background(), w, Options{Backup: true, Now: testDay}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	backup, err := os.ReadFile(filepath.Join(w.Root, "core/module.yaml.bumpwise-backup"))
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !strings.Contains(string(backup), "version: 1.2.3") {
		t.Errorf("backup does not hold the original:\n%s", backup)
	}
}

func TestUpdate_NoIntentsIsANoOp(t *testing.T) {
	t.Parallel()
	w := scaffold(t)
	if err := os.RemoveAll(w.IntentsDir()); err != nil {
		t.Fatal(err)
	}
	out, err := Update(context.Background(), w, Options{Now: testDay})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(out.Changes) != 0 {
		t.Errorf("no intents but changes reported: %+v", out.Changes)
	}
}

func TestUpdate_UnknownArtifactAborts(t *testing.T) {
	t.Parallel()
	w := scaffold(t)
	writeFile(t, w.Root, ".bumpwise/0002-ghost.md", "---\nghost: patch\n---\n")

	_, err := Update(context.Background(), w, Options{Now: testDay})
	if err == nil {
		t.Fatal("expected out-of-scope failure")
	}
	if !strings.Contains(err.Error(), "acme:ghost") {
		t.Errorf("error must name the artifact: %v", err)
	}
	// Nothing was written.
	coreDoc, _ := os.ReadFile(filepath.Join(w.Root, "core/module.yaml"))
	if !strings.Contains(string(coreDoc), "version: 1.2.3") {
		t.Error("failed run still mutated a descriptor")
	}
}

func TestUpdate_RunsHookPerChangedModule(t *testing.T) {
	t.Parallel()
	w := scaffold(t)
	record := filepath.Join(w.Root, "hook.log")
	writeFile(t, w.Root, "scripts/release-hook.sh",
		`echo "$BUMPWISE_MODULE $BUMPWISE_OLD_VERSION $BUMPWISE_NEW_VERSION" >> `+record+"\n")
	w.Manifest.Hook.Script = "scripts/release-hook.sh"

	if _, err := Update(context.Background(), w, Options{Now: testDay}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	data, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("hook did not run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one hook run per module, got %q", lines)
	}
	if lines[0] != "acme:core 1.2.3 1.3.0" || lines[1] != "acme:app 0.9.0 0.9.1" {
		t.Errorf("hook environment wrong: %q", lines)
	}
}

func TestVerify_UsesManifestDefaultsAndOverrides(t *testing.T) {
	t.Parallel()
	w := scaffold(t)

	// Manifest default is policy none: passes even though app lacks an
	// intent.
	if err := Verify(w, VerifyOptions{}); err != nil {
		t.Errorf("default verify failed: %v", err)
	}

	all := verify.PolicyAll
	err := Verify(w, VerifyOptions{Policy: &all})
	if err == nil || !strings.Contains(err.Error(), "acme:app") {
		t.Errorf("policy all must fail naming app: %v", err)
	}
}

func TestCreateIntent(t *testing.T) {
	t.Parallel()
	w := scaffold(t)

	path, err := CreateIntent(w, []intent.Declaration{
		{ID: artifact.ID{Group: "acme", Name: "app"}, Kind: semver.Patch},
	}, "### Fixed\n- Startup race.\n", "0005-app")
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := intent.Parse(path, src, "acme")
	if err != nil {
		t.Fatalf("created file does not parse: %v", err)
	}
	if kind, ok := doc.Kind(artifact.ID{Group: "acme", Name: "app"}); !ok || kind != semver.Patch {
		t.Errorf("created declarations = %+v", doc.Declarations)
	}

	// Unknown artifacts and empty declaration sets are rejected.
	if _, err := CreateIntent(w, []intent.Declaration{
		{ID: artifact.ID{Group: "acme", Name: "ghost"}, Kind: semver.Patch},
	}, "", ""); err == nil {
		t.Error("unknown artifact accepted")
	}
	if _, err := CreateIntent(w, nil, "", ""); err == nil {
		t.Error("empty declaration set accepted")
	}
}
