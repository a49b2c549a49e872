// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bumpwise-cli/internal/issue"
)

func writeWorkspaceFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunVerify_PolicyFailureCarriesExitCode(t *testing.T) {
	root := t.TempDir()
	writeWorkspaceFile(t, root, "bumpwise.toml", `[workspace]
modules = ["core", "app"]
default_group = "acme"

[verify]
policy = "all"
`)
	writeWorkspaceFile(t, root, "core/module.yaml", `module:
  group: acme
  name: core
  version: 1.0.0
`)
	writeWorkspaceFile(t, root, "app/module.yaml", `module:
  group: acme
  name: app
  version: 1.0.0
`)
	writeWorkspaceFile(t, root, ".bumpwise/0001-core.md", `---
core: minor
---

- Something changed.
`)

	oldDir := workspaceDir
	workspaceDir = root
	t.Cleanup(func() { workspaceDir = oldDir })

	err := runVerify(verifyCmd)
	if err == nil {
		t.Fatal("runVerify should fail: app has no intent under the all policy")
	}

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error should be an ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != exitCodeVerifyFailed {
		t.Errorf("Code = %d, want %d", exitErr.Code, exitCodeVerifyFailed)
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("ExitError should wrap a ServiceError, got: %v", err)
	}
	if svcErr.IssueID != issue.VerificationFailedId {
		t.Errorf("IssueID = %d, want VerificationFailedId", svcErr.IssueID)
	}
}
