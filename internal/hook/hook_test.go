// SPDX-License-Identifier: MPL-2.0

package hook

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bumpwise-cli/internal/apply"
	"bumpwise-cli/pkg/artifact"
	"bumpwise-cli/pkg/semver"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hook.sh")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func change() apply.Change {
	return apply.Change{
		ID:   artifact.ID{Group: "acme", Name: "core"},
		Old:  semver.MustParse("1.2.3"),
		New:  semver.MustParse("1.2.4"),
		Kind: semver.Patch,
	}
}

func TestRun_ExportsEnvironment(t *testing.T) {
	t.Parallel()
	r, err := Load(writeScript(t, `echo "$BUMPWISE_MODULE $BUMPWISE_OLD_VERSION -> $BUMPWISE_NEW_VERSION dry=$BUMPWISE_DRY_RUN"`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	r.DryRun = true
	var out bytes.Buffer
	r.Stdout = &out

	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if err := r.Run(context.Background(), t.TempDir(), change(), now); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "acme:core 1.2.3 -> 1.2.4 dry=true\n"
	if out.String() != want {
		t.Errorf("hook output = %q, want %q", out.String(), want)
	}
}

func TestLoad_SyntaxErrorSurfacesEarly(t *testing.T) {
	t.Parallel()
	if _, err := Load(writeScript(t, "if then fi broken(")); err == nil {
		t.Error("syntax error must fail at load time")
	}
}

func TestRun_FailureNamesModule(t *testing.T) {
	t.Parallel()
	r, err := Load(writeScript(t, "exit 3"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	err = r.Run(context.Background(), t.TempDir(), change(), time.Now())
	if err == nil {
		t.Fatal("expected failure")
	}
	if got := err.Error(); !bytes.Contains([]byte(got), []byte("acme:core")) {
		t.Errorf("error must name the module: %s", got)
	}
}

func TestLoad_MissingScript(t *testing.T) {
	t.Parallel()
	if _, err := Load(filepath.Join(t.TempDir(), "absent.sh")); err == nil {
		t.Error("missing script must fail")
	}
}
