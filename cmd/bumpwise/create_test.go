// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"bumpwise-cli/pkg/semver"
)

func TestParseDeclarations(t *testing.T) {
	t.Parallel()

	decls, err := parseDeclarations([]string{"core=minor", "com.other:lib=major"}, "com.example")
	if err != nil {
		t.Fatalf("parseDeclarations() returned error: %v", err)
	}
	if len(decls) != 2 {
		t.Fatalf("got %d declarations, want 2", len(decls))
	}

	if decls[0].ID.Group != "com.example" || decls[0].ID.Name != "core" {
		t.Errorf("bare name should resolve against the implied group, got %v", decls[0].ID)
	}
	if decls[0].Kind != semver.Minor {
		t.Errorf("Kind = %v, want Minor", decls[0].Kind)
	}

	if decls[1].ID.Group != "com.other" || decls[1].ID.Name != "lib" {
		t.Errorf("qualified name should keep its group, got %v", decls[1].ID)
	}
	if decls[1].Kind != semver.Major {
		t.Errorf("Kind = %v, want Major", decls[1].Kind)
	}
}

func TestParseDeclarations_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec string
	}{
		{name: "missing separator", spec: "core"},
		{name: "unknown kind", spec: "core=huge"},
		{name: "empty name", spec: "=minor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := parseDeclarations([]string{tt.spec}, "com.example"); err == nil {
				t.Errorf("parseDeclarations(%q) should fail", tt.spec)
			}
		})
	}
}
