// SPDX-License-Identifier: MPL-2.0

package artifact

import "testing"

func TestParse_Qualified(t *testing.T) {
	t.Parallel()
	id, err := Parse("acme.platform:core", "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.Group != "acme.platform" || id.Name != "core" {
		t.Errorf("Parse = %+v", id)
	}
	if id.String() != "acme.platform:core" {
		t.Errorf("String = %q", id.String())
	}
}

func TestParse_BareName(t *testing.T) {
	t.Parallel()
	id, err := Parse("core", "acme.platform")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id != (ID{Group: "acme.platform", Name: "core"}) {
		t.Errorf("Parse = %+v", id)
	}
	if _, err := Parse("core", ""); err == nil {
		t.Error("bare name without implied group must fail")
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"", ":", "a:", ":b", "a:b:c"} {
		if _, err := Parse(s, "g"); err == nil {
			t.Errorf("Parse(%q): expected error", s)
		}
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()
	a := ID{Group: "acme", Name: "api"}
	b := ID{Group: "acme", Name: "core"}
	c := ID{Group: "beta", Name: "api"}
	if a.Compare(b) != -1 || b.Compare(a) != 1 {
		t.Error("name order broken")
	}
	if b.Compare(c) != -1 {
		t.Error("group must dominate name in ordering")
	}
	if a.Compare(a) != 0 {
		t.Error("self comparison must be 0")
	}
}
