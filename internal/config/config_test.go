// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Empty dir: no config file means defaults, no error.
	dir := t.TempDir()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Backup {
		t.Error("Backup should default to false")
	}
	if cfg.Stash {
		t.Error("Stash should default to false")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want %q", cfg.UI.ColorScheme, ColorSchemeAuto)
	}
	if cfg.UI.Verbose {
		t.Error("Verbose should default to false")
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `backup: true

ui: {
	color_scheme: "dark"
	verbose: true
}
`
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if !cfg.Backup {
		t.Error("Backup should be true")
	}
	if cfg.Stash {
		t.Error("Stash should remain false (not set in file)")
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("ColorScheme = %q, want dark", cfg.UI.ColorScheme)
	}
	if !cfg.UI.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestLoad_ExplicitFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.cue")
	if err := os.WriteFile(path, []byte(`stash: true`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if !cfg.Stash {
		t.Error("Stash should be true")
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("Load() should fail for a missing explicit config file")
	}
	if !strings.Contains(err.Error(), "load configuration") {
		t.Errorf("error = %v, want mention of load configuration", err)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	content := `ui: color_scheme: "sepia"` + "\n"
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("Load() should reject a color scheme outside the schema enum")
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if err == nil {
		t.Fatal("Load() should fail with a canceled context")
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Config{
		Backup: true,
		Stash:  false,
		UI: UIConfig{
			ColorScheme: ColorSchemeLight,
			Verbose:     true,
		},
	}

	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(GenerateCUE(want)), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if got.Backup != want.Backup || got.Stash != want.Stash ||
		got.UI.ColorScheme != want.UI.ColorScheme || got.UI.Verbose != want.UI.Verbose {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestConfigDir_Override(t *testing.T) {
	t.Cleanup(Reset)

	dir := t.TempDir()
	SetConfigDirOverride(dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want override %q", got, dir)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Cleanup(Reset)

	dir := t.TempDir()
	SetConfigDirOverride(dir)

	want := &Config{
		Backup: true,
		UI: UIConfig{
			ColorScheme: ColorSchemeDark,
			Verbose:     true,
		},
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if got.Backup != want.Backup || got.UI.ColorScheme != want.UI.ColorScheme ||
		got.UI.Verbose != want.UI.Verbose {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestSave_RejectsInvalidConfig(t *testing.T) {
	t.Cleanup(Reset)
	SetConfigDirOverride(t.TempDir())

	bad := &Config{UI: UIConfig{ColorScheme: "sepia"}}
	err := Save(bad)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Save() error = %v, want ErrInvalidConfig", err)
	}
}
