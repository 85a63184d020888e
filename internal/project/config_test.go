package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "rill.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Package.Name != "demo" {
		t.Fatalf("name = %q", cfg.Package.Name)
	}
	if cfg.Validator.MaxDiagnostics != DefaultMaxDiagnostics {
		t.Fatalf("max-diagnostics = %d", cfg.Validator.MaxDiagnostics)
	}
	if !cfg.Validator.Cache || cfg.Validator.CacheDir != ".rill-cache" {
		t.Fatalf("cache defaults wrong: %+v", cfg.Validator)
	}
	if cfg.Validator.Jobs != 0 {
		t.Fatalf("jobs = %d", cfg.Validator.Jobs)
	}
}

func TestLoadConfigValidatorSection(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"

[validator]
max-diagnostics = 32
disabled = ["call-arity", "tail-result"]
jobs = 4
cache = false
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	v := cfg.Validator
	if v.MaxDiagnostics != 32 || v.Jobs != 4 || v.Cache {
		t.Fatalf("unexpected validator config: %+v", v)
	}
	if v.Enabled(CheckCallArity) || v.Enabled(CheckTailResult) {
		t.Fatal("disabled checks still enabled")
	}
	if !v.Enabled(CheckMatchArms) || !v.Enabled(CheckRecordFields) {
		t.Fatal("untouched checks disabled")
	}
}

func TestLoadConfigRejectsUnknownCheck(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[package]
name = "demo"

[validator]
disabled = ["spell-check"]
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown check name")
	}
}

func TestLoadConfigRequiresPackageName(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[validator]
jobs = 2
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for missing [package]")
	}
}

func TestFindRillTomlWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := FindRillToml(nested)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %q, want manifest in %q", path, root)
	}

	rootDir, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || rootDir != root {
		t.Fatalf("root=%q ok=%v err=%v", rootDir, ok, err)
	}
}

func TestCombineOrderSensitive(t *testing.T) {
	a := HashBytes([]byte("a"))
	b := HashBytes([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatal("combine must be order sensitive")
	}
	if Combine(a) == a {
		t.Fatal("combine must rehash even a single digest")
	}
}
