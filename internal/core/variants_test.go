package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// seedVariant writes a manifest, binary and launcher for name under root.
func seedVariant(t *testing.T, root, binDir, name string) *VariantMeta {
	t.Helper()
	paths := ResolvePaths(root, binDir, name)
	binary := EntryPointPath(paths.NpmDir, "@anthropic-ai/claude-code")
	if err := os.MkdirAll(filepath.Dir(binary), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(binary, []byte("// cli"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.WrapperPath, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	meta := &VariantMeta{
		Name:       name,
		Provider:   "zai",
		CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ClaudeOrig: "npm:@anthropic-ai/claude-code@2.1.7",
		BinaryPath: binary,
		ConfigDir:  paths.ConfigDir,
		TweakDir:   paths.TweakDir,
		NpmDir:     paths.NpmDir,
		PromptPack: BoolPtr(true),
	}
	if err := WriteVariantMeta(paths.VariantDir, meta); err != nil {
		t.Fatal(err)
	}
	return meta
}

func TestVariantMeta_RoundTrip(t *testing.T) {
	root := t.TempDir()
	want := seedVariant(t, root, filepath.Join(root, "bin"), "glm")

	got, err := LoadVariantMeta(filepath.Join(root, "glm"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != want.Name || got.BinaryPath != want.BinaryPath || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("got %+v", got)
	}
	if got.UpdatedAt != nil {
		t.Error("UpdatedAt should be absent")
	}
	if !BoolValue(got.PromptPack, false) || got.SkillInstall != nil {
		t.Errorf("preferences = %v %v", got.PromptPack, got.SkillInstall)
	}

	data, _ := os.ReadFile(ManifestPath(filepath.Join(root, "glm")))
	for _, key := range []string{`"createdAt"`, `"claudeOrig"`, `"teamModeEnabled": false`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("manifest missing %s:\n%s", key, data)
		}
	}
}

func TestLoadVariantMeta_NotFound(t *testing.T) {
	_, err := LoadVariantMeta(filepath.Join(t.TempDir(), "ghost"))
	if !errors.Is(err, ErrVariantNotFound) {
		t.Errorf("error = %v, want ErrVariantNotFound", err)
	}
}

func TestListVariants(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(t.TempDir(), "bin")
	seedVariant(t, root, binDir, "zeta")
	seedVariant(t, root, binDir, "alpha")
	if err := os.MkdirAll(filepath.Join(root, "orphan"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := ListVariants(root)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if strings.Join(names, ",") != "alpha,orphan,zeta" {
		t.Errorf("names = %v", names)
	}
	if entries[1].Meta != nil {
		t.Error("orphan should have no manifest")
	}
	if entries[0].Meta == nil || entries[0].Meta.Provider != "zai" {
		t.Errorf("alpha meta = %+v", entries[0].Meta)
	}
}

func TestListVariants_MissingRoot(t *testing.T) {
	entries, err := ListVariants(filepath.Join(t.TempDir(), "nope"))
	if err != nil || entries != nil {
		t.Errorf("entries = %v, err = %v", entries, err)
	}
}

func TestRemoveVariant(t *testing.T) {
	root := t.TempDir()
	seedVariant(t, root, filepath.Join(t.TempDir(), "bin"), "glm")

	if err := RemoveVariant(root, "glm"); err != nil {
		t.Fatal(err)
	}
	if dirExists(filepath.Join(root, "glm")) {
		t.Error("variant directory still exists")
	}
	if err := RemoveVariant(root, "glm"); !errors.Is(err, ErrVariantNotFound) {
		t.Errorf("second remove error = %v, want ErrVariantNotFound", err)
	}
	var verr *ValidationError
	if err := RemoveVariant(root, "../etc"); !errors.As(err, &verr) {
		t.Errorf("traversal error = %v, want *ValidationError", err)
	}
}

func TestDoctor(t *testing.T) {
	root := t.TempDir()
	binDir := filepath.Join(t.TempDir(), "bin")
	seedVariant(t, root, binDir, "healthy")
	broken := seedVariant(t, root, binDir, "broken")
	if err := os.Remove(broken.BinaryPath); err != nil {
		t.Fatal(err)
	}
	seedVariant(t, root, binDir, "nolauncher")
	if err := os.Remove(WrapperPath(binDir, "nolauncher")); err != nil {
		t.Fatal(err)
	}

	report, err := Doctor(root, binDir)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]bool)
	for _, item := range report {
		got[item.Name] = item.OK
	}
	want := map[string]bool{"broken": false, "healthy": true, "nolauncher": false}
	for name, ok := range want {
		if got[name] != ok {
			t.Errorf("%s OK = %v, want %v", name, got[name], ok)
		}
	}
}

func TestTweakVariant(t *testing.T) {
	root := t.TempDir()
	meta := seedVariant(t, root, filepath.Join(t.TempDir(), "bin"), "glm")
	marker := filepath.Join(t.TempDir(), "ui")
	script := writeScript(t, t.TempDir(), "tweakcc",
		`echo "$TWEAKCC_CC_INSTALLATION_PATH" > "`+marker+`"`+"\n")

	if err := TweakVariant(context.Background(), root, "glm", TweakRunner{Command: []string{script}}); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(marker)
	if strings.TrimSpace(string(data)) != meta.BinaryPath {
		t.Errorf("installation path = %q", data)
	}
	if !fileExists(TweakConfigPath(meta.TweakDir)) {
		t.Error("customization config not created")
	}
}

func TestTweakVariant_NotFound(t *testing.T) {
	err := TweakVariant(context.Background(), t.TempDir(), "ghost", TweakRunner{Command: []string{"true"}})
	if !errors.Is(err, ErrVariantNotFound) {
		t.Errorf("error = %v", err)
	}
}
