package brand

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestCatalog(t *testing.T) {
	seen := make(map[string]bool)
	for _, b := range List() {
		if b.Key == "" || b.Label == "" || b.Theme.ID == "" {
			t.Errorf("brand %+v missing required fields", b)
		}
		if seen[b.Theme.ID] {
			t.Errorf("duplicate theme id %q", b.Theme.ID)
		}
		seen[b.Theme.ID] = true
		if len(b.Theme.Colors) == 0 {
			t.Errorf("brand %s has no colors", b.Key)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		requested, provider, want string
		wantErr                   bool
	}{
		{"", "zai", "", false},
		{None, "zai", "", false},
		{Auto, "zai", "zai", false},
		{Auto, "custom", "", false},
		{"minimax", "zai", "minimax", false},
		{"nope", "zai", "", true},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.requested, tt.provider)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("Resolve(%q, %q) = %q, %v; want %q, err %v", tt.requested, tt.provider, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestThemeID(t *testing.T) {
	if got := ThemeID("zai"); got != "zai-carbon" {
		t.Errorf("ThemeID(zai) = %q", got)
	}
	if got := ThemeID(""); got != "" {
		t.Errorf("ThemeID(\"\") = %q", got)
	}
}

// ---------------------------------------------------------------------------
// customization config
// ---------------------------------------------------------------------------

func TestEnsureTweakccConfig_New(t *testing.T) {
	dir := t.TempDir()

	res, err := EnsureTweakccConfig(dir, "zai")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed || res.Corrupt {
		t.Errorf("first write = %+v, want changed and not corrupt", res)
	}

	cfg, err := LoadConfig(filepath.Join(dir, ConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	if ids := cfg.ThemeIDs(); len(ids) != 1 || ids[0] != "zai-carbon" {
		t.Errorf("themes = %v", ids)
	}
	ts, ok := cfg.Toolset("zai")
	if !ok || strings.Join(ts.BlockedTools, ",") != "WebSearch,WebFetch" {
		t.Errorf("toolset = %+v, %v", ts, ok)
	}
	if cfg.DefaultToolset() != "zai" || cfg.PlanModeToolset() != "zai" {
		t.Errorf("default = %q, plan = %q", cfg.DefaultToolset(), cfg.PlanModeToolset())
	}

	res, err = EnsureTweakccConfig(dir, "zai")
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Error("second run should not change")
	}
}

func TestEnsureTweakccConfig_KeepsValidDefaultAndUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFile)
	content := `{
  "ccVersion": "2.1.7",
  "settings": {
    "themes": [],
    "toolsets": [{"name": "team", "allowedTools": "*", "blockedTools": ["TodoWrite"]}],
    "defaultToolset": "team",
    "misc": {"hideStartupBanner": true}
  }
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := EnsureTweakccConfig(dir, "minimax"); err != nil {
		t.Fatal(err)
	}
	cfg, _ := LoadConfig(path)
	if cfg.DefaultToolset() != "team" {
		t.Errorf("default = %q, want team kept", cfg.DefaultToolset())
	}
	if cfg.PlanModeToolset() != "minimax" {
		t.Errorf("plan = %q, want minimax", cfg.PlanModeToolset())
	}
	data, _ := os.ReadFile(path)
	if gjson.GetBytes(data, "ccVersion").String() != "2.1.7" || !gjson.GetBytes(data, "settings.misc.hideStartupBanner").Bool() {
		t.Errorf("unknown keys lost:\n%s", data)
	}
}

func TestEnsureTweakccConfig_NoBrand(t *testing.T) {
	dir := t.TempDir()
	if _, err := EnsureTweakccConfig(dir, ""); err != nil {
		t.Fatal(err)
	}
	cfg, _ := LoadConfig(filepath.Join(dir, ConfigFile))
	if !cfg.Exists() || len(cfg.Toolsets()) != 0 || cfg.DefaultToolset() != "" {
		t.Errorf("unexpected config: toolsets=%v default=%q", cfg.Toolsets(), cfg.DefaultToolset())
	}
}

func TestEnsureTweakccConfig_CorruptReplaced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFile)
	if err := os.WriteFile(path, []byte(`{"settings": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := EnsureTweakccConfig(dir, "zai")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Corrupt || !res.Changed {
		t.Errorf("result = %+v, want corrupt and changed", res)
	}
	cfg, _ := LoadConfig(path)
	if cfg.Corrupt() {
		t.Error("config still corrupt after ensure")
	}
	if _, ok := cfg.Toolset("zai"); !ok {
		t.Error("brand toolset missing after replacing corrupt config")
	}

	res, err = EnsureTweakccConfig(dir, "zai")
	if err != nil {
		t.Fatal(err)
	}
	if res.Corrupt {
		t.Error("second run should not report corrupt")
	}
}

func TestLoadConfig_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	if err := os.WriteFile(path, []byte(`{nope`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Corrupt() || !cfg.Changed() {
		t.Error("corrupt config should report Corrupt and Changed")
	}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !gjson.ValidBytes(data) {
		t.Errorf("saved config invalid:\n%s", data)
	}
}

func TestConfig_ToolsetEdits(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.UpsertToolset(Toolset{Name: "a", BlockedTools: []string{"X"}}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UpsertToolset(Toolset{Name: "b"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UpsertToolset(Toolset{Name: "a", BlockedTools: []string{"Y"}}); err != nil {
		t.Fatal(err)
	}

	ts := cfg.Toolsets()
	if len(ts) != 2 || ts[0].Name != "a" || ts[0].BlockedTools[0] != "Y" {
		t.Errorf("toolsets = %+v", ts)
	}
	if ts[1].AllowedTools != "*" {
		t.Errorf("AllowedTools = %v, want *", ts[1].AllowedTools)
	}

	removed, err := cfg.RemoveToolset("a")
	if err != nil || !removed {
		t.Fatalf("RemoveToolset = %v, %v", removed, err)
	}
	removed, _ = cfg.RemoveToolset("a")
	if removed {
		t.Error("second removal should report false")
	}

	if err := cfg.SetDefaultToolset("b"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetDefaultToolset(""); err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultToolset() != "" {
		t.Errorf("default = %q, want deleted", cfg.DefaultToolset())
	}
}
