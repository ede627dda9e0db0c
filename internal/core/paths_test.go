package core

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateVariantName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"glm", false},
		{"my-variant_2.0", false},
		{"A1", false},
		{"", true},
		{"../x", true},
		{"a..b", true},
		{".hidden", true},
		{"-flag", true},
		{"has space", true},
		{"semi;colon", true},
		{strings.Repeat("a", 65), true},
	}
	for _, tt := range tests {
		err := ValidateVariantName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVariantName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestResolvePaths(t *testing.T) {
	p := ResolvePaths("/root/.cc-mirror", "/usr/local/bin", "glm")
	if p.VariantDir != filepath.Join("/root/.cc-mirror", "glm") {
		t.Errorf("VariantDir = %q", p.VariantDir)
	}
	for _, dir := range []string{p.ConfigDir, p.TweakDir, p.NpmDir} {
		if filepath.Dir(dir) != p.VariantDir {
			t.Errorf("%q is not inside the variant dir", dir)
		}
	}
	if filepath.Dir(p.WrapperPath) != "/usr/local/bin" {
		t.Errorf("WrapperPath = %q", p.WrapperPath)
	}
}

func TestResolvePaths_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p := ResolvePaths("~/.cc-mirror", "~/bin", "x")
	if p.Root != filepath.Join(home, ".cc-mirror") || p.BinDir != filepath.Join(home, "bin") {
		t.Errorf("paths = %+v", p)
	}
}

func TestEntryPointPath(t *testing.T) {
	got := EntryPointPath("/npm", "@anthropic-ai/claude-code")
	want := filepath.Join("/npm", "node_modules", "@anthropic-ai", "claude-code", "cli.js")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
