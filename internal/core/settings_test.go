package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeSettings(t *testing.T, configDir, content string) {
	t.Helper()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(SettingsPath(configDir), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readSettings(t *testing.T, configDir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(SettingsPath(configDir))
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("settings.json is not valid JSON: %v\n%s", err, data)
	}
	return out
}

func stringSlice(v any) []string {
	arr, _ := v.([]any)
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func containsAll(have []string, want ...string) bool {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[h] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// env defaults and overrides
// ---------------------------------------------------------------------------

func TestEnsureSettingsEnvDefaults_CreatesFile(t *testing.T) {
	dir := t.TempDir()

	res, err := EnsureSettingsEnvDefaults(dir, map[string]string{"A": "1", "B": "2"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed || res.Corrupt {
		t.Errorf("result = %+v, want changed and not corrupt", res)
	}

	env, err := ReadSettingsEnv(dir)
	if err != nil {
		t.Fatal(err)
	}
	if env["A"] != "1" || env["B"] != "2" {
		t.Errorf("env = %v", env)
	}
}

func TestEnsureSettingsEnvDefaults_KeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `{
  // user comment
  "env": {"A": "user", "KEEP": "me",},
  "model": "opus",
}`)

	res, err := EnsureSettingsEnvDefaults(dir, map[string]string{"A": "default", "C": "3"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed {
		t.Error("expected change for new key C")
	}

	doc := readSettings(t, dir)
	env := doc["env"].(map[string]any)
	if env["A"] != "user" {
		t.Errorf("A = %v, want user value kept", env["A"])
	}
	if env["C"] != "3" || env["KEEP"] != "me" {
		t.Errorf("env = %v", env)
	}
	if doc["model"] != "opus" {
		t.Errorf("unrelated key lost: %v", doc)
	}
}

func TestEnsureSettingsEnvDefaults_NoChangeNoWrite(t *testing.T) {
	dir := t.TempDir()
	original := `{"env":   {"A":"1"}}`
	writeSettings(t, dir, original)

	res, err := EnsureSettingsEnvDefaults(dir, map[string]string{"A": "2"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Error("expected no change")
	}
	data, _ := os.ReadFile(SettingsPath(dir))
	if string(data) != original {
		t.Errorf("file rewritten:\n%s", data)
	}
}

func TestEnsureSettingsEnvDefaults_CommentedInputWritesPlainJSON(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "{\n  // keep me\n  \"env\": {\"A\": \"1\"}\n}")

	if _, err := EnsureSettingsEnvDefaults(dir, map[string]string{"B": "2"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(SettingsPath(dir))
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n\t\"env\": {\"A\": \"1\", \"B\": \"2\"}\n}\n"
	if string(data) != want {
		t.Errorf("settings.json = %q, want %q", data, want)
	}
}

func TestEnsureSettingsEnvOverrides_Replaces(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `{"env":{"A":"old","B":"same"}}`)

	res, err := EnsureSettingsEnvOverrides(dir, map[string]string{"A": "new", "B": "same", "D": ""})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed {
		t.Error("expected change")
	}
	env, _ := ReadSettingsEnv(dir)
	if env["A"] != "new" || env["B"] != "same" {
		t.Errorf("env = %v", env)
	}
	if v, ok := env["D"]; !ok || v != "" {
		t.Errorf("D = %q (present %v), want empty string", v, ok)
	}

	res, err = EnsureSettingsEnvOverrides(dir, map[string]string{"A": "new"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Error("second identical override should not change")
	}
}

func TestEnsureSettingsEnv_KeyNeedingEscape(t *testing.T) {
	dir := t.TempDir()
	if _, err := EnsureSettingsEnvOverrides(dir, map[string]string{"a/b~c": "v"}); err != nil {
		t.Fatal(err)
	}
	env, _ := ReadSettingsEnv(dir)
	if env["a/b~c"] != "v" {
		t.Errorf("env = %v", env)
	}
}

func TestEnsureSettingsEnv_CorruptReset(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"env": {`},
		{"array root", `["a"]`},
		{"string root", `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSettings(t, dir, tt.content)

			res, err := EnsureSettingsEnvDefaults(dir, map[string]string{"A": "1"})
			if err != nil {
				t.Fatal(err)
			}
			if !res.Corrupt {
				t.Error("expected Corrupt")
			}
			env := readSettings(t, dir)["env"].(map[string]any)
			if env["A"] != "1" {
				t.Errorf("env = %v", env)
			}
		})
	}
}

func TestEnsureSettingsEnv_EnvNotObject(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `{"env": "broken", "other": 1}`)

	if _, err := EnsureSettingsEnvDefaults(dir, map[string]string{"A": "1"}); err != nil {
		t.Fatal(err)
	}
	doc := readSettings(t, dir)
	env, ok := doc["env"].(map[string]any)
	if !ok || env["A"] != "1" {
		t.Errorf("env = %v", doc["env"])
	}
	if doc["other"] != float64(1) {
		t.Errorf("other = %v", doc["other"])
	}
}

func TestReadSettingsEnv_Missing(t *testing.T) {
	env, err := ReadSettingsEnv(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if len(env) != 0 {
		t.Errorf("env = %v, want empty", env)
	}
}

// ---------------------------------------------------------------------------
// permissions
// ---------------------------------------------------------------------------

func TestEnsureZaiMCPDeny_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `{"permissions":{"deny":["Bash(rm:*)"]}}`)

	res, err := EnsureZaiMCPDeny(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Changed {
		t.Error("expected change")
	}
	deny := stringSlice(readSettings(t, dir)["permissions"].(map[string]any)["deny"])
	want := []string{"Bash(rm:*)", "mcp__4_5v_mcp__analyze_image", "mcp__milk_tea_server__claim_milk_tea_coupon", "mcp__web_reader__webReader"}
	if !containsAll(deny, want...) || len(deny) != len(want) {
		t.Errorf("deny = %v", deny)
	}

	res, err = EnsureZaiMCPDeny(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Error("second call should not change")
	}
}

func TestTeamSettings_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `{"env":{"X":"1"},"permissions":{"allow":["Read"]}}`)

	if _, err := EnsureTeamSettings(dir); err != nil {
		t.Fatal(err)
	}
	doc := readSettings(t, dir)
	env := doc["env"].(map[string]any)
	if env[TeamModeEnvKey] != "1" || env[AgentTypeEnvKey] != TeamLeadAgentType {
		t.Errorf("env = %v", env)
	}
	allow := stringSlice(doc["permissions"].(map[string]any)["allow"])
	if !containsAll(allow, "Read", OrchestrationAllow) {
		t.Errorf("allow = %v", allow)
	}

	res, err := EnsureTeamSettings(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Error("EnsureTeamSettings not idempotent")
	}

	if _, err := RemoveTeamSettings(dir); err != nil {
		t.Fatal(err)
	}
	doc = readSettings(t, dir)
	env = doc["env"].(map[string]any)
	if _, ok := env[TeamModeEnvKey]; ok {
		t.Errorf("team env key left: %v", env)
	}
	if env["X"] != "1" {
		t.Errorf("unrelated env removed: %v", env)
	}
	allow = stringSlice(doc["permissions"].(map[string]any)["allow"])
	if len(allow) != 1 || allow[0] != "Read" {
		t.Errorf("allow = %v, want [Read]", allow)
	}
}

func TestRemoveTeamSettings_MissingFile(t *testing.T) {
	dir := t.TempDir()
	res, err := RemoveTeamSettings(dir)
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed {
		t.Error("expected no change")
	}
	if fileExists(SettingsPath(dir)) {
		t.Error("settings.json should not be created")
	}
}
