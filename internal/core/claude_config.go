package core

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// APIKeyPlaceholder is written when a provider needs a credential but none
// was supplied.
const APIKeyPlaceholder = "<API_KEY>"

// approvalFingerprintLen is how many trailing characters of a credential
// are recorded as its approval fingerprint.
const approvalFingerprintLen = 20

const minimaxMCPServer = "MiniMax"

// IsPlaceholder reports whether secret is empty or the placeholder value.
func IsPlaceholder(secret string) bool {
	return secret == "" || secret == APIKeyPlaceholder
}

// claudeConfig is configDir/.claude.json edited with gjson/sjson paths.
type claudeConfig struct {
	path    string
	content string
	corrupt bool
}

func loadClaudeConfig(configDir string) (*claudeConfig, error) {
	path := ClaudeConfigPath(configDir)
	content, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg := &claudeConfig{path: path, content: content}
	if content == "" {
		cfg.content = "{}"
	} else if !gjson.Valid(content) || !gjson.Parse(content).IsObject() {
		cfg.content = "{}"
		cfg.corrupt = true
	}
	return cfg, nil
}

func (c *claudeConfig) set(path string, value any) error {
	updated, err := sjson.Set(c.content, path, value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", path, err)
	}
	c.content = updated
	return nil
}

func (c *claudeConfig) save() error {
	return writeConfigFile(c.path, c.content)
}

// ApprovalFingerprint returns the trailing characters of secret recorded in
// the approvals list.
func ApprovalFingerprint(secret string) string {
	if len(secret) <= approvalFingerprintLen {
		return secret
	}
	return secret[len(secret)-approvalFingerprintLen:]
}

// EnsureAPIKeyApproval records the fingerprint of secret in
// customApiKeyResponses.approved so the wrapped CLI does not prompt for it.
// An empty secret is read from the settings env; placeholders are ignored.
func EnsureAPIKeyApproval(configDir, secret string) (ReconcileResult, error) {
	if secret == "" {
		env, err := ReadSettingsEnv(configDir)
		if err != nil {
			return ReconcileResult{}, err
		}
		secret = env["ANTHROPIC_API_KEY"]
	}
	if IsPlaceholder(secret) {
		return ReconcileResult{}, nil
	}

	cfg, err := loadClaudeConfig(configDir)
	if err != nil {
		return ReconcileResult{}, err
	}
	result := ReconcileResult{Corrupt: cfg.corrupt}

	fingerprint := ApprovalFingerprint(secret)
	for _, approved := range gjson.Get(cfg.content, "customApiKeyResponses.approved").Array() {
		if approved.String() == fingerprint {
			return result, nil
		}
	}

	if !gjson.Get(cfg.content, "customApiKeyResponses.approved").IsArray() {
		if err := cfg.set("customApiKeyResponses.approved", []string{}); err != nil {
			return result, err
		}
	}
	if !gjson.Get(cfg.content, "customApiKeyResponses.rejected").Exists() {
		if err := cfg.set("customApiKeyResponses.rejected", []string{}); err != nil {
			return result, err
		}
	}
	if err := cfg.set("customApiKeyResponses.approved.-1", fingerprint); err != nil {
		return result, err
	}
	if err := cfg.save(); err != nil {
		return result, err
	}
	result.Changed = true
	return result, nil
}

// OnboardingResult reports which onboarding fields changed.
type OnboardingResult struct {
	ThemeChanged      bool
	OnboardingChanged bool
	Corrupt           bool
}

// EnsureOnboardingState marks onboarding complete and sets the theme. An
// existing theme is kept unless forceTheme is set.
func EnsureOnboardingState(configDir, themeID string, forceTheme bool) (OnboardingResult, error) {
	cfg, err := loadClaudeConfig(configDir)
	if err != nil {
		return OnboardingResult{}, err
	}
	result := OnboardingResult{Corrupt: cfg.corrupt}

	theme := gjson.Get(cfg.content, "theme")
	if themeID != "" && (!theme.Exists() || (forceTheme && theme.String() != themeID)) {
		if err := cfg.set("theme", themeID); err != nil {
			return result, err
		}
		result.ThemeChanged = true
	}
	if !gjson.Get(cfg.content, "hasCompletedOnboarding").Bool() {
		if err := cfg.set("hasCompletedOnboarding", true); err != nil {
			return result, err
		}
		result.OnboardingChanged = true
	}

	if !result.ThemeChanged && !result.OnboardingChanged {
		return result, nil
	}
	return result, cfg.save()
}

// EnsureMinimaxMCPServer adds the MiniMax coding-plan MCP server to
// mcpServers when no entry with that name exists. An empty apiKey is read
// from the settings env.
func EnsureMinimaxMCPServer(configDir, apiKey string) (ReconcileResult, error) {
	if apiKey == "" {
		env, err := ReadSettingsEnv(configDir)
		if err != nil {
			return ReconcileResult{}, err
		}
		apiKey = env["ANTHROPIC_API_KEY"]
	}
	if apiKey == "" {
		apiKey = APIKeyPlaceholder
	}

	cfg, err := loadClaudeConfig(configDir)
	if err != nil {
		return ReconcileResult{}, err
	}
	result := ReconcileResult{Corrupt: cfg.corrupt}

	entryPath := "mcpServers." + escapeJSONKey(minimaxMCPServer)
	if gjson.Get(cfg.content, entryPath).Exists() {
		return result, nil
	}

	entry := map[string]any{
		"command": "uvx",
		"args":    []string{"minimax-coding-plan-mcp", "-y"},
		"env": map[string]string{
			"MINIMAX_API_KEY":  apiKey,
			"MINIMAX_API_HOST": "https://api.minimax.io",
		},
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return result, err
	}
	updated, err := sjson.SetRaw(cfg.content, entryPath, string(raw))
	if err != nil {
		return result, fmt.Errorf("writing MCP entry: %w", err)
	}
	cfg.content = updated
	if err := cfg.save(); err != nil {
		return result, err
	}
	result.Changed = true
	return result, nil
}
