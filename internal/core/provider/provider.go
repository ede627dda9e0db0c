// Package provider is the read-only catalog of backend provider templates a
// variant can be wired to.
package provider

import (
	"fmt"
	"sort"
	"strings"
)

// AuthMode selects which credential variable a provider expects.
type AuthMode string

const (
	AuthAPIKey    AuthMode = "apiKey"
	AuthToken     AuthMode = "authToken"
	AuthNone      AuthMode = "none"
	defaultAPIKey          = "ANTHROPIC_API_KEY"
)

// Template describes a provider's defaults and capability flags.
type Template struct {
	Key         string
	Label       string
	Description string
	BaseURL     string
	AuthMode    AuthMode
	// Env holds default environment entries written into settings.json.
	Env         map[string]string
	APIKeyLabel string

	CredentialOptional   bool
	RequiresModelMapping bool
	EnablesTeamMode      bool
	NoPromptPack         bool
	Experimental         bool
}

// CredentialVar returns the settings env key holding the credential, or ""
// when the provider uses no credential.
func (t Template) CredentialVar() string {
	switch t.AuthMode {
	case AuthToken:
		return "ANTHROPIC_AUTH_TOKEN"
	case AuthNone:
		return ""
	default:
		return defaultAPIKey
	}
}

// ZaiBlockedMCPTools are MCP tools injected by Z.ai that variants deny.
var ZaiBlockedMCPTools = []string{
	"mcp__4_5v_mcp__analyze_image",
	"mcp__milk_tea_server__claim_milk_tea_coupon",
	"mcp__web_reader__webReader",
}

var catalog = map[string]Template{
	"mirror": {
		Key:         "mirror",
		Label:       "Mirror Claude",
		Description: "Pure Claude Code with an isolated config directory",
		AuthMode:    AuthNone,
		Env: map[string]string{
			"CC_MIRROR_SPLASH":         "1",
			"CC_MIRROR_PROVIDER_LABEL": "Mirror Claude",
			"CC_MIRROR_SPLASH_STYLE":   "mirror",
		},
		CredentialOptional: true,
		NoPromptPack:       true,
	},
	"zai": {
		Key:         "zai",
		Label:       "Z.ai (GLM)",
		Description: "GLM Coding Plan via Z.ai",
		BaseURL:     "https://api.z.ai/api/anthropic",
		AuthMode:    AuthAPIKey,
		APIKeyLabel: "Z_AI_API_KEY",
		Env: map[string]string{
			"API_TIMEOUT_MS":                 "3000000",
			"ANTHROPIC_DEFAULT_HAIKU_MODEL":  "glm-4.5-air",
			"ANTHROPIC_DEFAULT_SONNET_MODEL": "glm-4.7",
			"ANTHROPIC_DEFAULT_OPUS_MODEL":   "glm-4.7",
			"CC_MIRROR_SPLASH":               "1",
			"CC_MIRROR_PROVIDER_LABEL":       "Z.ai Cloud",
			"CC_MIRROR_SPLASH_STYLE":         "zai",
		},
	},
	"minimax": {
		Key:         "minimax",
		Label:       "MiniMax",
		Description: "MiniMax-M2.1 Coding Plan",
		BaseURL:     "https://api.minimax.io/anthropic",
		AuthMode:    AuthAPIKey,
		APIKeyLabel: "MINIMAX_API_KEY",
		Env: map[string]string{
			"API_TIMEOUT_MS":                           "3000000",
			"CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC": "1",
			"ANTHROPIC_MODEL":                          "MiniMax-M2.1",
			"ANTHROPIC_SMALL_FAST_MODEL":               "MiniMax-M2.1",
			"ANTHROPIC_DEFAULT_SONNET_MODEL":           "MiniMax-M2.1",
			"ANTHROPIC_DEFAULT_OPUS_MODEL":             "MiniMax-M2.1",
			"ANTHROPIC_DEFAULT_HAIKU_MODEL":            "MiniMax-M2.1",
			"CC_MIRROR_SPLASH":                         "1",
			"CC_MIRROR_PROVIDER_LABEL":                 "MiniMax Cloud",
			"CC_MIRROR_SPLASH_STYLE":                   "minimax",
		},
	},
	"openrouter": {
		Key:         "openrouter",
		Label:       "OpenRouter",
		Description: "One API, any model",
		BaseURL:     "https://openrouter.ai/api",
		AuthMode:    AuthToken,
		APIKeyLabel: "OPENROUTER_API_KEY",
		Env: map[string]string{
			"CC_MIRROR_SPLASH":         "1",
			"CC_MIRROR_PROVIDER_LABEL": "OpenRouter",
			"CC_MIRROR_SPLASH_STYLE":   "openrouter",
		},
		RequiresModelMapping: true,
	},
	"ccrouter": {
		Key:         "ccrouter",
		Label:       "Claude Code Router",
		Description: "Local model gateway",
		BaseURL:     "http://127.0.0.1:3456",
		AuthMode:    AuthToken,
		Env: map[string]string{
			"CC_MIRROR_SPLASH":         "1",
			"CC_MIRROR_PROVIDER_LABEL": "Claude Code Router",
			"CC_MIRROR_SPLASH_STYLE":   "ccrouter",
		},
		CredentialOptional: true,
	},
	"custom": {
		Key:          "custom",
		Label:        "Custom",
		Description:  "Any Anthropic-compatible endpoint",
		AuthMode:     AuthAPIKey,
		Env:          map[string]string{},
		Experimental: true,
	},
}

// Get returns the template for key.
func Get(key string) (Template, bool) {
	t, ok := catalog[key]
	if !ok {
		return Template{}, false
	}
	t.Env = copyEnv(t.Env)
	return t, true
}

// MustGet is Get that returns an error naming the valid keys.
func MustGet(key string) (Template, error) {
	t, ok := Get(key)
	if !ok {
		return Template{}, fmt.Errorf("unknown provider %q; available: %s",
			key, strings.Join(Keys(true), ", "))
	}
	return t, nil
}

// List returns templates sorted by key, hiding experimental ones unless
// includeExperimental is set.
func List(includeExperimental bool) []Template {
	var out []Template
	for _, key := range Keys(includeExperimental) {
		t, _ := Get(key)
		out = append(out, t)
	}
	return out
}

// Keys returns the catalog keys sorted alphabetically.
func Keys(includeExperimental bool) []string {
	keys := make([]string, 0, len(catalog))
	for k, t := range catalog {
		if t.Experimental && !includeExperimental {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyEnv(env map[string]string) map[string]string {
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
