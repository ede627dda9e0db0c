// Package brand holds the brand presets (theme and toolset) applied to a
// variant's customization config, and edits that config document.
package brand

import (
	"fmt"
	"sort"
)

const (
	// Auto resolves to the brand named after the provider, if any.
	Auto = "auto"
	// None disables branding.
	None = "none"
)

// Theme is a customization-tool theme definition.
type Theme struct {
	Name   string            `json:"name"`
	ID     string            `json:"id"`
	Colors map[string]string `json:"colors"`
}

// Brand is a preset applied to a variant's customization config.
type Brand struct {
	Key         string
	Label       string
	Description string
	Theme       Theme
	// BlockedTools, when non-empty, become a toolset named Key that is made
	// the default toolset.
	BlockedTools []string
}

func palette(claude, shimmer, border, accent string) map[string]string {
	return map[string]string{
		"claude":        claude,
		"claudeShimmer": shimmer,
		"promptBorder":  border,
		"bashBorder":    accent,
		"permission":    accent,
		"planMode":      accent,
		"autoAccept":    "rgb(175,135,255)",
		"text":          "rgb(230,230,230)",
		"inactive":      "rgb(135,135,135)",
		"success":       "rgb(78,186,101)",
		"error":         "rgb(255,107,128)",
		"warning":       "rgb(255,193,7)",
	}
}

var catalog = map[string]Brand{
	"zai": {
		Key:          "zai",
		Label:        "Z.ai Carbon",
		Description:  "Carbon greys with Z.ai blue accents",
		Theme:        Theme{Name: "Z.ai Carbon", ID: "zai-carbon", Colors: palette("rgb(61,139,253)", "rgb(120,176,255)", "rgb(88,96,105)", "rgb(61,139,253)")},
		BlockedTools: []string{"WebSearch", "WebFetch"},
	},
	"minimax": {
		Key:          "minimax",
		Label:        "MiniMax Pulse",
		Description:  "MiniMax coral on graphite",
		Theme:        Theme{Name: "MiniMax Pulse", ID: "minimax-pulse", Colors: palette("rgb(255,94,91)", "rgb(255,150,140)", "rgb(96,96,110)", "rgb(255,94,91)")},
		BlockedTools: []string{"WebSearch"},
	},
	"openrouter": {
		Key:         "openrouter",
		Label:       "OpenRouter Teal",
		Description: "Teal routing accents",
		Theme:       Theme{Name: "OpenRouter Teal", ID: "openrouter-teal", Colors: palette("rgb(20,184,166)", "rgb(94,234,212)", "rgb(71,85,105)", "rgb(20,184,166)")},
	},
	"ccrouter": {
		Key:         "ccrouter",
		Label:       "CC Router Sky",
		Description: "Sky blue for local routing",
		Theme:       Theme{Name: "CC Router Sky", ID: "ccrouter-sky", Colors: palette("rgb(56,189,248)", "rgb(125,211,252)", "rgb(71,85,105)", "rgb(56,189,248)")},
	},
	"mirror": {
		Key:         "mirror",
		Label:       "Mirror Claude",
		Description: "Claude orange with silver borders",
		Theme:       Theme{Name: "Mirror Claude", ID: "mirror-claude", Colors: palette("rgb(215,119,87)", "rgb(235,159,127)", "rgb(192,192,192)", "rgb(215,119,87)")},
	},
}

// Get returns the brand for key.
func Get(key string) (Brand, bool) {
	b, ok := catalog[key]
	if !ok {
		return Brand{}, false
	}
	b.BlockedTools = append([]string(nil), b.BlockedTools...)
	return b, true
}

// List returns all brands sorted by key.
func List() []Brand {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Brand, 0, len(keys))
	for _, k := range keys {
		b, _ := Get(k)
		out = append(out, b)
	}
	return out
}

// ThemeID returns the theme identifier for a brand key, or "" for none.
func ThemeID(key string) string {
	if b, ok := catalog[key]; ok {
		return b.Theme.ID
	}
	return ""
}

// Resolve maps a requested brand to a catalog key. "auto" picks the brand
// named after the provider when one exists; "none" and "" mean no brand.
func Resolve(requested, providerKey string) (string, error) {
	switch requested {
	case "", None:
		return "", nil
	case Auto:
		if _, ok := catalog[providerKey]; ok {
			return providerKey, nil
		}
		return "", nil
	}
	if _, ok := catalog[requested]; !ok {
		return "", fmt.Errorf("unknown brand %q", requested)
	}
	return requested, nil
}
