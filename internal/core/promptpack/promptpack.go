// Package promptpack writes provider-specific overlays into the system prompt
// files managed by the customization tool.
//
// Each overlay is kept between marker comments so it can be replaced or
// stripped without touching the rest of the prompt file.
package promptpack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	blockStart = "<!-- cc-mirror:provider-overlay start -->"
	blockEnd   = "<!-- cc-mirror:provider-overlay end -->"
)

// targets maps an overlay key to the system prompt file it is written into.
var targets = map[string]string{
	"main":      "system-prompt-main-system-prompt.md",
	"mcpCli":    "system-prompt-mcp-cli.md",
	"taskAgent": "agent-prompt-task-tool.md",
	"bash":      "tool-description-bash.md",
	"webfetch":  "tool-description-webfetch.md",
	"websearch": "tool-description-websearch.md",
	"mcpsearch": "tool-description-mcpsearch.md",
}

var builders = map[string]func() map[string]string{
	"zai":     zaiOverlays,
	"minimax": minimaxOverlays,
}

// Result reports which prompt files an Apply or Strip touched.
type Result struct {
	Changed bool
	// Updated lists the prompt files whose content changed.
	Updated []string
	// Missing lists target files that do not exist yet; the customization
	// tool creates them on its first run.
	Missing []string
}

// Supported reports whether providerKey has overlays.
func Supported(providerKey string) bool {
	_, ok := builders[providerKey]
	return ok
}

// Overlays returns the overlay text for each key, or nil when the provider
// has none.
func Overlays(providerKey string) map[string]string {
	build, ok := builders[providerKey]
	if !ok {
		return nil
	}
	return build()
}

// Apply writes the provider's overlays into tweakDir/system-prompts.
func Apply(tweakDir, providerKey string) (Result, error) {
	overlays := Overlays(providerKey)
	if overlays == nil {
		return Result{}, nil
	}
	return rewrite(tweakDir, func(key, content string) string {
		overlay, ok := overlays[key]
		if !ok {
			return stripBlock(content)
		}
		return withBlock(content, overlay)
	})
}

// Strip removes every overlay block from tweakDir/system-prompts.
func Strip(tweakDir string) (Result, error) {
	return rewrite(tweakDir, func(_, content string) string {
		return stripBlock(content)
	})
}

func rewrite(tweakDir string, edit func(key, content string) string) (Result, error) {
	dir := filepath.Join(tweakDir, "system-prompts")
	keys := make([]string, 0, len(targets))
	for k := range targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var res Result
	for _, key := range keys {
		path := filepath.Join(dir, targets[key])
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			res.Missing = append(res.Missing, targets[key])
			continue
		}
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", targets[key], err)
		}
		updated := edit(key, string(data))
		if updated == string(data) {
			continue
		}
		if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
			return res, fmt.Errorf("writing %s: %w", targets[key], err)
		}
		res.Updated = append(res.Updated, targets[key])
		res.Changed = true
	}
	return res, nil
}

func withBlock(content, overlay string) string {
	base := strings.TrimRight(stripBlock(content), "\n")
	return base + "\n\n" + blockStart + "\n" + strings.TrimSpace(overlay) + "\n" + blockEnd + "\n"
}

func stripBlock(content string) string {
	start := strings.Index(content, blockStart)
	if start < 0 {
		return content
	}
	end := strings.Index(content[start:], blockEnd)
	if end < 0 {
		return content
	}
	end += start + len(blockEnd)
	before := strings.TrimRight(content[:start], "\n")
	after := strings.TrimLeft(content[end:], "\n")
	if after == "" {
		return before + "\n"
	}
	return before + "\n\n" + after
}
