// Package teampack installs the team-mode prompt files and the team toolset
// into a variant's customization directory, and removes them again.
package teampack

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccmirror/ccmirror/internal/core/brand"
)

// ToolsetName is the toolset added for team mode.
const ToolsetName = "team"

// BlockedTool is the built-in tool the team toolset blocks on top of the
// inherited ones.
const BlockedTool = "TodoWrite"

//go:embed prompts/*.md
var promptFS embed.FS

// File maps a bundled prompt to its name in the system-prompts directory.
type File struct {
	Source string
	Target string
}

// Files is the fixed set of team prompts.
var Files = []File{
	{Source: "tasklist.md", Target: "tool-description-tasklist.md"},
	{Source: "taskupdate.md", Target: "tool-description-taskupdate.md"},
	{Source: "task-extra-notes.md", Target: "agent-prompt-task-tool-extra-notes.md"},
	{Source: "task-management-note.md", Target: "system-prompt-task-management-note.md"},
	{Source: "orchestration-skill.md", Target: "system-prompt-orchestration-skill.md"},
	{Source: "skill-tool-override.md", Target: "tool-description-skill.md"},
}

// CopyPrompts writes every team prompt into systemPromptsDir, overwriting
// earlier copies, and returns the target names written.
func CopyPrompts(systemPromptsDir string) ([]string, error) {
	if err := os.MkdirAll(systemPromptsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", systemPromptsDir, err)
	}
	var copied []string
	for _, f := range Files {
		data, err := promptFS.ReadFile("prompts/" + f.Source)
		if err != nil {
			return copied, fmt.Errorf("reading bundled %s: %w", f.Source, err)
		}
		if err := os.WriteFile(filepath.Join(systemPromptsDir, f.Target), data, 0o644); err != nil {
			return copied, fmt.Errorf("writing %s: %w", f.Target, err)
		}
		copied = append(copied, f.Target)
	}
	return copied, nil
}

// RemovePrompts deletes the team prompts present in systemPromptsDir and
// returns the names removed.
func RemovePrompts(systemPromptsDir string) ([]string, error) {
	var removed []string
	for _, f := range Files {
		path := filepath.Join(systemPromptsDir, f.Target)
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = append(removed, f.Target)
		case os.IsNotExist(err):
		default:
			return removed, fmt.Errorf("removing %s: %w", f.Target, err)
		}
	}
	return removed, nil
}

// ConfigureTeamToolset adds (or refreshes) the team toolset in the
// customization config at configPath. Its blocked tools are the union of
// the current default toolset's blocked tools and BlockedTool. The team
// toolset becomes both the default and the plan-mode toolset. It returns
// false without writing when the config does not exist.
func ConfigureTeamToolset(configPath string) (bool, error) {
	cfg, err := brand.LoadConfig(configPath)
	if err != nil {
		return false, err
	}
	if !cfg.Exists() {
		return false, nil
	}

	var blocked []string
	seen := make(map[string]bool)
	add := func(tool string) {
		if !seen[tool] {
			seen[tool] = true
			blocked = append(blocked, tool)
		}
	}
	if current, ok := cfg.Toolset(cfg.DefaultToolset()); ok {
		for _, tool := range current.BlockedTools {
			add(tool)
		}
	}
	add(BlockedTool)

	if err := cfg.UpsertToolset(brand.Toolset{Name: ToolsetName, AllowedTools: "*", BlockedTools: blocked}); err != nil {
		return false, fmt.Errorf("writing team toolset: %w", err)
	}
	if err := cfg.SetDefaultToolset(ToolsetName); err != nil {
		return false, err
	}
	if err := cfg.SetPlanModeToolset(ToolsetName); err != nil {
		return false, err
	}
	if err := cfg.Save(); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveTeamToolset deletes the team toolset. Default and plan-mode
// references to it fall back to the first remaining toolset, or are cleared
// when none remain. It returns false when the config or the toolset does
// not exist.
func RemoveTeamToolset(configPath string) (bool, error) {
	cfg, err := brand.LoadConfig(configPath)
	if err != nil {
		return false, err
	}
	if !cfg.Exists() {
		return false, nil
	}

	removed, err := cfg.RemoveToolset(ToolsetName)
	if err != nil {
		return false, fmt.Errorf("removing team toolset: %w", err)
	}
	if !removed {
		return false, nil
	}
	fallback := ""
	if remaining := cfg.Toolsets(); len(remaining) > 0 {
		fallback = remaining[0].Name
	}
	if cfg.DefaultToolset() == ToolsetName {
		if err := cfg.SetDefaultToolset(fallback); err != nil {
			return false, err
		}
	}
	if cfg.PlanModeToolset() == ToolsetName {
		if err := cfg.SetPlanModeToolset(fallback); err != nil {
			return false, err
		}
	}
	if err := cfg.Save(); err != nil {
		return false, err
	}
	return true, nil
}
