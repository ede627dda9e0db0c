package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/pipeline"
)

// SummaryMarkdown describes a finished create or update as markdown.
func SummaryMarkdown(action string, res *pipeline.Result) string {
	var b strings.Builder
	meta := res.Meta
	if meta == nil {
		meta = &core.VariantMeta{}
	}
	fmt.Fprintf(&b, "## %s: %s\n\n", action, meta.Name)
	fmt.Fprintf(&b, "- **Provider:** %s\n", meta.Provider)
	if meta.Brand != "" {
		fmt.Fprintf(&b, "- **Brand:** %s\n", meta.Brand)
	}
	fmt.Fprintf(&b, "- **Prompt pack:** %s\n", onOff(res.PromptPack))
	fmt.Fprintf(&b, "- **Team mode:** %s\n", onOff(meta.TeamModeEnabled))
	if meta.NpmVersion != "" {
		fmt.Fprintf(&b, "- **Package:** `%s@%s`\n", meta.NpmPackage, meta.NpmVersion)
	}
	if res.WrapperPath != "" {
		fmt.Fprintf(&b, "- **Launcher:** `%s`\n", res.WrapperPath)
	}

	if len(res.Notes) > 0 {
		b.WriteString("\n### Notes\n\n")
		for _, n := range res.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	fmt.Fprintf(&b, "\nRun: `%s`\n", meta.Name)
	return b.String()
}

// RenderMarkdown renders md for a terminal of the given width. The raw
// markdown is returned if rendering fails.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
