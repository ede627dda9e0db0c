package tui

import (
	"strings"
	"testing"

	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/pipeline"
)

func TestSummaryMarkdown(t *testing.T) {
	res := &pipeline.Result{
		Meta: &core.VariantMeta{
			Name:            "glm",
			Provider:        "zai",
			Brand:           "zai",
			PromptPack:      core.BoolPtr(true),
			NpmPackage:      "@anthropic-ai/claude-code",
			NpmVersion:      "2.1.7",
			TeamModeEnabled: false,
		},
		WrapperPath: "/home/u/.local/bin/glm",
		PromptPack:  true,
		Notes:       []string{"Onboarding marked complete."},
	}

	md := SummaryMarkdown("Created", res)
	for _, want := range []string{
		"## Created: glm",
		"**Provider:** zai",
		"**Prompt pack:** on",
		"**Team mode:** off",
		"`@anthropic-ai/claude-code@2.1.7`",
		"`/home/u/.local/bin/glm`",
		"- Onboarding marked complete.",
		"Run: `glm`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("summary missing %q:\n%s", want, md)
		}
	}
}

func TestSummaryMarkdown_NoNotes(t *testing.T) {
	md := SummaryMarkdown("Updated", &pipeline.Result{Meta: &core.VariantMeta{Name: "x", Provider: "mirror"}})
	if strings.Contains(md, "### Notes") {
		t.Errorf("unexpected notes section:\n%s", md)
	}
	if strings.Contains(md, "Brand") {
		t.Errorf("unexpected brand line:\n%s", md)
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("## Created: glm\n\n- item\n", 60)
	if !strings.Contains(out, "Created") || !strings.Contains(out, "item") {
		t.Errorf("rendered output lost content:\n%s", out)
	}
}
