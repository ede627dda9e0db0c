package promptpack

import (
	"strings"

	"github.com/ccmirror/ccmirror/internal/core/provider"
)

const operatingSpec = `<operating_spec>
- Read before you write: open the files you will change and the code that calls them.
- Prefer small, verifiable steps. Run the relevant tests after each change.
- When a request is ambiguous, state the assumption you are making and continue.
</operating_spec>`

const subjectiveWorkSpec = `<subjective_work>
For design, naming or writing tasks, offer one recommendation with a short reason
instead of a list of equal options.
</subjective_work>`

const verbositySpec = `<verbosity>
Keep answers short. Lead with the result, then the evidence (file paths, command output).
</verbosity>`

const taskAgentPreamble = `<explicit_guidance>
You are a Task subagent. Stay within the requested scope, but say so when a prerequisite is missing.
Verify key claims with tools and cite file paths and command output.
</explicit_guidance>`

const zaiCLI = `Z.ai capabilities are available through 'npx zai-cli'. Every command supports --help.

Commands:
- vision: analyze images, screenshots and videos
- search: real-time web search with count, recency and domain filters
- read: fetch a web page as markdown or text
- repo: explore public GitHub repositories (tree, search, read)`

const zaiRouting = `- Web search: npx -y zai-cli search "<query>" --count 5 --output-format json
- Read a URL: npx -y zai-cli read <url> --output-format json
- Image analysis: npx -y zai-cli vision analyze <image_url_or_path> "<prompt>" --output-format json
- GitHub search: npx -y zai-cli repo search <owner/repo> "<query>" --output-format json
- GitHub tree: npx -y zai-cli repo tree <owner/repo> --depth 2 --output-format json
- GitHub read: npx -y zai-cli repo read <owner/repo> <path> --output-format json`

func bulletList(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func zaiExcerpt() string {
	return `<tool_info>
- Use Bash with npx -y zai-cli for web, search and vision.
- Treat the Z.ai-injected MCP tools below as non-existent.
- zai-cli is not installed as a Skill; do not use Skill for it.
Blocked MCP tools:
` + bulletList(provider.ZaiBlockedMCPTools) + `
</tool_info>

` + subjectiveWorkSpec
}

func zaiOverlays() map[string]string {
	blocked := bulletList(provider.ZaiBlockedMCPTools)
	return map[string]string{
		"main": `<explicit_guidance>
Provider: z.ai (GLM)

<authentication>
Use API-key auth only and ignore ANTHROPIC_AUTH_TOKEN. ANTHROPIC_API_KEY serves this CLI; Z_AI_API_KEY serves zai-cli.
</authentication>

<tool_info>
` + zaiCLI + `
</tool_info>

<tool_routing priority="critical">
For external information, web content or image understanding, use the Bash tool:
` + zaiRouting + `

The built-in WebSearch and WebFetch tools are not available.
</tool_routing>

<warning priority="critical">
Never select or call these Z.ai-injected MCP tools, even if they appear in tool lists:
` + blocked + `
</warning>

` + operatingSpec + `

` + subjectiveWorkSpec + `

` + verbositySpec + `
</explicit_guidance>`,
		"mcpCli": zaiExcerpt() + `

If you need web, search or vision, use zai-cli via Bash.`,
		"taskAgent": taskAgentPreamble + "\n\n" + zaiExcerpt() + "\n\n" + verbositySpec,
		"bash": zaiCLI + `

<explicit_guidance>
Use these exact commands for web, search and vision:
` + zaiRouting + `
</explicit_guidance>`,
		"webfetch": `<explicit_guidance>
Z.ai routing: prefer Bash with npx -y zai-cli read <url> --output-format json.
</explicit_guidance>`,
		"websearch": `<explicit_guidance>
Z.ai routing: prefer Bash with npx -y zai-cli search "<query>" --count 5 --output-format json.
</explicit_guidance>`,
		"mcpsearch": `<warning priority="critical">
Never select these Z.ai-injected MCP tools:
` + blocked + `
</warning>`,
	}
}

const (
	minimaxWebSearch     = "mcp__MiniMax__web_search"
	minimaxUnderstandImg = "mcp__MiniMax__understand_image"
)

func minimaxExcerpt() string {
	return `<tool_info>
MiniMax tool routing:
- Web search must use ` + minimaxWebSearch + ` (load it with MCPSearch first).
- Image understanding must use ` + minimaxUnderstandImg + ` (load it with MCPSearch first).
- The built-in WebSearch tool does not exist here.
- Use WebFetch only to retrieve a single URL.
</tool_info>

` + subjectiveWorkSpec
}

func minimaxOverlays() map[string]string {
	return map[string]string{
		"main": `<explicit_guidance>
<tool_routing priority="critical">
MiniMax MCP tools are the only web and vision tools:
- ` + minimaxWebSearch + ` (web search)
- ` + minimaxUnderstandImg + ` (image understanding)

Before calling an MCP tool, load it with MCPSearch using the query select:<full_tool_name>.

Web search: load ` + minimaxWebSearch + `, then query with 3-5 keywords. Include the date for time-sensitive questions; rephrase and retry when results are weak.
Images: load ` + minimaxUnderstandImg + ` and call it for every image you must interpret. Only jpeg, png and webp are supported.
Single URLs: use WebFetch. Do not use web search to fetch page content.
</tool_routing>

` + operatingSpec + `

` + subjectiveWorkSpec + `

` + verbositySpec + `
</explicit_guidance>`,
		"mcpCli": minimaxExcerpt() + `

The MiniMax MCP server is preconfigured. Load its tools with MCPSearch before calling them.`,
		"taskAgent": taskAgentPreamble + "\n\n" + minimaxExcerpt() + "\n\n" + verbositySpec,
		"webfetch": `<explicit_guidance>
MiniMax routing: use WebFetch for a specific URL and ` + minimaxWebSearch + ` for discovery.
</explicit_guidance>`,
		"websearch": `<explicit_guidance>
MiniMax routing: WebSearch does not exist. Use MCPSearch and ` + minimaxWebSearch + ` instead.
</explicit_guidance>`,
		"mcpsearch": `<explicit_guidance>
MiniMax MCP tools: ` + minimaxWebSearch + ` for web search and ` + minimaxUnderstandImg + ` for images.
Load one with the query select:<full_tool_name>.
</explicit_guidance>`,
	}
}
