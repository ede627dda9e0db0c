package pipeline

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ccmirror/ccmirror/internal/core"
)

// Env entries every variant gets unless the user set them.
const (
	envDisableAutoUpdater  = "DISABLE_AUTOUPDATER"
	envDisableAutoMigrate  = "DISABLE_AUTO_MIGRATE_TO_NATIVE"
	envPromptSuggestion    = "CLAUDE_CODE_ENABLE_PROMPT_SUGGESTION"
	envTweakccConfigDir    = "TWEAKCC_CONFIG_DIR"
	envBaseURL             = "ANTHROPIC_BASE_URL"
	envAPIKey              = "ANTHROPIC_API_KEY"
	autoUpdateDisabledNote = "Disabled Claude Code auto-updater and auto-migration (DISABLE_AUTOUPDATER=1, DISABLE_AUTO_MIGRATE_TO_NATIVE=1)."
)

type prepareDirsStep struct{}

func (prepareDirsStep) Name() string { return "prepare-directories" }

func (prepareDirsStep) Execute(c *BuildContext) error {
	c.Report("Preparing directories...")
	// A tree without a manifest is reused; a finished variant is left to update.
	if _, err := os.Stat(core.ManifestPath(c.Paths.VariantDir)); err == nil {
		return &core.ValidationError{Field: "variant", Value: c.Name,
			Reason: "already exists; use update instead"}
	}
	for _, dir := range []string{c.Paths.VariantDir, c.Paths.ConfigDir, c.Paths.TweakDir, c.Paths.NpmDir, c.Paths.BinDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

type installStep struct{}

func (installStep) Name() string { return "install" }

func (installStep) Execute(c *BuildContext) error {
	if c.IsUpdate() && c.Update.SettingsOnly {
		c.Log.Debug("settings-only update, keeping installed package")
		return nil
	}
	c.Report(fmt.Sprintf("Installing %s@%s...", c.Prefs.NpmPackage, c.Prefs.NpmVersion))

	opts := core.InstallOptions{
		Dir:        c.Paths.NpmDir,
		Package:    c.Prefs.NpmPackage,
		Version:    c.Prefs.NpmVersion,
		NpmCommand: c.opts.NpmCommand,
		Stdio:      c.stdio(),
		Timeout:    c.opts.InstallTimeout,
	}

	var (
		res *core.InstallResult
		err error
	)
	if c.cooperative {
		select {
		case out := <-core.InstallAsync(c.Context, opts):
			res, err = out.Result, out.Err
		case <-c.Context.Done():
			return c.Context.Err()
		}
	} else {
		res, err = core.Install(c.Context, opts)
	}
	if err != nil {
		return err
	}
	c.State.BinaryPath = res.EntryPoint
	c.State.ClaudeOrig = res.ClaudeOrig
	c.Log.Info("package installed", "source", res.ClaudeOrig, "entry", res.EntryPoint)
	return nil
}

type writeConfigStep struct{}

func (writeConfigStep) Name() string { return "write-config" }

func (writeConfigStep) Execute(c *BuildContext) error {
	c.Report("Writing settings...")
	p := c.Create
	dir := c.Paths.ConfigDir

	defaults := make(map[string]string)
	for k, v := range c.Provider.Env {
		defaults[k] = v
	}
	defaults[envTweakccConfigDir] = c.Paths.TweakDir
	defaults[envDisableAutoUpdater] = "1"
	defaults[envDisableAutoMigrate] = "1"
	defaults[envPromptSuggestion] = "1"
	if c.Provider.BaseURL != "" {
		defaults[envBaseURL] = c.Provider.BaseURL
	}

	overrides := make(map[string]string)
	if p.BaseURL != "" {
		overrides[envBaseURL] = p.BaseURL
	}
	if credVar := c.Provider.CredentialVar(); credVar != "" {
		if p.APIKey != "" {
			overrides[credVar] = p.APIKey
		} else {
			defaults[credVar] = core.APIKeyPlaceholder
		}
	}
	for _, kv := range p.ExtraEnv {
		k, v, _ := strings.Cut(kv, "=")
		overrides[strings.TrimSpace(k)] = v
	}
	for k, v := range p.ModelOverrides.Env() {
		overrides[k] = v
	}

	res, err := core.EnsureSettingsEnvDefaults(dir, defaults)
	if err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	noteCorrupt(c, res.Corrupt, "settings.json")
	if res.Changed {
		c.Note(autoUpdateDisabledNote)
	}
	if _, err := core.EnsureSettingsEnvOverrides(dir, overrides); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	if c.Provider.RequiresModelMapping && p.ModelOverrides.IsZero() {
		c.Notef("Warning: %s needs model mapping; pass --model-sonnet, --model-opus and --model-haiku.", c.Provider.Label)
	}
	return applyProviderConfig(c, p.APIKey)
}

// applyProviderConfig writes the provider-specific parts of settings.json
// and .claude.json. It is shared by create and update.
func applyProviderConfig(c *BuildContext, apiKey string) error {
	dir := c.Paths.ConfigDir

	if c.Provider.CredentialVar() == envAPIKey {
		res, err := core.EnsureAPIKeyApproval(dir, apiKey)
		if err != nil {
			return fmt.Errorf("approving API key: %w", err)
		}
		noteCorrupt(c, res.Corrupt, ".claude.json")
	}

	switch c.ProviderKey {
	case "minimax":
		res, err := core.EnsureMinimaxMCPServer(dir, apiKey)
		if err != nil {
			return fmt.Errorf("configuring MiniMax MCP server: %w", err)
		}
		if res.Changed {
			c.Note("Configured MiniMax MCP server (uvx minimax-coding-plan-mcp).")
		}
	case "zai":
		res, err := core.EnsureZaiMCPDeny(dir)
		if err != nil {
			return fmt.Errorf("blocking Z.ai MCP tools: %w", err)
		}
		if res.Changed {
			c.Note("Blocked Z.ai-injected MCP tools in settings.json.")
		}
	}
	return nil
}

func noteCorrupt(c *BuildContext, corrupt bool, file string) {
	if corrupt {
		c.Log.Warn("unparseable config replaced", "file", file)
		c.Notef("Warning: %s could not be parsed and was reset.", file)
	}
}

type finalizeStep struct{}

func (finalizeStep) Name() string { return "finalize" }

func (finalizeStep) Execute(c *BuildContext) error {
	c.Report("Writing manifest...")
	p := c.Create
	meta := &core.VariantMeta{
		Name:            c.Name,
		Provider:        c.ProviderKey,
		BaseURL:         firstNonEmpty(p.BaseURL, c.Provider.BaseURL),
		CreatedAt:       c.opts.now().UTC(),
		ClaudeOrig:      c.State.ClaudeOrig,
		BinaryPath:      c.State.BinaryPath,
		ConfigDir:       c.Paths.ConfigDir,
		TweakDir:        c.Paths.TweakDir,
		Brand:           c.Prefs.BrandKey,
		PromptPack:      core.BoolPtr(c.Prefs.PromptPack),
		SkillInstall:    core.BoolPtr(c.Prefs.SkillInstall),
		ShellEnv:        core.BoolPtr(c.Prefs.ShellEnv),
		BinDir:          c.Paths.BinDir,
		InstallType:     "npm",
		NpmDir:          c.Paths.NpmDir,
		NpmPackage:      c.Prefs.NpmPackage,
		NpmVersion:      c.Prefs.NpmVersion,
		TeamModeEnabled: c.opts.TeamModeSupported && c.State.TeamModeEnabled,
	}
	if err := core.WriteVariantMeta(c.Paths.VariantDir, meta); err != nil {
		return err
	}
	c.State.Meta = meta
	c.Log.Info("variant created", "provider", c.ProviderKey, "wrapper", c.Paths.WrapperPath)
	return nil
}

// sortedEnvKeys lists the keys of env in order.
func sortedEnvKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
