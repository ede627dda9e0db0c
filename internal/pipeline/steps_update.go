package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/ccmirror/ccmirror/internal/core"
)

type modelOverridesStep struct{}

func (modelOverridesStep) Name() string { return "model-overrides" }

func (modelOverridesStep) Execute(c *BuildContext) error {
	env := c.Update.ModelOverrides.Env()
	if len(env) == 0 {
		return nil
	}
	c.Report("Updating model overrides...")
	res, err := core.EnsureSettingsEnvOverrides(c.Paths.ConfigDir, env)
	if err != nil {
		return fmt.Errorf("writing model overrides: %w", err)
	}
	noteCorrupt(c, res.Corrupt, "settings.json")
	if res.Changed {
		keys := sortedEnvKeys(env)
		for i, k := range keys {
			keys[i] = k + "=" + env[k]
		}
		c.Notef("Model overrides updated (%s).", strings.Join(keys, ", "))
	}
	return nil
}

type configUpdateStep struct{}

func (configUpdateStep) Name() string { return "config" }

func (configUpdateStep) Execute(c *BuildContext) error {
	c.Report("Updating settings...")
	res, err := core.EnsureSettingsEnvDefaults(c.Paths.ConfigDir, map[string]string{
		envTweakccConfigDir:   c.Paths.TweakDir,
		envDisableAutoUpdater: "1",
		envDisableAutoMigrate: "1",
		envPromptSuggestion:   "1",
	})
	if err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	noteCorrupt(c, res.Corrupt, "settings.json")
	if res.Changed {
		c.Note(autoUpdateDisabledNote)
	}
	return applyProviderConfig(c, "")
}

type finalizeUpdateStep struct{}

func (finalizeUpdateStep) Name() string { return "finalize" }

func (finalizeUpdateStep) Execute(c *BuildContext) error {
	c.Report("Writing manifest...")
	meta := *c.State.Meta

	now := c.opts.now().UTC()
	if !now.After(meta.CreatedAt) {
		now = meta.CreatedAt.Add(time.Millisecond)
	}
	meta.UpdatedAt = &now

	meta.BinaryPath = c.State.BinaryPath
	meta.ClaudeOrig = c.State.ClaudeOrig
	meta.ConfigDir = c.Paths.ConfigDir
	meta.TweakDir = c.Paths.TweakDir
	meta.BinDir = c.Paths.BinDir
	meta.NpmDir = c.Paths.NpmDir
	meta.NpmPackage = c.Prefs.NpmPackage
	meta.NpmVersion = c.Prefs.NpmVersion
	meta.InstallType = "npm"
	meta.Brand = c.Prefs.BrandKey
	meta.PromptPack = core.BoolPtr(c.Prefs.PromptPack)
	meta.SkillInstall = core.BoolPtr(c.Prefs.SkillInstall)
	meta.ShellEnv = core.BoolPtr(c.Prefs.ShellEnv)
	meta.TeamModeEnabled = c.opts.TeamModeSupported && c.State.TeamModeEnabled

	if err := core.WriteVariantMeta(c.Paths.VariantDir, &meta); err != nil {
		return err
	}
	c.State.Meta = &meta
	c.Log.Info("variant updated", "version", meta.NpmVersion)
	return nil
}
