package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/core/brand"
	"github.com/ccmirror/ccmirror/internal/core/promptpack"
	"github.com/ccmirror/ccmirror/internal/core/skill"
)

const defaultThemeID = "dark"

type brandThemeStep struct{}

func (brandThemeStep) Name() string { return "brand-theme" }

func (brandThemeStep) Execute(c *BuildContext) error {
	c.Report("Configuring theme...")
	if err := os.MkdirAll(c.Paths.TweakDir, 0o755); err != nil {
		c.warn("preparing customization config", err)
		return nil
	}
	if res, err := brand.EnsureTweakccConfig(c.Paths.TweakDir, c.Prefs.BrandKey); err != nil {
		c.warn("writing brand theme", err)
	} else {
		noteCorrupt(c, res.Corrupt, "tweakcc/config.json")
	}

	themeID, force := defaultThemeID, false
	if id := brand.ThemeID(c.Prefs.BrandKey); id != "" && !c.Prefs.NoTweak {
		themeID, force = id, true
	}
	res, err := core.EnsureOnboardingState(c.Paths.ConfigDir, themeID, force)
	if err != nil {
		c.warn("updating onboarding state", err)
		return nil
	}
	noteCorrupt(c, res.Corrupt, ".claude.json")
	if res.ThemeChanged {
		c.Notef("Default theme set to %s.", themeID)
	}
	if res.OnboardingChanged {
		c.Note("Onboarding marked complete.")
	}
	return nil
}

type tweakStep struct{}

func (tweakStep) Name() string { return "tweak" }

func (tweakStep) Execute(c *BuildContext) error {
	if c.Prefs.NoTweak {
		c.Log.Debug("customizations disabled")
		return nil
	}
	c.Report("Applying customizations...")
	return applyTweak(c)
}

// applyTweak runs the customization tool. Failure is fatal: the binary may
// be partially patched and no manifest must be written for it.
func applyTweak(c *BuildContext) error {
	if c.State.BinaryPath == "" {
		return fmt.Errorf("applying customizations: no installed binary")
	}
	res, err := c.opts.tweakRunner().Apply(c.Context, c.Paths.TweakDir, c.State.BinaryPath, c.stdio())
	c.State.TweakResult = res
	if err != nil {
		return err
	}
	return nil
}

type promptPackStep struct{}

func (promptPackStep) Name() string { return "prompt-pack" }

func (promptPackStep) Execute(c *BuildContext) error {
	if c.Prefs.NoTweak {
		return nil
	}

	var (
		res promptpack.Result
		err error
	)
	if c.Prefs.PromptPackEnabled && promptpack.Supported(c.ProviderKey) {
		c.Report("Applying prompt pack...")
		res, err = promptpack.Apply(c.Paths.TweakDir, c.ProviderKey)
		if err != nil {
			c.warn("applying prompt pack", err)
			return nil
		}
		if res.Changed {
			c.Notef("Prompt pack applied (%s).", strings.Join(res.Updated, ", "))
		}
	} else {
		res, err = promptpack.Strip(c.Paths.TweakDir)
		if err != nil {
			c.warn("removing prompt pack", err)
			return nil
		}
		if res.Changed {
			c.Notef("Prompt pack removed (%s).", strings.Join(res.Updated, ", "))
		}
	}

	if !res.Changed {
		return nil
	}
	c.Report("Re-applying customizations...")
	return applyTweak(c)
}

type wrapperStep struct{}

func (wrapperStep) Name() string { return "wrapper" }

func (wrapperStep) Execute(c *BuildContext) error {
	c.Report("Writing launcher...")
	return core.WriteWrapper(core.WrapperOptions{
		Path:       c.Paths.WrapperPath,
		ConfigDir:  c.Paths.ConfigDir,
		TweakDir:   c.Paths.TweakDir,
		BinaryPath: c.State.BinaryPath,
	})
}

type shellEnvStep struct{}

func (shellEnvStep) Name() string { return "shell-env" }

func (shellEnvStep) Execute(c *BuildContext) error {
	if !c.Prefs.ShellEnv || c.ProviderKey != "zai" {
		return nil
	}
	apiKey := ""
	if c.Create != nil {
		apiKey = c.Create.APIKey
	}
	if apiKey == "" {
		env, err := core.ReadSettingsEnv(c.Paths.ConfigDir)
		if err != nil {
			c.warn("reading settings env", err)
			return nil
		}
		apiKey = env[envAPIKey]
	}

	c.Report("Writing shell environment...")
	res := core.WriteShellEnv(core.ShellEnvOptions{
		APIKey: apiKey,
		Home:   c.opts.Home,
		Shell:  c.opts.Shell,
	})
	switch res.Status {
	case core.ShellEnvWritten:
		c.Notef("Z_AI_API_KEY exported in %s.", res.Path)
	case core.ShellEnvFailed:
		c.Log.Warn("shell env write failed", "path", res.Path, "message", res.Message)
		c.Notef("Warning: could not write Z_AI_API_KEY to shell profile: %s", res.Message)
	default:
		c.Log.Debug("shell env skipped", "path", res.Path, "message", res.Message)
	}
	return nil
}

type skillInstallStep struct{}

func (skillInstallStep) Name() string { return "skill-install" }

func (skillInstallStep) Execute(c *BuildContext) error {
	if !c.Prefs.SkillInstall {
		return nil
	}
	c.Report("Installing skills...")
	res := skill.Install(core.SkillsDir(c.Paths.ConfigDir), skill.DevBrowser, skill.Options{Update: c.Prefs.SkillUpdate})
	noteSkill(c, res, "dev-browser skill")
	return nil
}

// noteSkill records the outcome of a skill install or removal.
func noteSkill(c *BuildContext, res skill.Result, label string) {
	switch res.Status {
	case skill.StatusInstalled:
		c.Notef("%s installed.", label)
	case skill.StatusUpdated:
		c.Notef("%s updated.", label)
	case skill.StatusRemoved:
		c.Notef("%s removed.", label)
	case skill.StatusFailed:
		c.Log.Warn("skill operation failed", "skill", res.Name, "message", res.Message)
		c.Notef("Warning: %s failed: %s", label, res.Message)
	default:
		c.Log.Debug("skill skipped", "skill", res.Name, "message", res.Message)
	}
}
