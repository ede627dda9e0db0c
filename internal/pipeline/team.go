package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/core/gate"
	"github.com/ccmirror/ccmirror/internal/core/skill"
	"github.com/ccmirror/ccmirror/internal/core/teampack"
)

const teamUnsupportedNote = "Team mode is not supported in this cc-mirror release; disabling and removing team assets."

// teamModeStep enables team mode on create when requested by the user or
// the provider. It exists only when the capability is supported.
type teamModeStep struct{}

func (teamModeStep) Name() string { return "team-mode" }

func (teamModeStep) Execute(c *BuildContext) error {
	if !c.Create.EnableTeamMode && !c.Provider.EnablesTeamMode {
		return nil
	}
	c.Report("Enabling team mode...")
	enableTeamMode(c)
	return nil
}

// teamModeUpdateStep reconciles team mode on update. When the capability
// is off it removes whatever a previous release installed.
type teamModeUpdateStep struct{}

func (teamModeUpdateStep) Name() string { return "team-mode" }

func (teamModeUpdateStep) Execute(c *BuildContext) error {
	u := c.Update
	if !c.opts.TeamModeSupported {
		if !c.State.TeamModeEnabled && !u.EnableTeamMode && !u.DisableTeamMode {
			return nil
		}
		c.Report("Removing team mode...")
		c.Note(teamUnsupportedNote)
		disableTeamMode(c)
		return nil
	}

	switch {
	case u.DisableTeamMode:
		c.Report("Disabling team mode...")
		disableTeamMode(c)
	case u.EnableTeamMode || c.Provider.EnablesTeamMode || c.State.TeamModeEnabled:
		c.Report("Enabling team mode...")
		enableTeamMode(c)
	}
	return nil
}

// enableTeamMode flips the gate in the installed cli.js and installs the
// team assets. Failures become notes; State.TeamModeEnabled is set only
// when the gate is verified enabled.
func enableTeamMode(c *BuildContext) {
	cli := c.entryPoint()
	content, err := os.ReadFile(cli)
	if err != nil {
		c.Log.Warn("cli.js not readable", "path", cli, "error", err)
		c.Note("Warning: cli.js not found, skipping team mode patch")
		return
	}

	res := c.patcher().SetState(string(content), true)
	switch {
	case res.State == gate.StateUnknown:
		c.Log.Warn("team mode gate not recognised", "path", cli)
		c.Note("Warning: Team mode marker not found in cli.js, patch may not work")
		return
	case !res.Changed:
		c.Note("Team mode already enabled")
	default:
		if err := backupOnce(cli); err != nil {
			c.warn("backing up cli.js", err)
			return
		}
		if err := os.WriteFile(cli, []byte(res.Text), 0o644); err != nil {
			c.warn("patching cli.js", err)
			return
		}
		if !verifyGate(c, cli, gate.StateEnabled) {
			c.Note("Warning: Team mode patch verification failed")
			return
		}
		c.Note("Team mode enabled successfully")
	}
	c.State.TeamModeEnabled = true

	settings, err := core.EnsureTeamSettings(c.Paths.ConfigDir)
	if err != nil {
		c.warn("writing team settings", err)
	}
	noteCorrupt(c, settings.Corrupt, "settings.json")

	skillsDir := core.SkillsDir(c.Paths.ConfigDir)
	noteSkill(c, skill.Install(skillsDir, skill.Orchestration, skill.Options{Update: c.Prefs.SkillUpdate}), "Multi-agent orchestrator skill")
	noteSkill(c, skill.Install(skillsDir, skill.TaskManager, skill.Options{Update: c.Prefs.SkillUpdate}), "Task manager skill")

	if copied, err := teampack.CopyPrompts(core.SystemPromptsDir(c.Paths.TweakDir)); err != nil {
		c.warn("installing team prompts", err)
	} else if len(copied) > 0 {
		c.Notef("Team pack prompts installed (%s)", strings.Join(copied, ", "))
	}

	if ok, err := teampack.ConfigureTeamToolset(core.TweakConfigPath(c.Paths.TweakDir)); err != nil {
		c.warn("configuring team toolset", err)
	} else if ok {
		c.Notef("Team toolset configured (%s blocked)", teampack.BlockedTool)
	}
}

// disableTeamMode is the inverse of enableTeamMode. Asset removal runs even
// when the gate cannot be found.
func disableTeamMode(c *BuildContext) {
	cli := c.entryPoint()
	if content, err := os.ReadFile(cli); err == nil {
		res := c.patcher().SetState(string(content), false)
		switch {
		case res.State == gate.StateUnknown:
			c.Log.Warn("team mode gate not recognised", "path", cli)
		case !res.Changed:
			c.Note("Team mode already disabled")
		default:
			if err := os.WriteFile(cli, []byte(res.Text), 0o644); err != nil {
				c.warn("patching cli.js", err)
			} else if verifyGate(c, cli, gate.StateDisabled) {
				c.Note("Team mode disabled successfully")
			}
		}
	}
	c.State.TeamModeEnabled = false

	if _, err := core.RemoveTeamSettings(c.Paths.ConfigDir); err != nil {
		c.warn("removing team settings", err)
	}

	skillsDir := core.SkillsDir(c.Paths.ConfigDir)
	noteSkill(c, skill.Remove(skillsDir, skill.Orchestration), "Multi-agent orchestrator skill")
	noteSkill(c, skill.Remove(skillsDir, skill.TaskManager), "Task manager skill")

	if removed, err := teampack.RemovePrompts(core.SystemPromptsDir(c.Paths.TweakDir)); err != nil {
		c.warn("removing team prompts", err)
	} else if len(removed) > 0 {
		c.Notef("Team pack prompts removed (%s)", strings.Join(removed, ", "))
	}

	if ok, err := teampack.RemoveTeamToolset(core.TweakConfigPath(c.Paths.TweakDir)); err != nil {
		c.warn("removing team toolset", err)
	} else if ok {
		c.Note("Team toolset removed")
	}
}

func verifyGate(c *BuildContext, path string, want gate.State) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return c.patcher().DetectState(string(content)) == want
}

// backupOnce copies path to path.backup unless a backup already exists, so
// the backup keeps the unpatched original.
func backupOnce(path string) error {
	backup := path + ".backup"
	if _, err := os.Stat(backup); err == nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", backup, err)
	}
	return nil
}
