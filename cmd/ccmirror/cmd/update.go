package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/pipeline"
)

var updateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Reinstall and reconfigure variant(s)",
	Long: `Update one variant, or every variant when no name is given.

The pinned package is reinstalled (unless --settings-only), provider
settings are refreshed, tweakcc is re-applied and the manifest is
rewritten. Preferences not given as flags keep the values stored in the
variant's manifest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		upd := updateOptions(cmd)
		if upd.NpmVersion == "" && !upd.SettingsOnly {
			upd.NpmVersion = d.cfg.NpmVersion
		}
		names := args
		if len(names) == 0 {
			entries, err := core.ListVariants(d.cfg.Root)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if e.Meta != nil {
					names = append(names, e.Name)
				}
			}
			if len(names) == 0 {
				fmt.Fprintln(os.Stdout, "No variants to update.")
				return nil
			}
		}

		opts := d.pipelineOptions()
		u := pipeline.NewUpdater(opts)
		var errs []error
		for _, name := range names {
			res, rendered, err := runPipeline(cmd, opts, pipelineRun{
				title: "update " + name,
				steps: u.Steps(),
				block: func(ctx context.Context, o pipeline.Options) (*pipeline.Result, error) {
					return pipeline.NewUpdater(o).Update(ctx, d.cfg.Root, name, upd)
				},
				start: func(ctx context.Context) *pipeline.Run {
					return u.Start(ctx, d.cfg.Root, name, upd)
				},
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("updating %s: %w", name, err))
				continue
			}
			printResult("Updated", res, rendered)
		}
		return errors.Join(errs...)
	},
}

func updateOptions(cmd *cobra.Command) core.UpdateOptions {
	binDir, _ := cmd.Flags().GetString("bin-dir")
	npmPackage, _ := cmd.Flags().GetString("npm-package")
	npmVersion, _ := cmd.Flags().GetString("npm-version")
	brandKey, _ := cmd.Flags().GetString("brand")
	noTweak, _ := cmd.Flags().GetBool("no-tweak")
	settingsOnly, _ := cmd.Flags().GetBool("settings-only")
	skillUpdate, _ := cmd.Flags().GetBool("skill-update")
	enableTeam, _ := cmd.Flags().GetBool("enable-team-mode")
	disableTeam, _ := cmd.Flags().GetBool("disable-team-mode")

	return core.UpdateOptions{
		BinDir:          binDir,
		NpmPackage:      npmPackage,
		NpmVersion:      npmVersion,
		Brand:           brandKey,
		NoTweak:         noTweak,
		SettingsOnly:    settingsOnly,
		PromptPack:      toggle(cmd, "prompt-pack"),
		SkillInstall:    toggle(cmd, "skill-install"),
		ShellEnv:        toggle(cmd, "shell-env"),
		SkillUpdate:     skillUpdate,
		TweakStdio:      tweakStdio(cmd),
		ModelOverrides:  modelOverrides(cmd),
		EnableTeamMode:  enableTeam,
		DisableTeamMode: disableTeam,
	}
}

func init() {
	updateCmd.Flags().String("npm-package", "", "Package to install (default: the variant's package)")
	updateCmd.Flags().String("npm-version", "", "Package version to install (default from config)")
	updateCmd.Flags().String("brand", "", "Switch theme brand: auto, none or a brand key")
	updateCmd.Flags().Bool("no-tweak", false, "Skip tweakcc for this update")
	updateCmd.Flags().Bool("settings-only", false, "Refresh settings without reinstalling the package")
	addToggleFlags(updateCmd, "prompt-pack", "the provider prompt pack")
	addToggleFlags(updateCmd, "skill-install", "bundled skill installation")
	addToggleFlags(updateCmd, "shell-env", "writing the provider key to the shell profile")
	updateCmd.Flags().Bool("skill-update", false, "Refresh bundled skills even when up to date")
	updateCmd.Flags().Bool("enable-team-mode", false, "Enable team mode")
	updateCmd.Flags().Bool("disable-team-mode", false, "Disable team mode and remove its assets")
	updateCmd.Flags().Bool("tui", false, "Show the interactive progress display")
	updateCmd.MarkFlagsMutuallyExclusive("enable-team-mode", "disable-team-mode")
	addModelFlags(updateCmd)
	rootCmd.AddCommand(updateCmd)
}
