package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/pipeline"
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new variant",
	Long: `Create a variant wired to a provider.

The pinned Claude Code package is installed into the variant's own npm
directory, settings.json and .claude.json are written for the provider,
tweakcc applies the theme and prompt overlays, and a launcher is written
to the bin directory.

Examples:
  ccmirror create glm --provider zai --api-key "$Z_AI_API_KEY"
  ccmirror create mm --provider minimax --no-prompt-pack
  ccmirror create router --provider ccrouter --no-tweak`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		providerKey, _ := cmd.Flags().GetString("provider")
		baseURL, _ := cmd.Flags().GetString("base-url")
		apiKey, _ := cmd.Flags().GetString("api-key")
		extraEnv, _ := cmd.Flags().GetStringArray("env")
		brandKey, _ := cmd.Flags().GetString("brand")
		npmPackage, _ := cmd.Flags().GetString("npm-package")
		npmVersion, _ := cmd.Flags().GetString("npm-version")
		noTweak, _ := cmd.Flags().GetBool("no-tweak")
		skillUpdate, _ := cmd.Flags().GetBool("skill-update")
		teamMode, _ := cmd.Flags().GetBool("enable-team-mode")

		if npmPackage == "" {
			npmPackage = d.cfg.NpmPackage
		}
		if npmVersion == "" {
			npmVersion = d.cfg.NpmVersion
		}

		params := core.CreateParams{
			Name:           args[0],
			ProviderKey:    providerKey,
			BaseURL:        baseURL,
			APIKey:         apiKey,
			ExtraEnv:       extraEnv,
			ModelOverrides: modelOverrides(cmd),
			RootDir:        d.cfg.Root,
			BinDir:         d.cfg.BinDir,
			NpmPackage:     npmPackage,
			NpmVersion:     npmVersion,
			Brand:          brandKey,
			NoTweak:        noTweak,
			PromptPack:     toggle(cmd, "prompt-pack"),
			SkillInstall:   toggle(cmd, "skill-install"),
			ShellEnv:       toggle(cmd, "shell-env"),
			SkillUpdate:    skillUpdate,
			TweakStdio:     tweakStdio(cmd),
			EnableTeamMode: teamMode,
		}

		opts := d.pipelineOptions()
		b := pipeline.NewBuilder(opts)
		res, rendered, err := runPipeline(cmd, opts, pipelineRun{
			title: "create " + params.Name,
			steps: b.Steps(),
			block: func(ctx context.Context, o pipeline.Options) (*pipeline.Result, error) {
				return pipeline.NewBuilder(o).Build(ctx, params)
			},
			start: func(ctx context.Context) *pipeline.Run {
				return b.Start(ctx, params)
			},
		})
		if err != nil {
			return fmt.Errorf("creating %s: %w", params.Name, err)
		}
		printResult("Created", res, rendered)
		return nil
	},
}

func init() {
	createCmd.Flags().StringP("provider", "p", "", "Provider key (see 'ccmirror providers')")
	createCmd.Flags().String("base-url", "", "Override the provider's base URL")
	createCmd.Flags().String("api-key", "", "Provider credential written to settings.json")
	createCmd.Flags().StringArray("env", nil, "Extra settings env entry KEY=VALUE (repeatable)")
	createCmd.Flags().String("brand", "", "Theme brand: auto, none or a brand key (default: auto)")
	createCmd.Flags().String("npm-package", "", "Package to install (default from config)")
	createCmd.Flags().String("npm-version", "", "Package version to install (default from config)")
	createCmd.Flags().Bool("no-tweak", false, "Skip tweakcc; no theme, prompt pack or team patch")
	addToggleFlags(createCmd, "prompt-pack", "the provider prompt pack")
	addToggleFlags(createCmd, "skill-install", "bundled skill installation")
	addToggleFlags(createCmd, "shell-env", "writing the provider key to the shell profile")
	createCmd.Flags().Bool("skill-update", false, "Refresh bundled skills even when up to date")
	createCmd.Flags().Bool("enable-team-mode", false, "Enable team mode (when this release supports it)")
	createCmd.Flags().Bool("tui", false, "Show the interactive progress display")
	addModelFlags(createCmd)
	_ = createCmd.MarkFlagRequired("provider")
	rootCmd.AddCommand(createCmd)
}
