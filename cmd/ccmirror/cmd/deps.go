package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/config"
	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/log"
	"github.com/ccmirror/ccmirror/internal/pipeline"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	cfg *config.Config
	log log.Logger
}

// newDeps loads the configuration and applies the global --root and
// --bin-dir flags on top of it.
func newDeps(cmd *cobra.Command) (*deps, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("initializing config: %w", err)
	}
	if root, _ := cmd.Flags().GetString("root"); root != "" {
		cfg.Root = config.ExpandHome(root)
	}
	if binDir, _ := cmd.Flags().GetString("bin-dir"); binDir != "" {
		cfg.BinDir = config.ExpandHome(binDir)
	}
	return &deps{cfg: cfg, log: log.Default()}, nil
}

func (d *deps) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		TeamModeSupported: d.cfg.TeamMode,
		NpmCommand:        d.cfg.NpmCommand,
		TweakCommand:      d.cfg.TweakArgs(),
		Logger:            d.log,
	}
}

func (d *deps) tweakRunner() core.TweakRunner {
	return core.TweakRunner{Command: d.cfg.TweakArgs()}
}
