package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/log"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ccmirror",
	Short: "Run Claude Code against other providers, one isolated variant each",
	Long: `ccmirror creates isolated variants of Claude Code. Each variant has its
own pinned install, config directory and launcher script, and is wired to
one backend provider (Z.ai, MiniMax, OpenRouter, a local router, ...).

Variants live under ~/.cc-mirror/<name> and are started with the launcher
written to ~/.local/bin/<name>.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetDefault(log.NewText(os.Stderr, log.LevelFor(verbose, debug)))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ccmirror %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress to stderr")
	rootCmd.PersistentFlags().Bool("debug", false, "Log debug detail to stderr")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.cc-mirror/config.json)")
	rootCmd.PersistentFlags().String("root", "", "Variants root directory (default ~/.cc-mirror)")
	rootCmd.PersistentFlags().String("bin-dir", "", "Launcher directory (default ~/.local/bin)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. An interrupt cancels the running command
// between pipeline steps.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
