package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var errTasksUnsupported = errors.New("team tasks are not supported in this release")

// tasksCmd answers the legacy team task commands with a notice.
var tasksCmd = &cobra.Command{
	Use:                "tasks [subcommand]",
	Short:              "Legacy team task management (unsupported)",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(os.Stdout, "Team mode tasks were removed. Use 'ccmirror update <name> --disable-team-mode' to clean up team assets.")
		return errTasksUnsupported
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
