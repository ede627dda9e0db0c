package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/core"
)

var tweakCmd = &cobra.Command{
	Use:   "tweak <name>",
	Short: "Open tweakcc for a variant",
	Long: `Open tweakcc's interactive UI against a variant's installed binary and
customization config. Run 'ccmirror update <name> --settings-only' afterwards
to re-apply the prompt pack on top of your changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		return core.TweakVariant(cmd.Context(), d.cfg.Root, args[0], d.tweakRunner())
	},
}

func init() {
	rootCmd.AddCommand(tweakCmd)
}
