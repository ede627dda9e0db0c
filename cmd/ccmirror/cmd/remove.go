package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/core"
	"github.com/ccmirror/ccmirror/internal/tui"
)

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a variant",
	Long: `Delete a variant's directory and its launcher.

On a terminal you are asked to confirm unless --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		name := args[0]
		yes, _ := cmd.Flags().GetBool("yes")
		if err := core.ValidateVariantName(name); err != nil {
			return err
		}

		if !yes && stdinIsTerminal() && stdoutIsTerminal() {
			ok, err := tui.Confirm(fmt.Sprintf("Remove variant %s?", name), os.Stdin, os.Stdout)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "Canceled.")
				return nil
			}
		}

		binDir := d.cfg.BinDir
		if meta, err := core.LoadVariantMeta(filepath.Join(d.cfg.Root, name)); err == nil && meta.BinDir != "" {
			binDir = meta.BinDir
		}
		if err := core.RemoveVariant(d.cfg.Root, name); err != nil {
			return err
		}
		launcher := core.WrapperPath(binDir, name)
		if err := os.Remove(launcher); err != nil && !os.IsNotExist(err) {
			d.log.Warn("removing launcher", "path", launcher, "error", err)
		}
		fmt.Fprintf(os.Stdout, "Removed: %s\n", name)
		return nil
	},
}

func init() {
	removeCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(removeCmd)
}
