package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/core"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that every variant's binary and launcher exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		report, err := core.Doctor(d.cfg.Root, d.cfg.BinDir)
		if err != nil {
			return err
		}
		if len(report) == 0 {
			fmt.Fprintf(os.Stdout, "No variants in %s\n", d.cfg.Root)
			return nil
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		unhealthy := 0
		for _, item := range report {
			if item.OK {
				fmt.Fprintf(os.Stdout, "%s %s\n", green("✓"), item.Name)
				continue
			}
			unhealthy++
			fmt.Fprintf(os.Stdout, "%s %s\n", red("✗"), item.Name)
			if item.BinaryPath == "" {
				fmt.Fprintln(os.Stdout, "    manifest missing or unreadable")
				continue
			}
			fmt.Fprintf(os.Stdout, "    binary:   %s\n", item.BinaryPath)
			fmt.Fprintf(os.Stdout, "    launcher: %s\n", item.WrapperPath)
		}
		if unhealthy > 0 {
			return fmt.Errorf("%d of %d variant(s) unhealthy; run 'ccmirror update <name>' to repair", unhealthy, len(report))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
