package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/core/brand"
	"github.com/ccmirror/ccmirror/internal/core/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List provider templates and brands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tLABEL\tBRAND\tDESCRIPTION")
		for _, t := range provider.List(all) {
			b := "-"
			if _, ok := brand.Get(t.Key); ok {
				b = t.Key
			}
			label := t.Label
			if t.Experimental {
				label += " (experimental)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Key, label, b, t.Description)
		}
		return w.Flush()
	},
}

func init() {
	providersCmd.Flags().Bool("all", false, "Include experimental providers")
	rootCmd.AddCommand(providersCmd)
}
