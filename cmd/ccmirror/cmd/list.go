package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ccmirror/ccmirror/internal/core"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List variants",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		entries, err := core.ListVariants(d.cfg.Root)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			metas := make([]*core.VariantMeta, 0, len(entries))
			for _, e := range entries {
				if e.Meta != nil {
					metas = append(metas, e.Meta)
				}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(metas)
		}

		if len(entries) == 0 {
			fmt.Fprintf(os.Stdout, "No variants in %s\n", d.cfg.Root)
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tPROVIDER\tVERSION\tTEAM MODE")
		for _, e := range entries {
			if e.Meta == nil {
				fmt.Fprintf(w, "%s\t-\t-\t- (no manifest)\n", e.Name)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Meta.Provider, e.Meta.NpmVersion, onOff(e.Meta.TeamModeEnabled))
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().Bool("json", false, "Print manifests as JSON")
	rootCmd.AddCommand(listCmd)
}
