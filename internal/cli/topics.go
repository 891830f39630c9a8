package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"opostudy/internal/syllabus"
)

func newTopicsCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List the syllabus topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := syllabus.Default()
			if path != "" {
				var err error
				catalog, err = syllabus.Load(path)
				if err != nil {
					return err
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBLOCK\tTITLE")
			for _, t := range catalog.Topics() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Block, t.Title)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "syllabus", "", "TOML syllabus file (default built-in catalog)")
	return cmd
}
