package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"opostudy/internal/mermaid"
)

func newRepairCmd() *cobra.Command {
	var showIndex bool

	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Repair diagram text from a file or stdin",
		Long: `Repair normalizes generated Mermaid diagram text: strips code fences,
splits fused lines, anchors the graph declaration and removes characters
that break node labels. Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args)
			if err != nil {
				return err
			}

			repaired := mermaid.Repair(source)
			fmt.Fprintln(cmd.OutOrStdout(), repaired)

			if !showIndex {
				return nil
			}
			idx := mermaid.BuildIndex(repaired)
			dump := make(map[string]mermaid.Relations, len(idx.Nodes()))
			for _, id := range idx.Nodes() {
				dump[id] = mermaid.Relations{
					Children: idx.Children(id),
					Parents:  idx.Parents(id),
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(dump)
		},
	}
	cmd.Flags().BoolVar(&showIndex, "index", false, "also print the adjacency index as JSON")
	return cmd
}

func readSource(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return string(raw), nil
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(raw), nil
}
