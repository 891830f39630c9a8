package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"opostudy/internal/mermaid"
	"opostudy/internal/render"
)

func newRenderCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Repair a diagram and render it to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			source, err := readSource(args)
			if err != nil {
				return err
			}
			repaired := mermaid.Repair(source)

			svg, err := render.SVG(cmd.Context(), repaired)
			if err != nil {
				// The repaired text is the diagnostic artifact here: repair
				// never fails, so a render failure means it produced
				// something the renderer cannot digest.
				fmt.Fprintf(cmd.ErrOrStderr(), "repaired text that failed to render:\n%s\n", repaired)
				return fmt.Errorf("render: %w", err)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(svg)
				return err
			}
			if err := os.WriteFile(output, svg, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Info("rendered diagram", "output", output, "bytes", len(svg))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output SVG path (default stdout)")
	return cmd
}
