// Package cli implements the opostudy command-line interface: a serve command
// for the HTTP API plus offline tools for repairing diagrams, rendering them
// and listing the syllabus.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "opostudy",
		Short:        "Study assistant for Spanish public-administration exams",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd())
	root.AddCommand(newRepairCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newTopicsCmd())

	return root.ExecuteContext(ctx)
}
