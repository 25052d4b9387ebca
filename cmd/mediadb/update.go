package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/mediadb/internal/app"
)

var updateCmd = &cobra.Command{
	Use:   "update [notes-dir]",
	Short: "Re-render the front matter of existing notes",
	Long: `Update reads every markdown note under notes-dir (the notes directory of
the output directory by default), turns its front matter back into a record
and rewrites it with the current record model and mapping. Note bodies and
properties the record does not know about are kept. Notes without a
supported "type" are left untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var notesDir string
		if len(args) > 0 {
			notesDir = args[0]
		}

		// Initialize application
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		stats, err := application.Update(cmd.Context(), notesDir)
		if err != nil {
			return fmt.Errorf("update failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Updated %d of %d notes (%d skipped, %d unsupported)\n",
			stats.Updated, stats.Total, stats.Skipped, stats.Unsupported)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
