package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/mediadb/internal/app"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Migrate stored records and rewrite their notes",
	Long: `Rebuild loads every record from the database, migrates it onto the
current record model, stores it back and rewrites its note.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Initialize application
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		stats, err := application.Rebuild(cmd.Context())
		if err != nil {
			return fmt.Errorf("rebuild failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %d of %d records\n", stats.Exported, stats.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}
