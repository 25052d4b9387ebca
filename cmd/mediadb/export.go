package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/mediadb/internal/app"
)

var exportCmd = &cobra.Command{
	Use:   "export <partials.json>",
	Short: "Export vendor records as notes",
	Long: `Export reads a JSON array of partial records, each carrying a "type"
and the fields a vendor adapter filled in, and for every supported record:
1. Migrates it onto the current record model
2. Drops duplicates of the same data source and id
3. Applies the mapping model of its media type
4. Writes a note named after the configured file-name template
5. Stores the record in the database

Bodies of notes that already exist are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Initialize application
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		stats, err := application.Export(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d of %d records (%d duplicates, %d unsupported)\n",
			stats.Exported, stats.Total, stats.DupeCount, stats.Unsupported)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
