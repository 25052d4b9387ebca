package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/mediadb/internal/app"
)

var mappingsCmd = &cobra.Command{
	Use:     "mappings",
	Aliases: []string{"format"},
	Short:   "Generate or format the mapping file",
	Long: `Write the property mapping file. A missing file is created with the
default model of every media type. An existing file is rewritten in
canonical form: new exported keys are added, invalid rules are repaired
and conflicting renames are reset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Initialize application
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		models, err := application.GenerateMappings(cmd.Context())
		if err != nil {
			return fmt.Errorf("generate mappings failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d mapping models to %s\n", len(models), application.Config().MappingFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mappingsCmd)
}
