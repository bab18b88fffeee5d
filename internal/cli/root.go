package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "productsapi",
	Short: "REST API for managing products",
	Long:  "productsapi serves a CRUD JSON API for products backed by GORM",
	// With no subcommand the API is served.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
