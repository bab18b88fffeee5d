package cli

import (
	"productsapi/internal/config"
	"productsapi/internal/database"
	"productsapi/internal/logger"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Sync the database schema",
	Long:  "Connects to the configured database and auto-migrates every model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(cfg.Log)

		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := database.Connect(cmd.Context(), db, log); err != nil {
			return err
		}
		log.Info().Str("driver", cfg.Database.Driver).Msg("schema migrated")
		return nil
	},
}
