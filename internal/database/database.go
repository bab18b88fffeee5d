// Package database opens the GORM connection and runs the startup
// bootstrap (ping + schema sync).
package database

import (
	"context"
	"fmt"

	"productsapi/internal/config"
	"productsapi/internal/models"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Log messages emitted by Connect.
const (
	MsgConnected       = "CONECTADO A LA BASE DE DATOS"
	MsgConnectionError = "ERROR AL CONECTAR A LA BASE DE DATOS"
)

// Open creates a GORM handle for the configured driver. It does not touch
// the network; the first round-trip happens in Connect or on first query.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// Migrate syncs the schema of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Connect pings the database and syncs the schema. Failures are logged and
// returned, but callers at startup are expected to keep serving: the pool
// reconnects lazily once the database becomes reachable.
func Connect(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	err := connect(ctx, db)
	if err != nil {
		log.Error().Err(err).Msg(MsgConnectionError)
		return err
	}
	log.Info().Msg(MsgConnected)
	return nil
}

func connect(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return Migrate(db.WithContext(ctx))
}
