// Package config loads the service configuration from the environment.
//
// Values come from process environment variables, optionally seeded from a
// `.env` file in the working directory. Every key has a default so the
// service starts with no configuration at all, except when authentication
// is enabled, which requires a JWT secret.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the Fiber listen address, e.g. ":4000".
	Port string `validate:"required"`
	// FrontendURL is the only origin allowed by CORS. Empty disables CORS.
	FrontendURL string `validate:"omitempty,url"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver string `validate:"required,oneof=postgres sqlite"`
	URL    string `validate:"required"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=console json"`
}

// RabbitMQConfig holds the broker URL. Empty disables product events.
type RabbitMQConfig struct {
	URL string
	// Consume starts a consumer that logs every product event. Off by
	// default: the queue belongs to downstream subscribers.
	Consume bool
}

// AuthConfig holds JWT settings for the optional write protection.
type AuthConfig struct {
	Enabled   bool
	JWTSecret string `validate:"required_if=Enabled true"`
}

// Load reads configuration from `.env` (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("FRONTEND_URL", "")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=127.0.0.1 user=postgres password=postgres dbname=products port=5432 sslmode=disable")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_CONSUME", false)
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "")
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetString("APP_PORT"),
			FrontendURL: strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			URL:    v.GetString("DATABASE_URL"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		RabbitMQ: RabbitMQConfig{
			URL:     v.GetString("RABBITMQ_URL"),
			Consume: v.GetBool("RABBITMQ_CONSUME"),
		},
		Auth: AuthConfig{
			Enabled:   v.GetBool("AUTH_ENABLED"),
			JWTSecret: v.GetString("JWT_SECRET"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
