package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productsapi/internal/config"
	"productsapi/internal/database"
	"productsapi/internal/logger"
	"productsapi/internal/server"
	"productsapi/internal/services"
	"productsapi/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	// A failed bootstrap is logged and the server starts anyway.
	_ = database.Connect(ctx, db, log)

	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := startEvents(cfg.RabbitMQ, log)
		if err != nil {
			log.Error().Err(err).Msg("product events disabled")
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	app, err := server.New(server.Options{
		Config:    cfg,
		DB:        db,
		Logger:    log,
		Publisher: publisher,
	})
	if err != nil {
		return err
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Msg("starting server")
		listenErr <- app.Listen(cfg.Server.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-quit:
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}

// startEvents connects to RabbitMQ. With cfg.Consume set it also starts a
// consumer that writes every product event to the log.
func startEvents(cfg config.RabbitMQConfig, log zerolog.Logger) (*rabbitmq.Client, error) {
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.URL}, log)
	if err != nil {
		return nil, err
	}
	if err := consumeEvents(mqClient, cfg, log); err != nil {
		mqClient.Close()
		return nil, err
	}
	return mqClient, nil
}

// consumeEvents is a no-op unless cfg.Consume is set.
func consumeEvents(client *rabbitmq.Client, cfg config.RabbitMQConfig, log zerolog.Logger) error {
	if !cfg.Consume {
		return nil
	}
	if err := client.ConsumeProductEvents(logProductEvent(log)); err != nil {
		return err
	}
	log.Info().Str("queue", rabbitmq.ProductEventsQueue).Msg("logging product events")
	return nil
}

func logProductEvent(log zerolog.Logger) func(rabbitmq.ProductEvent) error {
	return func(event rabbitmq.ProductEvent) error {
		log.Info().
			Str("event", event.Event).
			Uint("product_id", event.ProductID).
			Time("occurred_at", event.OccurredAt).
			Msg("product event received")
		return nil
	}
}
