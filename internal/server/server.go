// Package server assembles the Fiber application: global middleware,
// CORS, docs, metrics and the API routes.
package server

import (
	"fmt"
	"time"

	"productsapi/internal/config"
	"productsapi/internal/docs"
	"productsapi/internal/handlers"
	"productsapi/internal/middleware"
	"productsapi/internal/repositories"
	"productsapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// MsgAPI is the body of GET /api.
const MsgAPI = "Desde API"

// Options are the dependencies of the application.
type Options struct {
	Config *config.Config
	DB     *gorm.DB
	Logger zerolog.Logger
	// Publisher receives product events; nil disables them.
	Publisher services.EventPublisher
}

// New builds the Fiber application. It never touches the database.
func New(opts Options) (*fiber.App, error) {
	cfg := opts.Config
	log := opts.Logger

	app := fiber.New(fiber.Config{
		AppName:               "productsapi",
		ErrorHandler:          middleware.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	metrics := middleware.NewMetrics()
	app.Use(metrics.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	if cfg.Server.FrontendURL != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.FrontendURL,
		}))
	}

	productRepo := repositories.NewGORMProductRepository(opts.DB)
	productService := services.NewProductService(productRepo, opts.Publisher, log)

	api := app.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": MsgAPI})
	})

	var protect fiber.Handler
	if cfg.Auth.Enabled {
		userRepo := repositories.NewGORMUserRepository(opts.DB)
		authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret)
		handlers.NewAuthHandler(authService, log).RegisterRoutes(api)
		protect = middleware.AuthRequired(authService, log)
	}
	handlers.NewProductHandler(productService, protect).RegisterRoutes(api)

	docsHandler, err := docs.NewHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to load API docs: %w", err)
	}
	docsHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", metrics.Handler())

	return app, nil
}
