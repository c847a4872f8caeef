// Package app assembles the HTTP application from its collaborators.
package app

import (
	"errors"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/docs"
	"catalog/internal/handlers"
	"catalog/internal/metrics"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const healthPingTimeout = 2 * time.Second

// Options carries the collaborators NewApp wires together.
type Options struct {
	Config *config.Config
	DB     *gorm.DB
	// Publisher is optional; nil disables product events.
	Publisher services.EventPublisher
	Logger    zerolog.Logger
	// DisableRequestLog turns off the per-request access log.
	DisableRequestLog bool
}

// NewApp builds the Fiber application serving the product API.
func NewApp(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "catalog",
		ErrorHandler: errorHandler(opts.Logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	if !opts.DisableRequestLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	app.Use(middleware.CORS(opts.Config.CORS.AllowedOrigin))
	app.Use(metrics.Middleware())

	productRepo := repositories.NewGORMProductRepository(opts.DB)
	productService := services.NewProductService(productRepo, opts.Publisher, opts.Logger)
	productHandler := handlers.NewProductHandler(productService, opts.Logger)

	api := app.Group("/api")
	productHandler.RegisterRoutes(api)

	docs.RegisterRoutes(app)
	app.Get("/metrics", metrics.Handler())
	app.Get("/health", healthHandler(opts.DB))

	return app
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := database.Ping(c.UserContext(), db, healthPingTimeout); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "degraded",
				"database": "unreachable",
				"time":     time.Now().Format(time.RFC3339),
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"database": "connected",
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}

func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := handlers.MsgInternalError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled request error")
		}
		return c.Status(code).JSON(handlers.ErrorResponse{Error: message})
	}
}
