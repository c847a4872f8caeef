package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// AllowedOrigin returns a predicate accepting only the configured origin.
// An empty configuration accepts nothing.
func AllowedOrigin(allowed string) func(origin string) bool {
	return func(origin string) bool {
		return allowed != "" && origin == allowed
	}
}

// CORS rejects requests whose Origin header does not match the configured
// origin and adds the CORS response headers for the accepted ones. Requests
// without an Origin header are not cross-origin and pass through.
func CORS(allowed string) fiber.Handler {
	isAllowed := AllowedOrigin(allowed)
	headers := cors.New(cors.Config{
		AllowOriginsFunc: isAllowed,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
	})

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" {
			return c.Next()
		}
		if !isAllowed(origin) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Error de CORS",
			})
		}
		return headers(c)
	}
}
