// Package docs serves the OpenAPI description of the product API.
package docs

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed openapi.json
var openAPI []byte

//go:embed index.html
var index []byte

// OpenAPI returns the embedded OpenAPI 3 document.
func OpenAPI() []byte {
	return openAPI
}

// RegisterRoutes serves the Swagger UI page at /docs and the document at /docs/openapi.json.
func RegisterRoutes(router fiber.Router) {
	docs := router.Group("/docs")
	docs.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(index)
	})
	docs.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Type("json", "utf-8")
		return c.Send(openAPI)
	})
}
