package handlers

import (
	"errors"

	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Response bodies shared by the product routes.
const (
	MsgProductNotFound = "Producto no encontrado"
	MsgProductDeleted  = "Producto Eliminado"
	MsgInternalError   = "Error interno del servidor"
)

// DataResponse is the success envelope.
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// ErrorResponse is the envelope for not-found and server errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse is the envelope for rejected input.
type ValidationErrorResponse struct {
	Errors []validation.Violation `json:"errors"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the product routes under /products.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", middleware.ValidateParams(validation.IDRules()...), h.HandleGetProductByID)
	productRoutes.Post("/", middleware.Validate(validation.CreateRules()...), h.HandleCreateProduct)
	productRoutes.Put("/:id", middleware.Validate(validation.UpdateRules()...), h.HandleUpdateProduct)
	productRoutes.Patch("/:id", middleware.ValidateParams(validation.IDRules()...), h.HandleUpdateAvailability)
	productRoutes.Delete("/:id", middleware.ValidateParams(validation.IDRules()...), h.HandleDeleteProduct)
}

// HandleGetProducts returns every product, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(DataResponse[[]models.Product]{Data: products})
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := validation.ParseID(c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(DataResponse[*models.Product]{Data: product})
}

// HandleCreateProduct creates a product from the validated name and price.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	body := middleware.Body(c)
	price, _ := body.Float("price")

	product, err := h.service.CreateProduct(c.UserContext(), models.ProductInput{
		Name:  body.String("name"),
		Price: price,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(DataResponse[*models.Product]{Data: product})
}

// HandleUpdateProduct overwrites name, price and availability.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := validation.ParseID(c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}

	body := middleware.Body(c)
	price, _ := body.Float("price")
	availability, _ := body.Bool("availability")

	product, err := h.service.UpdateProduct(c.UserContext(), id, models.ProductInput{
		Name:         body.String("name"),
		Price:        price,
		Availability: availability,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(DataResponse[*models.Product]{Data: product})
}

// HandleUpdateAvailability flips the availability of a product. The body is ignored.
func (h *ProductHandler) HandleUpdateAvailability(c *fiber.Ctx) error {
	id, err := validation.ParseID(c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}

	product, err := h.service.ToggleAvailability(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(DataResponse[*models.Product]{Data: product})
}

// HandleDeleteProduct removes a product and confirms with a message.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := validation.ParseID(c.Params("id"))
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(DataResponse[string]{Data: MsgProductDeleted})
}

func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: MsgProductNotFound})
	}

	h.logger.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("product request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: MsgInternalError})
}
