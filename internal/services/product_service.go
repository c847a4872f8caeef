package services

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog/internal/metrics"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/rs/zerolog"
)

// Routing keys of product change events.
const (
	EventProductCreated      = "product.created"
	EventProductUpdated      = "product.updated"
	EventProductAvailability = "product.availability"
	EventProductDeleted      = "product.deleted"
)

// EventPublisher sends product change events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ListProducts retrieves all products, newest first.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, repositories.ErrProductNotFound)
	}
	return s.repo.GetByID(ctx, uint(id))
}

// CreateProduct persists a new, available product.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:         input.Name,
		Price:        input.Price,
		Availability: true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	s.publish(EventProductCreated, product)
	return product, nil
}

// UpdateProduct overwrites name, price and availability of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input models.ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	product.Availability = input.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.WithLabelValues(metrics.UpdateFull).Inc()
	s.publish(EventProductUpdated, product)
	return product, nil
}

// ToggleAvailability flips the availability of an existing product.
func (s *ProductService) ToggleAvailability(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Availability = !product.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.WithLabelValues(metrics.UpdateAvailability).Inc()
	s.publish(EventProductAvailability, product)
	return product, nil
}

// DeleteProduct permanently removes an existing product.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return err
	}

	metrics.ProductsDeleted.Inc()
	s.publish(EventProductDeleted, product)
	return nil
}

// publish never fails the caller; the write has already been committed.
func (s *ProductService) publish(routingKey string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(product)
	if err != nil {
		s.logger.Error().Err(err).Uint("product_id", product.ID).Msg("failed to marshal product event")
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		s.logger.Warn().Err(err).
			Str("routing_key", routingKey).
			Uint("product_id", product.ID).
			Msg("failed to publish product event")
		return
	}
	s.logger.Debug().Str("routing_key", routingKey).Uint("product_id", product.ID).Msg("product event published")
}
