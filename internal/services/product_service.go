package services

import (
	"context"

	"productsapi/internal/models"
	"productsapi/internal/repositories"

	"github.com/rs/zerolog"
)

// Product event names.
const (
	EventProductCreated             = "product.created"
	EventProductUpdated             = "product.updated"
	EventProductAvailabilityToggled = "product.availability_toggled"
	EventProductDeleted             = "product.deleted"
)

// EventPublisher emits product events after successful mutations.
type EventPublisher interface {
	PublishProductEvent(ctx context.Context, event string, product *models.Product) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	log       zerolog.Logger
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log zerolog.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct persists a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.publish(ctx, EventProductCreated, product)
	return nil
}

// ProductChanges is the full replacement applied by UpdateProduct.
type ProductChanges struct {
	Name         string
	Price        float64
	Availability bool
}

// UpdateProduct overwrites name, price and availability of an existing
// product and returns the persisted state.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, changes ProductChanges) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = changes.Name
	product.Price = changes.Price
	product.Availability = changes.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, EventProductUpdated, product)
	return product, nil
}

// ToggleAvailability flips the availability flag of a product.
func (s *ProductService) ToggleAvailability(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Availability = !product.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, EventProductAvailabilityToggled, product)
	return product, nil
}

// DeleteProduct removes a product after checking that it exists.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, EventProductDeleted, product)
	return nil
}

// publish never fails the caller: the mutation is already committed.
func (s *ProductService) publish(ctx context.Context, event string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishProductEvent(ctx, event, product); err != nil {
		s.log.Warn().Err(err).Str("event", event).Uint("product_id", product.ID).Msg("failed to publish product event")
	}
}
