package repository

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	SaveAll(ctx context.Context, products []*domain.Product) error
}

type productRepository struct {
	store kvstore.Store
	key   string
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(store kvstore.Store, key string) ProductRepository {
	return &productRepository{store: store, key: key}
}

// List returns every product, newest first
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	return loadList[*domain.Product](ctx, r.store, r.key)
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, product := range products {
		if product.ID == id {
			return product, nil
		}
	}

	return nil, ErrProductNotFound
}

// Create prepends a product so that listings stay newest first
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}

	return r.SaveAll(ctx, append([]*domain.Product{product}, products...))
}

// Update replaces the stored product with the same ID
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}

	for i := range products {
		if products[i].ID == product.ID {
			products[i] = product
			return r.SaveAll(ctx, products)
		}
	}

	return ErrProductNotFound
}

// Delete removes a product by ID
func (r *productRepository) Delete(ctx context.Context, id string) error {
	products, err := r.List(ctx)
	if err != nil {
		return err
	}

	remaining := make([]*domain.Product, 0, len(products))
	for _, product := range products {
		if product.ID != id {
			remaining = append(remaining, product)
		}
	}

	if len(remaining) == len(products) {
		return ErrProductNotFound
	}

	return r.SaveAll(ctx, remaining)
}

func (r *productRepository) SaveAll(ctx context.Context, products []*domain.Product) error {
	return saveList(ctx, r.store, r.key, products)
}
