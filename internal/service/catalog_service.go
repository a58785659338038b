package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductInput carries the editable attributes of a new product
type ProductInput struct {
	Name           string           `json:"name" validate:"required"`
	Price          decimal.Decimal  `json:"price"`
	CostPrice      *decimal.Decimal `json:"cost_price,omitempty"`
	Category       string           `json:"category" validate:"required"`
	Condition      string           `json:"condition,omitempty"`
	Description    string           `json:"description"`
	Specs          string           `json:"specs,omitempty"`
	WarrantyPeriod string           `json:"warranty_period,omitempty"`
	Image          string           `json:"image"`
	Stock          int              `json:"stock" validate:"gte=0"`
}

// ProductPatch is a partial update; nil fields are left as they are
type ProductPatch struct {
	Name           *string          `json:"name,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	CostPrice      *decimal.Decimal `json:"cost_price,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Condition      *string          `json:"condition,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Specs          *string          `json:"specs,omitempty"`
	WarrantyPeriod *string          `json:"warranty_period,omitempty"`
	Image          *string          `json:"image,omitempty"`
	Stock          *int             `json:"stock,omitempty"`
}

// CatalogService defines the interface for product and category management
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SearchProducts(ctx context.Context, query, category string) ([]*domain.Product, error)
	AddProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error
}

type catalogService struct {
	uow    repository.UnitOfWork
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(uow repository.UnitOfWork, logger *zap.Logger) CatalogService {
	return &catalogService{
		uow:    uow,
		logger: logger.Named("catalog"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		products, err = repos.Products.List(ctx)
		return err
	})
	return products, err
}

// GetProduct returns repository.ErrProductNotFound for unknown ids
func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product *domain.Product
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		product, err = repos.Products.FindByID(ctx, id)
		return err
	})
	return product, err
}

// SearchProducts matches query case-insensitively against name and
// description. An empty category matches every category.
func (s *catalogService) SearchProducts(ctx context.Context, query, category string) ([]*domain.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	matches := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		matches = append(matches, p)
	}

	return matches, nil
}

func (s *catalogService) AddProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := validateMoney(input.Price, input.CostPrice); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:             s.newID(),
		Name:           input.Name,
		Price:          input.Price,
		CostPrice:      input.CostPrice,
		Category:       input.Category,
		Condition:      input.Condition,
		Description:    input.Description,
		Specs:          input.Specs,
		WarrantyPeriod: input.WarrantyPeriod,
		Image:          input.Image,
		Stock:          input.Stock,
		CreatedAt:      s.now(),
	}

	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		if err := requireCategory(ctx, repos, product.Category); err != nil {
			return err
		}
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product added", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// UpdateProduct merges patch into the stored product. Unknown ids are ignored.
func (s *catalogService) UpdateProduct(ctx context.Context, id string, patch ProductPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return invalidField("name", "This field is required")
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return invalidField("stock", "Value must be greater than or equal to 0")
	}
	price := decimal.Zero
	if patch.Price != nil {
		price = *patch.Price
	}
	if err := validateMoney(price, patch.CostPrice); err != nil {
		return err
	}

	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		product, err := repos.Products.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Category != nil && *patch.Category != product.Category {
			if err := requireCategory(ctx, repos, *patch.Category); err != nil {
				return err
			}
		}

		applyPatch(product, patch)
		return repos.Products.Update(ctx, product)
	})
	if errors.Is(err, repository.ErrProductNotFound) {
		s.logger.Debug("Update ignored unknown product", zap.String("product_id", id))
		return nil
	}
	return err
}

func applyPatch(p *domain.Product, patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.CostPrice != nil {
		cost := *patch.CostPrice
		p.CostPrice = &cost
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Condition != nil {
		p.Condition = *patch.Condition
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Specs != nil {
		p.Specs = *patch.Specs
	}
	if patch.WarrantyPeriod != nil {
		p.WarrantyPeriod = *patch.WarrantyPeriod
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
}

// DeleteProduct removes a product. Unknown ids are ignored.
func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		return repos.Products.Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrProductNotFound) {
		s.logger.Debug("Delete ignored unknown product", zap.String("product_id", id))
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		categories, err = repos.Categories.List(ctx)
		return err
	})
	return categories, err
}

// AddCategory fails with repository.ErrCategoryAlreadyExists on duplicates
func (s *catalogService) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalidField("name", "This field is required")
	}

	return s.uow.Do(ctx, func(repos *repository.Repositories) error {
		return repos.Categories.Create(ctx, name)
	})
}

// DeleteCategory never touches products filed under name
func (s *catalogService) DeleteCategory(ctx context.Context, name string) error {
	return s.uow.Do(ctx, func(repos *repository.Repositories) error {
		return repos.Categories.Delete(ctx, name)
	})
}

func requireCategory(ctx context.Context, repos *repository.Repositories, name string) error {
	exists, err := repos.Categories.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return invalidField("category", "Unknown category")
	}
	return nil
}

func validateMoney(price decimal.Decimal, cost *decimal.Decimal) error {
	if price.IsNegative() {
		return invalidField("price", "Value must be greater than or equal to 0")
	}
	if cost != nil && cost.IsNegative() {
		return invalidField("cost_price", "Value must be greater than or equal to 0")
	}
	return nil
}
