package service

import (
	"context"
	"testing"

	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCatalogService_AddProduct(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	require.NoError(t, h.catalog.AddCategory(ctx, "Laptop"))

	first, err := h.catalog.AddProduct(ctx, ProductInput{Name: "ThinkPad T480", Price: decimal.NewFromInt(6_500_000), Category: "Laptop", Stock: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := h.catalog.AddProduct(ctx, ProductInput{Name: "Dell 7490", Price: decimal.NewFromInt(5_900_000), Category: "Laptop", Stock: 1})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	products, err := h.catalog.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, second.ID, products[0].ID)
}

func TestCatalogService_AddProductValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	require.NoError(t, h.catalog.AddCategory(ctx, "Laptop"))

	tests := []struct {
		name  string
		input ProductInput
		field string
	}{
		{"missing name", ProductInput{Price: decimal.NewFromInt(1), Category: "Laptop"}, "name"},
		{"negative stock", ProductInput{Name: "x", Category: "Laptop", Stock: -1}, "stock"},
		{"negative price", ProductInput{Name: "x", Category: "Laptop", Price: decimal.NewFromInt(-1)}, "price"},
		{"negative cost", ProductInput{Name: "x", Category: "Laptop", CostPrice: ptr(decimal.NewFromInt(-5))}, "cost_price"},
		{"unknown category", ProductInput{Name: "x", Category: "Tablet"}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.catalog.AddProduct(ctx, tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Violations[0].Field)
		})
	}

	products, err := h.catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalogService_UpdateProductMergesFields(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	require.NoError(t, h.catalog.AddCategory(ctx, "Laptop"))
	require.NoError(t, h.catalog.AddCategory(ctx, "Phone"))

	product, err := h.catalog.AddProduct(ctx, ProductInput{Name: "iPhone X", Price: decimal.NewFromInt(4_000_000), Category: "Laptop", Stock: 2, Description: "64GB"})
	require.NoError(t, err)

	require.NoError(t, h.catalog.UpdateProduct(ctx, product.ID, ProductPatch{
		Category: ptr("Phone"),
		Stock:    ptr(7),
	}))

	updated, err := h.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phone", updated.Category)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, "iPhone X", updated.Name)
	assert.Equal(t, "64GB", updated.Description)
	assert.Equal(t, product.ID, updated.ID)
	assert.True(t, updated.CreatedAt.Equal(product.CreatedAt))

	err = h.catalog.UpdateProduct(ctx, product.ID, ProductPatch{Category: ptr("Tablet")})
	assert.ErrorIs(t, err, ErrValidation)

	err = h.catalog.UpdateProduct(ctx, product.ID, ProductPatch{Stock: ptr(-1)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogService_MissingIDsAreSilent(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	assert.NoError(t, h.catalog.UpdateProduct(ctx, "missing", ProductPatch{Name: ptr("x")}))
	assert.NoError(t, h.catalog.DeleteProduct(ctx, "missing"))

	_, err := h.catalog.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestCatalogService_Categories(t *testing.T) {
	ctx := context.Background()
	h := newHarness()

	require.NoError(t, h.catalog.AddCategory(ctx, "Laptop"))
	assert.ErrorIs(t, h.catalog.AddCategory(ctx, "Laptop"), repository.ErrCategoryAlreadyExists)
	assert.ErrorIs(t, h.catalog.AddCategory(ctx, "  "), ErrValidation)

	product, err := h.catalog.AddProduct(ctx, ProductInput{Name: "T480", Category: "Laptop", Stock: 1})
	require.NoError(t, err)

	require.NoError(t, h.catalog.DeleteCategory(ctx, "Laptop"))

	categories, err := h.catalog.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	orphan, err := h.catalog.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop", orphan.Category)
}

func TestCatalogService_SearchProducts(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	require.NoError(t, h.catalog.AddCategory(ctx, "Laptop"))
	require.NoError(t, h.catalog.AddCategory(ctx, "Phone"))

	_, err := h.catalog.AddProduct(ctx, ProductInput{Name: "ThinkPad X1", Category: "Laptop", Description: "Carbon gen 6"})
	require.NoError(t, err)
	_, err = h.catalog.AddProduct(ctx, ProductInput{Name: "Pixel 4", Category: "Phone", Description: "carbon case included"})
	require.NoError(t, err)

	matches, err := h.catalog.SearchProducts(ctx, "CARBON", "")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = h.catalog.SearchProducts(ctx, "carbon", "Phone")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Pixel 4", matches[0].Name)

	matches, err = h.catalog.SearchProducts(ctx, "", "Laptop")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "ThinkPad X1", matches[0].Name)
}
