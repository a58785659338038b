package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/kvstore"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepositories() *Repositories {
	return NewRepositories(kvstore.NewMemory(), NewNamespaces("test"))
}

// Creating and reading back a product preserves every attribute
func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, cents int64, image string, stock int) bool {
			ctx := context.Background()
			repos := newTestRepositories()

			cost := decimal.New(cents/2, -2)
			product := &domain.Product{
				ID:          uuid.NewString(),
				Name:        name,
				Description: description,
				Price:       decimal.New(cents, -2),
				CostPrice:   &cost,
				Category:    "Laptop",
				Image:       image,
				Stock:       stock,
				CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
			}

			if err := repos.Products.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			retrieved, err := repos.Products.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.ID != product.ID || retrieved.Name != product.Name ||
				retrieved.Description != product.Description || retrieved.Image != product.Image ||
				retrieved.Category != product.Category || retrieved.Stock != product.Stock {
				t.Logf("FAIL: attribute mismatch: %+v vs %+v", retrieved, product)
				return false
			}

			if !retrieved.Price.Equal(product.Price) {
				t.Logf("FAIL: Price mismatch. Expected %s, got %s", product.Price, retrieved.Price)
				return false
			}

			if retrieved.CostPrice == nil || !retrieved.CostPrice.Equal(cost) {
				t.Logf("FAIL: CostPrice mismatch")
				return false
			}

			return retrieved.CreatedAt.Equal(product.CreatedAt)
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{3,50}`),
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{10,200}`),
		gen.Int64Range(0, 99999999),
		gen.RegexMatch(`https?://[a-z0-9.-]+/[a-z0-9/._-]{1,50}`),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductRepository_NewestFirstAndMissingIDs(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepositories()

	first := &domain.Product{ID: "p1", Name: "First"}
	second := &domain.Product{ID: "p2", Name: "Second"}
	require.NoError(t, repos.Products.Create(ctx, first))
	require.NoError(t, repos.Products.Create(ctx, second))

	products, err := repos.Products.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p2", products[0].ID)
	assert.Equal(t, "p1", products[1].ID)

	assert.ErrorIs(t, repos.Products.Update(ctx, &domain.Product{ID: "nope"}), ErrProductNotFound)
	assert.ErrorIs(t, repos.Products.Delete(ctx, "nope"), ErrProductNotFound)

	require.NoError(t, repos.Products.Delete(ctx, "p1"))
	_, err = repos.Products.FindByID(ctx, "p1")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
