package repository

import (
	"context"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
)

// CartRepository stores the shopper's cart as one ordered list
type CartRepository interface {
	Get(ctx context.Context) ([]domain.CartItem, error)
	Save(ctx context.Context, items []domain.CartItem) error
	Clear(ctx context.Context) error
}

type cartRepository struct {
	store kvstore.Store
	key   string
}

func NewCartRepository(store kvstore.Store, key string) CartRepository {
	return &cartRepository{store: store, key: key}
}

func (r *cartRepository) Get(ctx context.Context) ([]domain.CartItem, error) {
	return loadList[domain.CartItem](ctx, r.store, r.key)
}

func (r *cartRepository) Save(ctx context.Context, items []domain.CartItem) error {
	return saveList(ctx, r.store, r.key, items)
}

// Clear drops the cart document entirely
func (r *cartRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
