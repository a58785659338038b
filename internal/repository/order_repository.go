package repository

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository is the ledger of pending orders, newest first
type OrderRepository interface {
	List(ctx context.Context) ([]*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Delete(ctx context.Context, id string) error
}

type orderRepository struct {
	store kvstore.Store
	key   string
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(store kvstore.Store, key string) OrderRepository {
	return &orderRepository{store: store, key: key}
}

func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return loadList[*domain.Order](ctx, r.store, r.key)
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	orders, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		if order.ID == id {
			return order, nil
		}
	}

	return nil, ErrOrderNotFound
}

// Create prepends the order; readers rely on newest-first ordering
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	orders, err := r.List(ctx)
	if err != nil {
		return err
	}

	return saveList(ctx, r.store, r.key, append([]*domain.Order{order}, orders...))
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	orders, err := r.List(ctx)
	if err != nil {
		return err
	}

	remaining := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.ID != id {
			remaining = append(remaining, order)
		}
	}

	if len(remaining) == len(orders) {
		return ErrOrderNotFound
	}

	return saveList(ctx, r.store, r.key, remaining)
}
