package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

// CartService exposes the stored cart. GetCart, ReplaceCart and ClearCart
// apply no rules; the remaining helpers cap quantities at live stock.
type CartService interface {
	GetCart(ctx context.Context) ([]domain.CartItem, error)
	ReplaceCart(ctx context.Context, items []domain.CartItem) error
	ClearCart(ctx context.Context) error
	AddToCart(ctx context.Context, productID string) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, productID string, delta int) ([]domain.CartItem, error)
	RemoveFromCart(ctx context.Context, productID string) ([]domain.CartItem, error)
}

type cartService struct {
	uow    repository.UnitOfWork
	logger *zap.Logger
}

func NewCartService(uow repository.UnitOfWork, logger *zap.Logger) CartService {
	return &cartService{uow: uow, logger: logger.Named("cart")}
}

func (s *cartService) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		items, err = repos.Cart.Get(ctx)
		return err
	})
	return items, err
}

func (s *cartService) ReplaceCart(ctx context.Context, items []domain.CartItem) error {
	return s.uow.Do(ctx, func(repos *repository.Repositories) error {
		return repos.Cart.Save(ctx, items)
	})
}

func (s *cartService) ClearCart(ctx context.Context) error {
	return s.uow.Do(ctx, func(repos *repository.Repositories) error {
		return repos.Cart.Clear(ctx)
	})
}

// AddToCart adds one unit of the product, refusing once the cart already
// holds all of its stock.
func (s *cartService) AddToCart(ctx context.Context, productID string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		product, err := repos.Products.FindByID(ctx, productID)
		if err != nil {
			return err
		}

		items, err = repos.Cart.Get(ctx)
		if err != nil {
			return err
		}

		idx := indexOf(items, productID)
		inCart := 0
		if idx >= 0 {
			inCart = items[idx].Quantity
		}
		if inCart+1 > product.Stock {
			return fmt.Errorf("%w: only %d of %s left", ErrInsufficientStock, product.Stock, product.Name)
		}

		if idx >= 0 {
			items[idx].Quantity++
		} else {
			items = append(items, domain.NewCartItem(*product, 1))
		}

		return repos.Cart.Save(ctx, items)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateQuantity shifts a line's quantity by delta. Increases past live stock
// are refused and the quantity never drops below 1. Products missing from the
// cart leave it unchanged.
func (s *cartService) UpdateQuantity(ctx context.Context, productID string, delta int) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		items, err = repos.Cart.Get(ctx)
		if err != nil {
			return err
		}

		idx := indexOf(items, productID)
		if idx < 0 {
			return nil
		}

		if delta > 0 {
			product, err := repos.Products.FindByID(ctx, productID)
			switch {
			case errors.Is(err, repository.ErrProductNotFound):
			case err != nil:
				return err
			case items[idx].Quantity+delta > product.Stock:
				return fmt.Errorf("%w: only %d of %s left", ErrInsufficientStock, product.Stock, product.Name)
			}
		}

		items[idx].Quantity = max(1, items[idx].Quantity+delta)
		return repos.Cart.Save(ctx, items)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, productID string) ([]domain.CartItem, error) {
	var remaining []domain.CartItem
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		items, err := repos.Cart.Get(ctx)
		if err != nil {
			return err
		}

		remaining = make([]domain.CartItem, 0, len(items))
		for _, item := range items {
			if item.ID != productID {
				remaining = append(remaining, item)
			}
		}
		return repos.Cart.Save(ctx, remaining)
	})
	if err != nil {
		return nil, err
	}
	return remaining, nil
}

func indexOf(items []domain.CartItem, productID string) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}
