package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const orderIDLength = 9

// ReorderResult is the merged cart plus how many historical lines made it in
type ReorderResult struct {
	Cart    []domain.CartItem `json:"cart"`
	Added   int               `json:"added"`
	Skipped int               `json:"skipped"`
}

// FulfillmentService owns the order lifecycle and keeps stock consistent with it
type FulfillmentService interface {
	Checkout(ctx context.Context, items []domain.CartItem, info domain.CustomerInfo) (*domain.Order, error)
	CheckoutCart(ctx context.Context, info domain.CustomerInfo) (*domain.Order, error)
	Confirm(ctx context.Context, orderID string) error
	Cancel(ctx context.Context, orderID string) error
	Reorder(ctx context.Context, order *domain.Order) (*ReorderResult, error)
	ListPendingOrders(ctx context.Context) ([]*domain.Order, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
	CustomerHistory(ctx context.Context, phone string) ([]*domain.Order, error)
}

type fulfillmentService struct {
	uow       repository.UnitOfWork
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewFulfillmentService creates a new instance of FulfillmentService
func NewFulfillmentService(uow repository.UnitOfWork, publisher events.Publisher, logger *zap.Logger) FulfillmentService {
	return &fulfillmentService{
		uow:       uow,
		publisher: publisher,
		logger:    logger.Named("fulfillment"),
		now:       time.Now,
		newID:     newOrderID,
	}
}

func newOrderID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:orderIDLength])
}

// Checkout validates stock for every line in one pass, then decrements stock
// and records a pending order in a single commit. The stored cart is untouched.
func (s *fulfillmentService) Checkout(ctx context.Context, items []domain.CartItem, info domain.CustomerInfo) (*domain.Order, error) {
	if err := validateCheckout(items, info); err != nil {
		return nil, err
	}

	var order *domain.Order
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		order, err = s.checkout(ctx, repos, items, info)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.TotalAmount.String()),
	)
	s.publish(ctx, events.OrderCreated, order)

	return order, nil
}

// CheckoutCart checks out whatever the stored cart holds and empties it in the
// same commit
func (s *fulfillmentService) CheckoutCart(ctx context.Context, info domain.CustomerInfo) (*domain.Order, error) {
	var order *domain.Order
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		items, err := repos.Cart.Get(ctx)
		if err != nil {
			return err
		}
		if err := validateCheckout(items, info); err != nil {
			return err
		}

		order, err = s.checkout(ctx, repos, items, info)
		if err != nil {
			return err
		}
		return repos.Cart.Clear(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cart checked out", zap.String("order_id", order.ID))
	s.publish(ctx, events.OrderCreated, order)

	return order, nil
}

func validateCheckout(items []domain.CartItem, info domain.CustomerInfo) error {
	if err := validateStruct(info); err != nil {
		return err
	}
	if len(items) == 0 {
		return invalidField("items", "Cart is empty")
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return invalidField("quantity", "Value must be greater than or equal to 1")
		}
	}
	return nil
}

func (s *fulfillmentService) checkout(ctx context.Context, repos *repository.Repositories, items []domain.CartItem, info domain.CustomerInfo) (*domain.Order, error) {
	products, err := repos.Products.List(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Several lines may name the same product; stock must cover their sum.
	requested := make(map[string]int, len(items))
	for _, item := range items {
		requested[item.ID] += item.Quantity
	}

	for id, quantity := range requested {
		product, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: product %s no longer exists", ErrInsufficientStock, id)
		}
		if product.Stock < quantity {
			return nil, fmt.Errorf("%w: %s has %d left, %d requested", ErrInsufficientStock, product.Name, product.Stock, quantity)
		}
	}

	lines := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.NewCartItem(*byID[item.ID], item.Quantity))
	}

	for id, quantity := range requested {
		byID[id].Stock -= quantity
	}
	if err := repos.Products.SaveAll(ctx, products); err != nil {
		return nil, err
	}

	id, err := s.uniqueOrderID(ctx, repos)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:              id,
		CustomerName:    info.Name,
		CustomerPhone:   info.Phone,
		ShippingAddress: info.Address,
		Items:           lines,
		TotalAmount:     domain.SumItems(lines),
		Status:          domain.OrderStatusPending,
		CreatedAt:       s.now(),
	}

	if err := repos.Orders.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *fulfillmentService) uniqueOrderID(ctx context.Context, repos *repository.Repositories) (string, error) {
	for {
		id := s.newID()
		_, err := repos.Orders.FindByID(ctx, id)
		if errors.Is(err, repository.ErrOrderNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// Confirm moves a pending order into its customer's history. Unknown ids are ignored.
func (s *fulfillmentService) Confirm(ctx context.Context, orderID string) error {
	var confirmed *domain.Order
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		completed := *order
		completed.Status = domain.OrderStatusCompleted

		phoneID := domain.NormalizePhone(completed.CustomerPhone)
		customer, err := repos.Customers.FindByID(ctx, phoneID)
		if errors.Is(err, repository.ErrCustomerNotFound) {
			customer = &domain.Customer{
				ID:         phoneID,
				Name:       completed.CustomerName,
				Phone:      completed.CustomerPhone,
				Address:    completed.ShippingAddress,
				TotalSpent: decimal.Zero,
			}
		} else if err != nil {
			return err
		}

		customer.TotalSpent = customer.TotalSpent.Add(completed.TotalAmount)
		customer.OrderCount++
		customer.History = append([]*domain.Order{&completed}, customer.History...)

		if completed.CreatedAt.After(customer.LastOrderDate) {
			customer.LastOrderDate = completed.CreatedAt
			customer.Name = completed.CustomerName
			customer.Address = completed.ShippingAddress
		}

		if err := repos.Customers.Save(ctx, customer); err != nil {
			return err
		}
		if err := repos.Orders.Delete(ctx, orderID); err != nil {
			return err
		}

		confirmed = &completed
		return nil
	})
	if errors.Is(err, repository.ErrOrderNotFound) {
		s.logger.Debug("Confirm ignored unknown order", zap.String("order_id", orderID))
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("Order confirmed",
		zap.String("order_id", orderID),
		zap.String("customer_id", domain.NormalizePhone(confirmed.CustomerPhone)),
	)
	s.publish(ctx, events.OrderConfirmed, confirmed)

	return nil
}

// Cancel returns a pending order's quantities to stock and deletes the order.
// Lines whose product has been deleted since are not restored.
func (s *fulfillmentService) Cancel(ctx context.Context, orderID string) error {
	var cancelled *domain.Order
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		products, err := repos.Products.List(ctx)
		if err != nil {
			return err
		}
		byID := make(map[string]*domain.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		for _, item := range order.Items {
			product, ok := byID[item.ID]
			if !ok {
				s.logger.Warn("Stock restoration lost for deleted product",
					zap.String("order_id", orderID),
					zap.String("product_id", item.ID),
					zap.Int("quantity", item.Quantity),
				)
				continue
			}
			product.Stock += item.Quantity
		}

		if err := repos.Products.SaveAll(ctx, products); err != nil {
			return err
		}
		if err := repos.Orders.Delete(ctx, orderID); err != nil {
			return err
		}

		cancelled = order
		return nil
	})
	if errors.Is(err, repository.ErrOrderNotFound) {
		s.logger.Debug("Cancel ignored unknown order", zap.String("order_id", orderID))
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("Order cancelled", zap.String("order_id", orderID))
	s.publish(ctx, events.OrderCancelled, cancelled)

	return nil
}

// Reorder merges a historical order into the stored cart. The cart is only
// written when at least one line could be added.
func (s *fulfillmentService) Reorder(ctx context.Context, order *domain.Order) (*ReorderResult, error) {
	var result ReorderResult
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		products, err := repos.Products.List(ctx)
		if err != nil {
			return err
		}
		cart, err := repos.Cart.Get(ctx)
		if err != nil {
			return err
		}

		result = MergeReorder(order, products, cart)
		if result.Added == 0 {
			return nil
		}
		return repos.Cart.Save(ctx, result.Cart)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Order reordered",
		zap.String("order_id", order.ID),
		zap.Int("added", result.Added),
		zap.Int("skipped", result.Skipped),
	)

	return &result, nil
}

// MergeReorder folds the lines of order into cart against the live catalog.
// A line is skipped when its product is gone or out of stock; otherwise the
// cart line takes the live product and a quantity capped at its stock.
// cart is not modified.
func MergeReorder(order *domain.Order, catalog []*domain.Product, cart []domain.CartItem) ReorderResult {
	live := make(map[string]*domain.Product, len(catalog))
	for _, p := range catalog {
		live[p.ID] = p
	}

	next := make([]domain.CartItem, len(cart))
	copy(next, cart)

	result := ReorderResult{}
	for _, line := range order.Items {
		product, ok := live[line.ID]
		if !ok || product.Stock <= 0 {
			result.Skipped++
			continue
		}

		idx := -1
		for i := range next {
			if next[i].ID == product.ID {
				idx = i
				break
			}
		}

		if idx >= 0 {
			next[idx] = domain.NewCartItem(*product, min(next[idx].Quantity+line.Quantity, product.Stock))
		} else {
			next = append(next, domain.NewCartItem(*product, min(line.Quantity, product.Stock)))
		}
		result.Added++
	}

	result.Cart = next
	return result
}

func (s *fulfillmentService) ListPendingOrders(ctx context.Context) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		orders, err = repos.Orders.List(ctx)
		return err
	})
	return orders, err
}

// ListCustomers returns customers with the most recent buyer first
func (s *fulfillmentService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		customers, err = repos.Customers.List(ctx)
		return err
	})
	return customers, err
}

// CustomerHistory merges the phone's pending orders with its completed
// history, newest first.
func (s *fulfillmentService) CustomerHistory(ctx context.Context, phone string) ([]*domain.Order, error) {
	var history []*domain.Order
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		pending, err := repos.Orders.List(ctx)
		if err != nil {
			return err
		}

		phoneID := domain.NormalizePhone(phone)
		for _, order := range pending {
			if domain.NormalizePhone(order.CustomerPhone) == phoneID {
				history = append(history, order)
			}
		}

		customer, err := repos.Customers.FindByPhone(ctx, phone)
		if err == nil {
			history = append(history, customer.History...)
		} else if !errors.Is(err, repository.ErrCustomerNotFound) {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})
	if history == nil {
		history = []*domain.Order{}
	}

	return history, nil
}

// publish runs after the commit; a failed publish never undoes the operation
func (s *fulfillmentService) publish(ctx context.Context, eventType events.EventType, order *domain.Order) {
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(eventType, order, s.now())); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("event", string(eventType)),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}
