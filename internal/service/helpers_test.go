package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/kvstore"
	"storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// harness wires every service to one in-memory store
type harness struct {
	repos       *repository.Repositories
	uow         repository.UnitOfWork
	publisher   *recordingPublisher
	fulfillment *fulfillmentService
	catalog     *catalogService
	cart        *cartService
}

func newHarness() *harness {
	backend := kvstore.NewMemory()
	ns := repository.NewNamespaces("test")
	uow := repository.NewUnitOfWork(backend, ns)
	publisher := &recordingPublisher{}
	logger := zap.NewNop()

	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	orderSeq := 0

	fulfillment := NewFulfillmentService(uow, publisher, logger).(*fulfillmentService)
	fulfillment.now = clock.tick
	fulfillment.newID = func() string {
		orderSeq++
		return fmt.Sprintf("ORD%06d", orderSeq)
	}

	catalog := NewCatalogService(uow, logger).(*catalogService)
	catalog.now = clock.tick

	return &harness{
		repos:       repository.NewRepositories(backend, ns),
		uow:         uow,
		publisher:   publisher,
		fulfillment: fulfillment,
		catalog:     catalog,
		cart:        NewCartService(uow, logger).(*cartService),
	}
}

// fakeClock advances one minute per reading so timestamps are strictly ordered
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func (h *harness) seedProduct(t *testing.T, id string, price int64, stock int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.NewFromInt(price),
		Category: "Laptop",
		Stock:    stock,
	}
	require.NoError(t, h.repos.Products.Create(context.Background(), product))
	return product
}

func (h *harness) stockOf(t *testing.T, id string) int {
	t.Helper()
	product, err := h.repos.Products.FindByID(context.Background(), id)
	require.NoError(t, err)
	return product.Stock
}

func line(id string, quantity int) domain.CartItem {
	return domain.CartItem{Product: domain.Product{ID: id}, Quantity: quantity}
}

var buyer = domain.CustomerInfo{Name: "Lan", Phone: "0901 234 567", Address: "12 Le Loi, Hue"}
