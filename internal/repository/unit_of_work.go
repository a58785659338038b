package repository

import (
	"context"
	"sync"

	"storefront/internal/kvstore"
)

// Repositories bundles every repository bound to the same store view
type Repositories struct {
	Products   ProductRepository
	Categories CategoryRepository
	Cart       CartRepository
	Orders     OrderRepository
	Customers  CustomerRepository
	Accounts   AccountRepository
	Admin      AdminRepository
}

// NewRepositories binds all repositories to store
func NewRepositories(store kvstore.Store, ns Namespaces) *Repositories {
	return &Repositories{
		Products:   NewProductRepository(store, ns.Products),
		Categories: NewCategoryRepository(store, ns.Categories),
		Cart:       NewCartRepository(store, ns.Cart),
		Orders:     NewOrderRepository(store, ns.Orders),
		Customers:  NewCustomerRepository(store, ns.Customers),
		Accounts:   NewAccountRepository(store, ns.Accounts),
		Admin:      NewAdminRepository(store, ns.Auth),
	}
}

// UnitOfWork runs read-modify-write sequences that span several namespaces
type UnitOfWork interface {
	// Do calls fn with repositories whose writes are committed together when
	// fn returns nil and dropped otherwise. Calls never interleave.
	Do(ctx context.Context, fn func(repos *Repositories) error) error
}

type unitOfWork struct {
	mu      sync.Mutex
	backend kvstore.Backend
	ns      Namespaces
}

// NewUnitOfWork creates a UnitOfWork over backend
func NewUnitOfWork(backend kvstore.Backend, ns Namespaces) UnitOfWork {
	return &unitOfWork{backend: backend, ns: ns}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(repos *Repositories) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	return kvstore.Update(ctx, u.backend, func(tx kvstore.Store) error {
		return fn(NewRepositories(tx, u.ns))
	})
}
