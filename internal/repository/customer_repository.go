package repository

import (
	"context"
	"errors"
	"sort"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
)

// CustomerRepository holds customer profiles keyed by normalised phone
type CustomerRepository interface {
	List(ctx context.Context) ([]*domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	Save(ctx context.Context, customer *domain.Customer) error
}

type customerRepository struct {
	store kvstore.Store
	key   string
}

func NewCustomerRepository(store kvstore.Store, key string) CustomerRepository {
	return &customerRepository{store: store, key: key}
}

// List returns customers with the most recent buyer first
func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := loadList[*domain.Customer](ctx, r.store, r.key)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].LastOrderDate.After(customers[j].LastOrderDate)
	})

	return customers, nil
}

func (r *customerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	customers, err := loadList[*domain.Customer](ctx, r.store, r.key)
	if err != nil {
		return nil, err
	}

	for _, customer := range customers {
		if customer.ID == id {
			return customer, nil
		}
	}

	return nil, ErrCustomerNotFound
}

// FindByPhone matches either the raw phone or the normalised ID
func (r *customerRepository) FindByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	customers, err := loadList[*domain.Customer](ctx, r.store, r.key)
	if err != nil {
		return nil, err
	}

	id := domain.NormalizePhone(phone)
	for _, customer := range customers {
		if customer.Phone == phone || customer.ID == id {
			return customer, nil
		}
	}

	return nil, ErrCustomerNotFound
}

// Save replaces the customer with the same ID or appends a new one
func (r *customerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	customers, err := loadList[*domain.Customer](ctx, r.store, r.key)
	if err != nil {
		return err
	}

	replaced := false
	for i := range customers {
		if customers[i].ID == customer.ID {
			customers[i] = customer
			replaced = true
			break
		}
	}
	if !replaced {
		customers = append(customers, customer)
	}

	return saveList(ctx, r.store, r.key, customers)
}
