package repository

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("this phone number is already registered")
)

// AccountRepository defines the interface for shopper account data access
type AccountRepository interface {
	Create(ctx context.Context, account *domain.CustomerAccount) error
	FindByPhone(ctx context.Context, phone string) (*domain.CustomerAccount, error)
	List(ctx context.Context) ([]*domain.CustomerAccount, error)
}

type accountRepository struct {
	store kvstore.Store
	key   string
}

// NewAccountRepository creates a new instance of AccountRepository
func NewAccountRepository(store kvstore.Store, key string) AccountRepository {
	return &accountRepository{store: store, key: key}
}

// Create appends an account unless the phone is taken
func (r *accountRepository) Create(ctx context.Context, account *domain.CustomerAccount) error {
	accounts, err := r.List(ctx)
	if err != nil {
		return err
	}

	for _, existing := range accounts {
		if existing.Phone == account.Phone {
			return ErrAccountAlreadyExists
		}
	}

	return saveList(ctx, r.store, r.key, append(accounts, account))
}

// FindByPhone retrieves an account by its exact phone
func (r *accountRepository) FindByPhone(ctx context.Context, phone string) (*domain.CustomerAccount, error) {
	accounts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, account := range accounts {
		if account.Phone == phone {
			return account, nil
		}
	}

	return nil, ErrAccountNotFound
}

func (r *accountRepository) List(ctx context.Context) ([]*domain.CustomerAccount, error) {
	return loadList[*domain.CustomerAccount](ctx, r.store, r.key)
}
