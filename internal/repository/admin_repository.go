package repository

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/kvstore"
)

var (
	ErrAdminCredentialNotFound = errors.New("admin credential not found")
)

// AdminRepository stores the single back-office credential
type AdminRepository interface {
	Get(ctx context.Context) (*domain.AdminCredential, error)
	Save(ctx context.Context, credential *domain.AdminCredential) error
}

type adminRepository struct {
	store kvstore.Store
	key   string
}

func NewAdminRepository(store kvstore.Store, key string) AdminRepository {
	return &adminRepository{store: store, key: key}
}

func (r *adminRepository) Get(ctx context.Context) (*domain.AdminCredential, error) {
	credential, found, err := loadDocument[domain.AdminCredential](ctx, r.store, r.key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrAdminCredentialNotFound
	}
	return credential, nil
}

func (r *adminRepository) Save(ctx context.Context, credential *domain.AdminCredential) error {
	return saveDocument(ctx, r.store, r.key, credential)
}
