package repository

import (
	"context"
	"errors"
	"slices"

	"storefront/internal/kvstore"
)

var (
	ErrCategoryAlreadyExists = errors.New("category already exists")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	List(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
	Initialized(ctx context.Context) (bool, error)
	SaveAll(ctx context.Context, names []string) error
}

type categoryRepository struct {
	store kvstore.Store
	key   string
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(store kvstore.Store, key string) CategoryRepository {
	return &categoryRepository{store: store, key: key}
}

// List retrieves all categories in insertion order
func (r *categoryRepository) List(ctx context.Context) ([]string, error) {
	return loadList[string](ctx, r.store, r.key)
}

func (r *categoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	categories, err := r.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(categories, name), nil
}

// Create appends a category, rejecting exact duplicates
func (r *categoryRepository) Create(ctx context.Context, name string) error {
	categories, err := r.List(ctx)
	if err != nil {
		return err
	}

	if slices.Contains(categories, name) {
		return ErrCategoryAlreadyExists
	}

	return r.SaveAll(ctx, append(categories, name))
}

// Delete removes a category. Products that reference it are left untouched.
func (r *categoryRepository) Delete(ctx context.Context, name string) error {
	categories, err := r.List(ctx)
	if err != nil {
		return err
	}

	return r.SaveAll(ctx, slices.DeleteFunc(categories, func(c string) bool { return c == name }))
}

// Initialized reports whether the category document has ever been written
func (r *categoryRepository) Initialized(ctx context.Context) (bool, error) {
	_, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *categoryRepository) SaveAll(ctx context.Context, names []string) error {
	return saveList(ctx, r.store, r.key, names)
}
