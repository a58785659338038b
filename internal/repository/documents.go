package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/kvstore"
)

// Namespaces names the key of every document the storefront keeps
type Namespaces struct {
	Products   string
	Cart       string
	Categories string
	Orders     string
	Customers  string
	Auth       string
	Accounts   string
}

// NewNamespaces derives the namespace keys from a prefix such as "shop"
func NewNamespaces(prefix string) Namespaces {
	key := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + ":" + name
	}

	return Namespaces{
		Products:   key("products"),
		Cart:       key("cart"),
		Categories: key("categories"),
		Orders:     key("orders"),
		Customers:  key("customers"),
		Auth:       key("auth"),
		Accounts:   key("customer_accounts"),
	}
}

// loadList reads a JSON array document; a missing key is an empty list
func loadList[T any](ctx context.Context, store kvstore.Store, key string) ([]T, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}

	return items, nil
}

// saveList replaces a JSON array document wholesale
func saveList[T any](ctx context.Context, store kvstore.Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// loadDocument decodes a single JSON object; found is false when the key is absent
func loadDocument[T any](ctx context.Context, store kvstore.Store, key string) (doc *T, found bool, err error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	doc = new(T)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return doc, true, nil
}

func saveDocument(ctx context.Context, store kvstore.Store, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}
