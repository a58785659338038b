// Package pgstore implements kvstore.Backend on a PostgreSQL table of JSONB
// documents (see migrations/00001_create_kv_namespaces_table.sql).
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/kvstore"
)

// Store persists namespaces in the kv_namespaces table
type Store struct {
	db *sql.DB
}

// New creates a store over an open connection pool
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const (
	selectQuery = `SELECT value::text FROM kv_namespaces WHERE namespace = $1`
	upsertQuery = `
		INSERT INTO kv_namespaces (namespace, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (namespace) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	deleteQuery = `DELETE FROM kv_namespaces WHERE namespace = $1`
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Get retrieves a document using parameterized queries
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, selectQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kvstore.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read namespace %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	return put(ctx, s.db, key, value)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return remove(ctx, s.db, key)
}

// Apply writes the batch inside one SQL transaction
func (s *Store) Apply(ctx context.Context, batch *kvstore.Batch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range batch.Puts {
		if err := put(ctx, tx, key, value); err != nil {
			return err
		}
	}
	for key := range batch.Deletes {
		if err := remove(ctx, tx, key); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the underlying pool
func (s *Store) Close() error {
	return s.db.Close()
}

func put(ctx context.Context, db execer, key string, value []byte) error {
	if _, err := db.ExecContext(ctx, upsertQuery, key, string(value)); err != nil {
		return fmt.Errorf("failed to write namespace %s: %w", key, err)
	}
	return nil
}

func remove(ctx context.Context, db execer, key string) error {
	if _, err := db.ExecContext(ctx, deleteQuery, key); err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", key, err)
	}
	return nil
}
