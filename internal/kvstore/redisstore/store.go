// Package redisstore implements kvstore.Backend on top of Redis strings.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/kvstore"

	"github.com/redis/go-redis/v9"
)

// Store keeps each namespace document in one Redis string key
type Store struct {
	client *redis.Client
}

// New wraps an existing client. The caller owns the client and closes it.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, kvstore.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Apply sends the batch inside MULTI/EXEC so readers never see half of it
func (s *Store) Apply(ctx context.Context, batch *kvstore.Batch) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range batch.Puts {
			pipe.Set(ctx, key, value, 0)
		}
		for key := range batch.Deletes {
			pipe.Del(ctx, key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to apply redis transaction: %w", err)
	}
	return nil
}

// Close is a no-op; the client is shared with other components
func (s *Store) Close() error {
	return nil
}
