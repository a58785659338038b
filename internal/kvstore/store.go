// Package kvstore keeps JSON documents under namespace keys. Every document is
// read and written wholesale.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// Store is the read/write surface repositories work against
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Backend is a Store that can apply a batch of writes in one step
type Backend interface {
	Store
	Apply(ctx context.Context, batch *Batch) error
	Close() error
}

// Batch holds staged writes. A key is either in Puts or in Deletes, never both.
type Batch struct {
	Puts    map[string][]byte
	Deletes map[string]struct{}
}

// NewBatch creates an empty batch
func NewBatch() *Batch {
	return &Batch{
		Puts:    make(map[string][]byte),
		Deletes: make(map[string]struct{}),
	}
}

// Empty reports whether the batch holds no writes
func (b *Batch) Empty() bool {
	return len(b.Puts) == 0 && len(b.Deletes) == 0
}

// Update runs fn against a staging view of backend. Writes made by fn are only
// visible to fn until it returns nil, at which point they are applied as one
// batch. Any error from fn discards them.
func Update(ctx context.Context, backend Backend, fn func(tx Store) error) error {
	tx := &stagingTx{base: backend, batch: NewBatch()}

	if err := fn(tx); err != nil {
		return err
	}

	if tx.batch.Empty() {
		return nil
	}

	if err := backend.Apply(ctx, tx.batch); err != nil {
		return fmt.Errorf("failed to apply batch: %w", err)
	}

	return nil
}

type stagingTx struct {
	base  Store
	batch *Batch
}

func (t *stagingTx) Get(ctx context.Context, key string) ([]byte, error) {
	if _, deleted := t.batch.Deletes[key]; deleted {
		return nil, ErrKeyNotFound
	}
	if value, ok := t.batch.Puts[key]; ok {
		return clone(value), nil
	}
	return t.base.Get(ctx, key)
}

func (t *stagingTx) Put(ctx context.Context, key string, value []byte) error {
	delete(t.batch.Deletes, key)
	t.batch.Puts[key] = clone(value)
	return nil
}

func (t *stagingTx) Delete(ctx context.Context, key string) error {
	delete(t.batch.Puts, key)
	t.batch.Deletes[key] = struct{}{}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
