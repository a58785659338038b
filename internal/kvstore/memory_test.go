package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetMissingKey(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestUpdate_CommitsAllWritesTogether(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.NoError(t, store.Put(ctx, "gone", []byte(`"x"`)))

	err := Update(ctx, store, func(tx Store) error {
		if err := tx.Put(ctx, "a", []byte(`[1]`)); err != nil {
			return err
		}
		if err := tx.Put(ctx, "b", []byte(`[2]`)); err != nil {
			return err
		}
		if err := tx.Delete(ctx, "gone"); err != nil {
			return err
		}

		// staged writes are visible inside the callback only
		value, err := tx.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, `[1]`, string(value))

		_, err = store.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrKeyNotFound)

		_, err = tx.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		return nil
	})
	require.NoError(t, err)

	a, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(a))

	b, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(b))

	_, err = store.Get(ctx, "gone")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

// A failing callback leaves the backend exactly as it was
func TestProperty_FailedUpdateDiscardsWrites(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("no staged write survives a callback error", prop.ForAll(
		func(keys []string, value string) bool {
			ctx := context.Background()
			store := NewMemory()
			_ = store.Put(ctx, "seed", []byte(`"seed"`))

			boom := errors.New("boom")
			err := Update(ctx, store, func(tx Store) error {
				for _, key := range keys {
					_ = tx.Put(ctx, key, []byte(value))
				}
				_ = tx.Delete(ctx, "seed")
				return boom
			})
			if !errors.Is(err, boom) {
				return false
			}

			for _, key := range keys {
				if key == "seed" {
					continue
				}
				if _, err := store.Get(ctx, key); !errors.Is(err, ErrKeyNotFound) {
					return false
				}
			}

			seed, err := store.Get(ctx, "seed")
			return err == nil && string(seed) == `"seed"`
		},
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	value := []byte(`abc`)
	require.NoError(t, store.Put(ctx, "k", value))
	value[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}
