package repository

import (
	"context"
	"errors"
	"testing"

	"pawprints/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestWithRetry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("recovers from a transient outage", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, func() error {
			calls++
			if calls == 1 {
				return models.NewStoreUnavailableError(errors.New("connection refused"))
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("gives up after the attempt limit", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, func() error {
			calls++
			return models.NewStoreUnavailableError(errors.New("connection refused"))
		})
		assert.True(t, models.IsCode(err, models.CodeStoreUnavailable))
		assert.Equal(t, readRetries+1, calls)
	})

	t.Run("does not retry logic errors", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, func() error {
			calls++
			return models.NewNotFoundError("Post", 1)
		})
		assert.True(t, models.IsNotFound(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		calls := 0
		err := withRetry(cancelled, func() error {
			calls++
			return models.NewStoreUnavailableError(errors.New("connection refused"))
		})
		assert.True(t, models.IsCode(err, models.CodeStoreUnavailable))
		assert.Equal(t, 1, calls)
	})
}
