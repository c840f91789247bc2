// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"pawprints/internal/models"
	"pawprints/internal/observability"

	"go.opentelemetry.io/otel/codes"
)

// queryTimeout bounds every repository call so a stalled database
// cannot hold request goroutines indefinitely.
const queryTimeout = 5 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

const (
	readRetries  = 2
	retryBackoff = 100 * time.Millisecond
)

// observeQuery opens a repository span and a latency timer for one store
// call. The returned finish must be called with the call's final error.
func observeQuery(ctx context.Context, metrics *observability.DatabaseMetrics, method, table string) (context.Context, func(error)) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, method, table)
	stop := metrics.TrackQuery(method, table)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		stop()
	}
}

// withRetry re-runs fn while the store looks unavailable, up to readRetries
// extra attempts with doubling backoff. Only idempotent reads go through
// here; writes are never retried.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || attempt >= readRetries ||
			!models.IsCode(err, models.CodeStoreUnavailable) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(retryBackoff << attempt):
		}
	}
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// isTransientError reports whether the error looks like a connectivity
// problem rather than a logic error, so callers can surface 503 instead
// of 500.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "i/o timeout")
}

// wrapStoreError classifies a raw gorm error into the application error
// taxonomy. Callers handle gorm.ErrRecordNotFound and unique violations
// before reaching here.
func wrapStoreError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if isTransientError(err) {
		return models.NewStoreUnavailableError(err)
	}
	return models.NewInternalError(err)
}
