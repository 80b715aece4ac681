package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/apper-apps/scholar-array-protocol/internal/repository"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

// storeError classifies a record store failure. Missing rows become NOT_FOUND with notFound as
// message; anything else is a STORE_FAILURE that still unwraps to the original error.
func storeError(err error, notFound, failure string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, notFound)
	}
	return appErrors.StoreFailure(err, failure)
}

func invalid(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, message)
}

// cacheInvalidator drops cached aggregates after a write.
type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// invalidateDashboard drops cached dashboard aggregates. Cache faults never fail the write.
func invalidateDashboard(ctx context.Context, cache cacheInvalidator, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, DashboardCachePattern); err != nil {
		logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}
