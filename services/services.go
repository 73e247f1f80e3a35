// Package services holds the business operations of the back office: the
// menu catalog and the order lifecycle. Every error it returns is a
// *utils.AppError.
package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-backoffice/models"
	"github.com/yeremiapane/restaurant-backoffice/repository"
	"github.com/yeremiapane/restaurant-backoffice/utils"
)

// ReportCache keeps a computed top sellers report for a short while. Any
// write that can change the report drops it and moves the cache to a new
// generation. A miss hands out the current generation, and a report computed
// after that miss is only kept if the generation has not moved since.
type ReportCache interface {
	LoadTopSellers(ctx context.Context) (sellers []models.TopSeller, generation int64, ok bool, err error)
	StoreTopSellers(ctx context.Context, generation int64, sellers []models.TopSeller) error
	InvalidateReports(ctx context.Context) error
}

// lookupError turns a repository failure into NotFound when the record is
// missing and Unexpected otherwise.
func lookupError(err error, notFound, failure string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound("%s", notFound)
	}
	return utils.Unexpected(failure, err)
}

func invalidateReports(ctx context.Context, cache ReportCache) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateReports(ctx); err != nil {
		utils.ErrorLogger.WithError(err).Warn("Failed to invalidate report cache")
	}
}

func logFields(fields logrus.Fields) *logrus.Entry {
	return utils.InfoLogger.WithFields(fields)
}
