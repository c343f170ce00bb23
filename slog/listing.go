package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/awisniewski/boxprice"
)

// Ensure LoggingListingService implements boxprice.ListingService.
var _ boxprice.ListingService = (*LoggingListingService)(nil)

// LoggingListingService wraps a ListingService with debug logging.
type LoggingListingService struct {
	next   boxprice.ListingService
	logger *slog.Logger
}

// NewLoggingListingService creates a new LoggingListingService.
func NewLoggingListingService(next boxprice.ListingService, logger *slog.Logger) *LoggingListingService {
	return &LoggingListingService{next: next, logger: logger}
}

// Retailers delegates to the wrapped service.
func (s *LoggingListingService) Retailers(ctx context.Context) ([]boxprice.Retailer, error) {
	return s.next.Retailers(ctx)
}

// Load delegates to the wrapped service and logs the operation.
func (s *LoggingListingService) Load(ctx context.Context, retailerKey string) (listings []*boxprice.Listing, err error) {
	defer func(begin time.Time) {
		s.logger.Info("listing store load",
			"retailer", retailerKey,
			"count", len(listings),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx, retailerKey)
}

// LoadAll delegates to the wrapped service and logs the operation.
func (s *LoggingListingService) LoadAll(ctx context.Context) (listings []*boxprice.Listing, err error) {
	defer func(begin time.Time) {
		s.logger.Info("listing store load all",
			"count", len(listings),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadAll(ctx)
}

// ContentHash delegates to the wrapped service.
func (s *LoggingListingService) ContentHash(ctx context.Context, retailerKey string) (uint64, error) {
	return s.next.ContentHash(ctx, retailerKey)
}
