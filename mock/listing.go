package mock

import (
	"context"

	"github.com/awisniewski/boxprice"
)

var (
	_ boxprice.ListingService     = (*ListingService)(nil)
	_ boxprice.IdentifierReplacer = (*IdentifierReplacer)(nil)
)

// ListingService is a mock implementation of boxprice.ListingService.
type ListingService struct {
	RetailersFn   func(ctx context.Context) ([]boxprice.Retailer, error)
	LoadFn        func(ctx context.Context, retailerKey string) ([]*boxprice.Listing, error)
	LoadAllFn     func(ctx context.Context) ([]*boxprice.Listing, error)
	ContentHashFn func(ctx context.Context, retailerKey string) (uint64, error)
}

func (s *ListingService) Retailers(ctx context.Context) ([]boxprice.Retailer, error) {
	return s.RetailersFn(ctx)
}

func (s *ListingService) Load(ctx context.Context, retailerKey string) ([]*boxprice.Listing, error) {
	return s.LoadFn(ctx, retailerKey)
}

func (s *ListingService) LoadAll(ctx context.Context) ([]*boxprice.Listing, error) {
	return s.LoadAllFn(ctx)
}

func (s *ListingService) ContentHash(ctx context.Context, retailerKey string) (uint64, error) {
	return s.ContentHashFn(ctx, retailerKey)
}

// IdentifierReplacer is a mock implementation of boxprice.IdentifierReplacer.
type IdentifierReplacer struct {
	CountIdentifierFn   func(ctx context.Context, retailerKey, cid string) (int, error)
	ReplaceIdentifierFn func(ctx context.Context, retailerKey, oldCID, newCID string) (int, error)
}

func (r *IdentifierReplacer) CountIdentifier(ctx context.Context, retailerKey, cid string) (int, error) {
	return r.CountIdentifierFn(ctx, retailerKey, cid)
}

func (r *IdentifierReplacer) ReplaceIdentifier(ctx context.Context, retailerKey, oldCID, newCID string) (int, error) {
	return r.ReplaceIdentifierFn(ctx, retailerKey, oldCID, newCID)
}
