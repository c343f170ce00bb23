package mock

import (
	"context"

	"github.com/awisniewski/boxprice"
)

var (
	_ boxprice.PricePointService = (*PricePointService)(nil)
	_ boxprice.HistoryService    = (*HistoryService)(nil)
)

// PricePointService is a mock implementation of boxprice.PricePointService.
type PricePointService struct {
	RecordPricePointFn func(ctx context.Context, pp *boxprice.PricePoint) error
	FindPricePointsFn  func(ctx context.Context, filter boxprice.PricePointFilter) ([]*boxprice.PricePoint, error)
}

func (s *PricePointService) RecordPricePoint(ctx context.Context, pp *boxprice.PricePoint) error {
	return s.RecordPricePointFn(ctx, pp)
}

func (s *PricePointService) FindPricePoints(ctx context.Context, filter boxprice.PricePointFilter) ([]*boxprice.PricePoint, error) {
	return s.FindPricePointsFn(ctx, filter)
}

// HistoryService is a mock implementation of boxprice.HistoryService.
type HistoryService struct {
	RecordSnapshotFn func(ctx context.Context, snap *boxprice.PriceSnapshot) (*boxprice.PriceChange, error)
	HistoryFn        func(ctx context.Context, cigarID string) ([]*boxprice.PriceSnapshot, error)
	ChangesFn        func(ctx context.Context, cigarID string) ([]*boxprice.PriceChange, error)
	ReplaceCIDFn     func(ctx context.Context, oldCID, newCID string) (int64, error)
}

func (s *HistoryService) RecordSnapshot(ctx context.Context, snap *boxprice.PriceSnapshot) (*boxprice.PriceChange, error) {
	return s.RecordSnapshotFn(ctx, snap)
}

func (s *HistoryService) History(ctx context.Context, cigarID string) ([]*boxprice.PriceSnapshot, error) {
	return s.HistoryFn(ctx, cigarID)
}

func (s *HistoryService) Changes(ctx context.Context, cigarID string) ([]*boxprice.PriceChange, error) {
	return s.ChangesFn(ctx, cigarID)
}

func (s *HistoryService) ReplaceCID(ctx context.Context, oldCID, newCID string) (int64, error) {
	return s.ReplaceCIDFn(ctx, oldCID, newCID)
}
