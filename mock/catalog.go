package mock

import (
	"context"

	"github.com/awisniewski/boxprice"
)

var _ boxprice.CatalogService = (*CatalogService)(nil)

// CatalogService is a mock implementation of boxprice.CatalogService.
type CatalogService struct {
	CreateSKUFn    func(ctx context.Context, sku *boxprice.SKU) error
	FindSKUByCIDFn func(ctx context.Context, cid string) (*boxprice.SKU, error)
	FindSKUsFn     func(ctx context.Context, filter boxprice.SKUFilter) ([]*boxprice.SKU, error)
	UpdateSKUFn    func(ctx context.Context, cid string, upd boxprice.SKUUpdate) (*boxprice.SKU, error)
	RenameCIDFn    func(ctx context.Context, oldCID, newCID string) error
	BrandsFn       func(ctx context.Context) ([]string, error)
	ExportSKUsFn   func(ctx context.Context) ([]*boxprice.SKU, error)
	StatsFn        func(ctx context.Context) (*boxprice.CatalogStats, error)
}

func (s *CatalogService) CreateSKU(ctx context.Context, sku *boxprice.SKU) error {
	return s.CreateSKUFn(ctx, sku)
}

func (s *CatalogService) FindSKUByCID(ctx context.Context, cid string) (*boxprice.SKU, error) {
	return s.FindSKUByCIDFn(ctx, cid)
}

func (s *CatalogService) FindSKUs(ctx context.Context, filter boxprice.SKUFilter) ([]*boxprice.SKU, error) {
	return s.FindSKUsFn(ctx, filter)
}

func (s *CatalogService) UpdateSKU(ctx context.Context, cid string, upd boxprice.SKUUpdate) (*boxprice.SKU, error) {
	return s.UpdateSKUFn(ctx, cid, upd)
}

func (s *CatalogService) RenameCID(ctx context.Context, oldCID, newCID string) error {
	return s.RenameCIDFn(ctx, oldCID, newCID)
}

func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	return s.BrandsFn(ctx)
}

func (s *CatalogService) ExportSKUs(ctx context.Context) ([]*boxprice.SKU, error) {
	return s.ExportSKUsFn(ctx)
}

func (s *CatalogService) Stats(ctx context.Context) (*boxprice.CatalogStats, error) {
	return s.StatsFn(ctx)
}
