package boxprice

import (
	"context"
	"time"
)

// SKU represents one boxed-cigar product in the master catalog.
// The CID is derived once at creation and never changes through edits;
// only an explicit rename operation may change it.
type SKU struct {
	CID             string    `json:"cid"`
	Brand           string    `json:"brand"`
	ParentBrand     string    `json:"parentBrand"`
	Line            string    `json:"line"`
	Wrapper         string    `json:"wrapper"`
	WrapperAlias    string    `json:"wrapperAlias"`
	WrapperCode     string    `json:"wrapperCode"`
	Vitola          string    `json:"vitola"`
	Length          string    `json:"length"`
	RingGauge       string    `json:"ringGauge"`
	Binder          string    `json:"binder"`
	Filler          string    `json:"filler"`
	Strength        string    `json:"strength"`
	BoxQuantity     int       `json:"boxQuantity"`
	Style           string    `json:"style"`
	CountryOfOrigin string    `json:"countryOfOrigin"`
	Factory         string    `json:"factory"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Validate returns an error if the SKU is missing required fields.
func (s *SKU) Validate() error {
	if s.Brand == "" {
		return Errorf(EINVALID, "SKU brand required")
	}
	if s.Line == "" {
		return Errorf(EINVALID, "SKU line required")
	}
	if s.Vitola == "" {
		return Errorf(EINVALID, "SKU vitola required")
	}
	if s.BoxQuantity <= 0 {
		return Errorf(EINVALID, "SKU box quantity must be positive")
	}
	return nil
}

// Size returns the LENGTHxRING size string, or "" when either part is blank.
func (s *SKU) Size() string {
	if s.Length == "" || s.RingGauge == "" {
		return ""
	}
	return s.Length + "x" + s.RingGauge
}

// CIDAttrs returns the attribute tuple the SKU's CID is derived from.
func (s *SKU) CIDAttrs() CIDAttrs {
	return CIDAttrs{
		Brand:       s.Brand,
		ParentBrand: s.ParentBrand,
		Line:        s.Line,
		Vitola:      s.Vitola,
		Length:      s.Length,
		RingGauge:   s.RingGauge,
		Wrapper:     s.Wrapper,
		BoxQuantity: s.BoxQuantity,
	}
}

// CatalogService represents the authoritative store for SKU identity and
// attributes, keyed by CID.
type CatalogService interface {
	// CreateSKU generates the SKU's CID and persists it.
	// Returns ECONFLICT if the generated CID already exists.
	CreateSKU(ctx context.Context, sku *SKU) error

	// FindSKUByCID retrieves a SKU by CID.
	// Returns ENOTFOUND if the SKU does not exist.
	FindSKUByCID(ctx context.Context, cid string) (*SKU, error)

	// FindSKUs retrieves SKUs matching the filter.
	FindSKUs(ctx context.Context, filter SKUFilter) ([]*SKU, error)

	// UpdateSKU mutates every attribute except the CID and bumps updated_at.
	// Returns ENOTFOUND if the SKU does not exist.
	UpdateSKU(ctx context.Context, cid string, upd SKUUpdate) (*SKU, error)

	// RenameCID moves a SKU to a new CID. Storage-level step used by the
	// rename propagator; callers wanting cross-store propagation should use
	// the rename package instead.
	// Returns ENOTFOUND if oldCID is absent, ECONFLICT if newCID exists.
	RenameCID(ctx context.Context, oldCID, newCID string) error

	// Brands returns the distinct brand names known to the catalog.
	Brands(ctx context.Context) ([]string, error)

	// ExportSKUs returns the full catalog snapshot in export order.
	ExportSKUs(ctx context.Context) ([]*SKU, error)

	// Stats returns summary statistics about the catalog.
	Stats(ctx context.Context) (*CatalogStats, error)
}

// SKUFilter represents a filter for FindSKUs. String fields match as
// case-insensitive substrings.
type SKUFilter struct {
	Brand   *string `json:"brand"`
	Line    *string `json:"line"`
	Wrapper *string `json:"wrapper"`
	CID     *string `json:"cid"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SKUUpdate represents fields that can be updated on a SKU. The CID is
// deliberately absent: it is frozen once assigned.
type SKUUpdate struct {
	Brand           *string `json:"brand"`
	ParentBrand     *string `json:"parentBrand"`
	Line            *string `json:"line"`
	Wrapper         *string `json:"wrapper"`
	WrapperAlias    *string `json:"wrapperAlias"`
	Vitola          *string `json:"vitola"`
	Length          *string `json:"length"`
	RingGauge       *string `json:"ringGauge"`
	Binder          *string `json:"binder"`
	Filler          *string `json:"filler"`
	Strength        *string `json:"strength"`
	BoxQuantity     *int    `json:"boxQuantity"`
	Style           *string `json:"style"`
	CountryOfOrigin *string `json:"countryOfOrigin"`
	Factory         *string `json:"factory"`
	Notes           *string `json:"notes"`
}

// CatalogStats summarizes the master catalog.
type CatalogStats struct {
	TotalSKUs    int         `json:"totalSkus"`
	Brands       int         `json:"brands"`
	Lines        int         `json:"lines"`
	TopBrands    []NameCount `json:"topBrands"`
	WrapperCodes []NameCount `json:"wrapperCodes"`
}

// NameCount pairs a name with a row count.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
