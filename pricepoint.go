package boxprice

import "context"

// PricePoint records the cheapest delivered price observed for a SKU on a
// given day from a given source. Rows are append-or-replace per key per day.
type PricePoint struct {
	Day            string `json:"day"` // YYYY-MM-DD
	Brand          string `json:"brand"`
	Line           string `json:"line"`
	Size           string `json:"size"`
	Source         string `json:"source"` // "cheapest" or "retailer:<key>"
	DeliveredCents int64  `json:"deliveredCents"`
}

// SourceCheapest marks a price point derived from the cheapest offer across
// all retailers rather than a specific one.
const SourceCheapest = "cheapest"

// Validate returns an error if the price point is missing key fields.
func (p *PricePoint) Validate() error {
	if p.Day == "" {
		return Errorf(EINVALID, "price point day required")
	}
	if p.Brand == "" || p.Line == "" || p.Size == "" {
		return Errorf(EINVALID, "price point brand, line and size required")
	}
	if p.Source == "" {
		return Errorf(EINVALID, "price point source required")
	}
	return nil
}

// PricePointService owns PricePoint rows.
type PricePointService interface {
	// RecordPricePoint upserts a row for its (day, brand, line, size,
	// source) key via delete-then-insert.
	RecordPricePoint(ctx context.Context, pp *PricePoint) error

	// FindPricePoints retrieves price points matching the filter.
	FindPricePoints(ctx context.Context, filter PricePointFilter) ([]*PricePoint, error)
}

// PricePointFilter represents a filter for FindPricePoints.
type PricePointFilter struct {
	Day    *string `json:"day"`
	Brand  *string `json:"brand"`
	Line   *string `json:"line"`
	Size   *string `json:"size"`
	Source *string `json:"source"`
}

// PriceSnapshot is one day's observed price and stock for a CID at a
// retailer. Snapshots are keyed by (retailer, cigar_id, date).
type PriceSnapshot struct {
	Retailer   string `json:"retailer"`
	CigarID    string `json:"cigarId"`
	Date       string `json:"date"` // YYYY-MM-DD
	PriceCents int64  `json:"priceCents"`
	InStock    bool   `json:"inStock"`
	URL        string `json:"url"`
}

// Price change types recorded in the change log.
const (
	PriceChangeNew      = "new"
	PriceChangeIncrease = "increase"
	PriceChangeDecrease = "decrease"
)

// PriceChange is one entry in the price-delta change log.
type PriceChange struct {
	Retailer   string `json:"retailer"`
	CigarID    string `json:"cigarId"`
	Date       string `json:"date"`
	OldCents   int64  `json:"oldCents"`
	NewCents   int64  `json:"newCents"`
	ChangeType string `json:"changeType"`
}

// HistoryService owns the historical price store: an append-only daily
// snapshot table plus a change log of price deltas.
type HistoryService interface {
	// RecordSnapshot stores a snapshot (append-or-replace per key) and logs
	// the delta against the previous snapshot for the same retailer and
	// CID. Returns the change entry, or nil when the price is unchanged.
	RecordSnapshot(ctx context.Context, s *PriceSnapshot) (*PriceChange, error)

	// History returns all snapshots for a CID ordered by date.
	History(ctx context.Context, cigarID string) ([]*PriceSnapshot, error)

	// Changes returns the change log for a CID ordered by date.
	Changes(ctx context.Context, cigarID string) ([]*PriceChange, error)

	// ReplaceCID rewrites a CID in both the snapshot and change tables and
	// reports how many rows were touched. Used by the rename propagator.
	ReplaceCID(ctx context.Context, oldCID, newCID string) (int64, error)
}
