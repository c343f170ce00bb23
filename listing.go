package boxprice

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// DefaultBoxQty is assumed when a listing row omits its box quantity.
const DefaultBoxQty = 25

// FieldState reports how a raw text field survived parsing, so callers can
// react differently to "absent" and "unparseable".
type FieldState int

// Field states for Listing numeric fields.
const (
	FieldOK FieldState = iota
	FieldAbsent
	FieldInvalid
)

// Listing is one retailer's offer row for a product, produced by an external
// scraper. Listings are untrusted, possibly-stale, possibly-malformed input;
// raw text is converted to this typed record at a single parsing boundary
// before any other component touches it.
type Listing struct {
	Retailer     string `json:"retailer"`     // retailer key, e.g. "famous"
	RetailerName string `json:"retailerName"` // display name

	CigarID string `json:"cigarId"` // optional reference to a SKU's CID
	Title   string `json:"title"`
	URL     string `json:"url"`
	Brand   string `json:"brand"`
	Line    string `json:"line"`
	Wrapper string `json:"wrapper"`
	Vitola  string `json:"vitola"`
	Size    string `json:"size"`

	BoxQty      int        `json:"boxQty"`
	BoxQtyState FieldState `json:"-"`
	PriceCents  int64      `json:"priceCents"`
	PriceState  FieldState `json:"-"`
	InStock     bool       `json:"inStock"`
}

// Comparable reports whether the row carries enough data to take part in a
// price comparison: brand, line and size present, price parsed.
func (l *Listing) Comparable() bool {
	return l.Brand != "" && l.Line != "" && l.Size != "" && l.PriceState == FieldOK
}

// Retailer identifies one listing store.
type Retailer struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	Authorized bool   `json:"authorized"` // authorized-dealer status
}

// ListingService reads retailer listing stores.
type ListingService interface {
	// Retailers returns the known listing stores.
	Retailers(ctx context.Context) ([]Retailer, error)

	// Load reads every row of one retailer's store.
	// Returns ENOTFOUND if the store file is missing.
	Load(ctx context.Context, retailerKey string) ([]*Listing, error)

	// LoadAll reads every readable store; missing or malformed stores are
	// skipped rather than failing the whole read.
	LoadAll(ctx context.Context) ([]*Listing, error)

	// ContentHash returns a hash of the store's current raw bytes, used to
	// pin the exact revision an audit or rename scan observed.
	ContentHash(ctx context.Context, retailerKey string) (uint64, error)
}

// IdentifierReplacer rewrites CID references in a listing store. Matches are
// whole-token only: an identifier sharing a textual prefix with another must
// never be corrupted by a rename.
type IdentifierReplacer interface {
	// CountIdentifier counts whole-token occurrences of cid in a store.
	CountIdentifier(ctx context.Context, retailerKey, cid string) (int, error)

	// ReplaceIdentifier rewrites every whole-token occurrence of oldCID to
	// newCID and reports how many were replaced. Replacing an identifier
	// that is no longer present is a no-op, which makes a partially-applied
	// rename safe to re-run.
	ReplaceIdentifier(ctx context.Context, retailerKey, oldCID, newCID string) (int, error)
}

// NormalizeBlank maps blank-equivalent scraper output ("", "nan", "None")
// to the empty string for comparisons.
func NormalizeBlank(s string) string {
	s = strings.TrimSpace(s)
	if s == "nan" || s == "None" {
		return ""
	}
	return s
}

// ParseInStock interprets the boolean-ish in_stock column. Blank and the
// usual negatives read as out of stock; anything else is in stock.
func ParseInStock(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "0", "no", "":
		return false
	}
	return true
}

// ParsePriceCents converts a decimal currency string to cents.
func ParsePriceCents(s string) (int64, FieldState) {
	s = strings.TrimSpace(strings.TrimPrefix(NormalizeBlank(s), "$"))
	if s == "" {
		return 0, FieldAbsent
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, FieldInvalid
	}
	return int64(f*100 + 0.5), FieldOK
}

// ParseBoxQty converts a box quantity string, applying DefaultBoxQty when
// the field is absent.
func ParseBoxQty(s string) (int, FieldState) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultBoxQty, FieldAbsent
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, FieldInvalid
	}
	return n, FieldOK
}
