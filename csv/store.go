// Package csv provides file-based retailer listing stores. Each retailer
// publishes one flat CSV file; rows are converted to typed listings at this
// single parsing boundary before any other component touches them.
package csv

import (
	"context"
	stdcsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/awisniewski/boxprice"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
)

// Compile-time interface verification.
var (
	_ boxprice.ListingService     = (*Store)(nil)
	_ boxprice.IdentifierReplacer = (*Store)(nil)
)

// Store reads and rewrites retailer listing files under a data directory.
type Store struct {
	dir       string
	retailers []boxprice.Retailer
}

// NewStore creates a Store over the given directory. When the retailer
// registry is empty, stores are discovered by globbing the directory;
// backup files are always excluded.
func NewStore(dir string, retailers []boxprice.Retailer) *Store {
	return &Store{dir: dir, retailers: retailers}
}

// Retailers returns the known listing stores.
func (s *Store) Retailers(ctx context.Context) ([]boxprice.Retailer, error) {
	if len(s.retailers) > 0 {
		return s.retailers, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(s.dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob listing stores: %w", err)
	}

	var out []boxprice.Retailer
	for _, path := range matches {
		base := filepath.Base(path)
		if strings.Contains(base, "backup") {
			continue
		}
		key := strings.TrimSuffix(base, ".csv")
		out = append(out, boxprice.Retailer{Key: key, Name: key, Path: path})
	}
	return out, nil
}

// Load reads every row of one retailer's store into typed listings.
func (s *Store) Load(ctx context.Context, retailerKey string) ([]*boxprice.Listing, error) {
	r, err := s.retailer(ctx, retailerKey)
	if err != nil {
		return nil, err
	}

	header, records, err := readFile(r.Path)
	if err != nil {
		return nil, err
	}

	listings := make([]*boxprice.Listing, 0, len(records))
	for _, row := range records {
		l := &boxprice.Listing{
			Retailer:     r.Key,
			RetailerName: r.Name,
			CigarID:      strings.TrimSpace(cell(header, row, "cigar_id")),
			Title:        boxprice.NormalizeBlank(cell(header, row, "title")),
			URL:          boxprice.NormalizeBlank(cell(header, row, "url")),
			Brand:        boxprice.NormalizeBlank(cell(header, row, "brand")),
			Line:         boxprice.NormalizeBlank(cell(header, row, "line")),
			Wrapper:      boxprice.NormalizeBlank(cell(header, row, "wrapper")),
			Vitola:       boxprice.NormalizeBlank(cell(header, row, "vitola")),
			Size:         boxprice.NormalizeBlank(cell(header, row, "size")),
			InStock:      boxprice.ParseInStock(cell(header, row, "in_stock")),
		}
		l.BoxQty, l.BoxQtyState = boxprice.ParseBoxQty(cell(header, row, "box_qty"))
		l.PriceCents, l.PriceState = boxprice.ParsePriceCents(cell(header, row, "price"))
		listings = append(listings, l)
	}
	return listings, nil
}

// LoadAll reads every readable store. Missing or malformed stores are
// skipped; a retailer without a file simply contributes no listings.
func (s *Store) LoadAll(ctx context.Context) ([]*boxprice.Listing, error) {
	retailers, err := s.Retailers(ctx)
	if err != nil {
		return nil, err
	}

	var all []*boxprice.Listing
	for _, r := range retailers {
		listings, err := s.Load(ctx, r.Key)
		if err != nil {
			continue
		}
		all = append(all, listings...)
	}
	return all, nil
}

// ContentHash returns the xxhash of the store's raw bytes.
func (s *Store) ContentHash(ctx context.Context, retailerKey string) (uint64, error) {
	r, err := s.retailer(ctx, retailerKey)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(r.Path)
	if os.IsNotExist(err) {
		return 0, boxprice.Errorf(boxprice.ENOTFOUND, "listing store %q not found", retailerKey)
	}
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// CountIdentifier counts whole-token occurrences of cid in a store.
func (s *Store) CountIdentifier(ctx context.Context, retailerKey, cid string) (int, error) {
	r, err := s.retailer(ctx, retailerKey)
	if err != nil {
		return 0, err
	}
	records, err := readRaw(r.Path)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range records {
		for _, field := range row {
			if field == cid {
				count++
			}
		}
	}
	return count, nil
}

// ReplaceIdentifier rewrites every field exactly equal to oldCID. The match
// is whole-token: two CIDs sharing a textual prefix never corrupt each
// other. The rewritten file is committed atomically via rename, and a file
// with no remaining references is left untouched, so re-running a partial
// rename is safe.
func (s *Store) ReplaceIdentifier(ctx context.Context, retailerKey, oldCID, newCID string) (int, error) {
	r, err := s.retailer(ctx, retailerKey)
	if err != nil {
		return 0, err
	}
	records, err := readRaw(r.Path)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range records {
		for i, field := range row {
			if field == oldCID {
				row[i] = newCID
				count++
			}
		}
	}
	if count == 0 {
		return 0, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.Path), filepath.Base(r.Path)+".tmp*")
	if err != nil {
		return 0, err
	}
	w := stdcsv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), r.Path); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return count, nil
}

func (s *Store) retailer(ctx context.Context, key string) (boxprice.Retailer, error) {
	retailers, err := s.Retailers(ctx)
	if err != nil {
		return boxprice.Retailer{}, err
	}
	for _, r := range retailers {
		if r.Key == key {
			return r, nil
		}
	}
	return boxprice.Retailer{}, boxprice.Errorf(boxprice.ENOTFOUND, "unknown retailer %q", key)
}

// readFile reads a store into a header index and its data rows.
func readFile(path string) (map[string]int, [][]string, error) {
	records, err := readRaw(path)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return map[string]int{}, nil, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return header, records[1:], nil
}

// readRaw reads every record of a CSV file, tolerating ragged rows.
func readRaw(path string) ([][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, boxprice.Errorf(boxprice.ENOTFOUND, "listing store %q not found", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := stdcsv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, boxprice.Errorf(boxprice.EINVALID, "malformed listing store %q: %s", path, err)
	}
	return records, nil
}

// cell returns the trimmed value of a named column, or "" when the column
// is missing from the file or the row is too short.
func cell(header map[string]int, row []string, name string) string {
	idx, ok := header[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
