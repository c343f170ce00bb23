package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/awisniewski/boxprice"
)

// Ensure service implements interface.
var _ boxprice.CatalogService = (*CatalogService)(nil)

// CatalogService is the SQLite-backed master catalog.
type CatalogService struct {
	db *DB
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *DB) *CatalogService {
	return &CatalogService{db: db}
}

// CreateSKU derives the SKU's CID from its attributes and persists it.
// Returns ECONFLICT if a SKU with the same derived CID already exists.
func (s *CatalogService) CreateSKU(ctx context.Context, sku *boxprice.SKU) error {
	if err := sku.Validate(); err != nil {
		return err
	}
	if sku.ParentBrand == "" {
		sku.ParentBrand = sku.Brand
	}
	sku.CID = boxprice.GenerateCID(sku.CIDAttrs())
	sku.WrapperCode = boxprice.WrapperCode(sku.Wrapper)

	now := time.Now().UTC().Truncate(time.Second)
	sku.CreatedAt = now
	sku.UpdatedAt = now

	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cigars WHERE cid = ?`, sku.CID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for existing cid: %w", err)
	}
	if exists > 0 {
		return boxprice.Errorf(boxprice.ECONFLICT, "SKU with CID %q already exists", sku.CID)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cigars (
			cid, brand, parent_brand, line, wrapper, wrapper_alias,
			wrapper_code, vitola, length, ring_gauge, binder, filler,
			strength, box_qty, style, country_of_origin, factory, notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sku.CID, sku.Brand, sku.ParentBrand, sku.Line, sku.Wrapper,
		sku.WrapperAlias, sku.WrapperCode, sku.Vitola, sku.Length,
		sku.RingGauge, sku.Binder, sku.Filler, sku.Strength,
		sku.BoxQuantity, sku.Style, sku.CountryOfOrigin, sku.Factory,
		sku.Notes, now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert SKU: %w", err)
	}
	return nil
}

// FindSKUByCID retrieves a SKU by CID.
// Returns ENOTFOUND if the SKU does not exist.
func (s *CatalogService) FindSKUByCID(ctx context.Context, cid string) (*boxprice.SKU, error) {
	row := s.db.QueryRowContext(ctx, selectSKU+` WHERE cid = ?`, cid)
	sku, err := scanSKU(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, boxprice.Errorf(boxprice.ENOTFOUND, "SKU with CID %q not found", cid)
	}
	if err != nil {
		return nil, err
	}
	return sku, nil
}

// FindSKUs retrieves SKUs matching the filter, ordered by brand, line, vitola.
func (s *CatalogService) FindSKUs(ctx context.Context, filter boxprice.SKUFilter) ([]*boxprice.SKU, error) {
	var query strings.Builder
	query.WriteString(selectSKU)

	var where []string
	var args []any
	if v := filter.Brand; v != nil {
		where = append(where, "brand LIKE ? COLLATE NOCASE")
		args = append(args, "%"+*v+"%")
	}
	if v := filter.Line; v != nil {
		where = append(where, "line LIKE ? COLLATE NOCASE")
		args = append(args, "%"+*v+"%")
	}
	if v := filter.Wrapper; v != nil {
		where = append(where, "wrapper LIKE ? COLLATE NOCASE")
		args = append(args, "%"+*v+"%")
	}
	if v := filter.CID; v != nil {
		where = append(where, "cid LIKE ? COLLATE NOCASE")
		args = append(args, "%"+*v+"%")
	}
	if len(where) > 0 {
		query.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	query.WriteString(" ORDER BY brand, line, vitola")
	paginate(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query SKUs: %w", err)
	}
	defer rows.Close()

	var skus []*boxprice.SKU
	for rows.Next() {
		sku, err := scanSKU(rows)
		if err != nil {
			return nil, err
		}
		skus = append(skus, sku)
	}
	return skus, rows.Err()
}

// UpdateSKU mutates SKU attributes and bumps updated_at. The CID itself is
// never touched, even when the edit changes attributes the CID was derived
// from; use RenameCID for that.
// Returns ENOTFOUND if the SKU does not exist.
func (s *CatalogService) UpdateSKU(ctx context.Context, cid string, upd boxprice.SKUUpdate) (*boxprice.SKU, error) {
	sku, err := s.FindSKUByCID(ctx, cid)
	if err != nil {
		return nil, err
	}

	if v := upd.Brand; v != nil {
		sku.Brand = *v
	}
	if v := upd.ParentBrand; v != nil {
		sku.ParentBrand = *v
	}
	if v := upd.Line; v != nil {
		sku.Line = *v
	}
	if v := upd.Wrapper; v != nil {
		sku.Wrapper = *v
		sku.WrapperCode = boxprice.WrapperCode(*v)
	}
	if v := upd.WrapperAlias; v != nil {
		sku.WrapperAlias = *v
	}
	if v := upd.Vitola; v != nil {
		sku.Vitola = *v
	}
	if v := upd.Length; v != nil {
		sku.Length = *v
	}
	if v := upd.RingGauge; v != nil {
		sku.RingGauge = *v
	}
	if v := upd.Binder; v != nil {
		sku.Binder = *v
	}
	if v := upd.Filler; v != nil {
		sku.Filler = *v
	}
	if v := upd.Strength; v != nil {
		sku.Strength = *v
	}
	if v := upd.BoxQuantity; v != nil {
		sku.BoxQuantity = *v
	}
	if v := upd.Style; v != nil {
		sku.Style = *v
	}
	if v := upd.CountryOfOrigin; v != nil {
		sku.CountryOfOrigin = *v
	}
	if v := upd.Factory; v != nil {
		sku.Factory = *v
	}
	if v := upd.Notes; v != nil {
		sku.Notes = *v
	}

	if err := sku.Validate(); err != nil {
		return nil, err
	}
	sku.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err = s.db.ExecContext(ctx, `
		UPDATE cigars SET
			brand = ?, parent_brand = ?, line = ?, wrapper = ?,
			wrapper_alias = ?, wrapper_code = ?, vitola = ?, length = ?,
			ring_gauge = ?, binder = ?, filler = ?, strength = ?,
			box_qty = ?, style = ?, country_of_origin = ?, factory = ?,
			notes = ?, updated_at = ?
		WHERE cid = ?`,
		sku.Brand, sku.ParentBrand, sku.Line, sku.Wrapper,
		sku.WrapperAlias, sku.WrapperCode, sku.Vitola, sku.Length,
		sku.RingGauge, sku.Binder, sku.Filler, sku.Strength,
		sku.BoxQuantity, sku.Style, sku.CountryOfOrigin, sku.Factory,
		sku.Notes, sku.UpdatedAt.Format(time.RFC3339), cid,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update SKU: %w", err)
	}
	return sku, nil
}

// RenameCID moves a SKU row to a new CID.
// Returns ENOTFOUND if oldCID is absent, ECONFLICT if newCID exists.
func (s *CatalogService) RenameCID(ctx context.Context, oldCID, newCID string) error {
	if _, err := s.FindSKUByCID(ctx, oldCID); err != nil {
		return err
	}

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cigars WHERE cid = ?`, newCID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check for target cid: %w", err)
	}
	if exists > 0 {
		return boxprice.Errorf(boxprice.ECONFLICT, "SKU with CID %q already exists", newCID)
	}

	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx,
		`UPDATE cigars SET cid = ?, updated_at = ? WHERE cid = ?`,
		newCID, now.Format(time.RFC3339), oldCID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename cid: %w", err)
	}
	return nil
}

// Brands returns the distinct brand names known to the catalog.
func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT brand FROM cigars ORDER BY brand`)
	if err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

// ExportSKUs returns the full catalog snapshot in export order.
func (s *CatalogService) ExportSKUs(ctx context.Context) ([]*boxprice.SKU, error) {
	return s.FindSKUs(ctx, boxprice.SKUFilter{})
}

// Stats returns summary statistics about the catalog.
func (s *CatalogService) Stats(ctx context.Context) (*boxprice.CatalogStats, error) {
	stats := &boxprice.CatalogStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(DISTINCT brand),
			COUNT(DISTINCT brand || '|' || line)
		FROM cigars`,
	).Scan(&stats.TotalSKUs, &stats.Brands, &stats.Lines)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog totals: %w", err)
	}

	stats.TopBrands, err = s.nameCounts(ctx, `
		SELECT brand, COUNT(*) AS n FROM cigars
		GROUP BY brand ORDER BY n DESC, brand LIMIT 10`)
	if err != nil {
		return nil, err
	}

	stats.WrapperCodes, err = s.nameCounts(ctx, `
		SELECT wrapper_code, COUNT(*) AS n FROM cigars
		WHERE wrapper_code != ''
		GROUP BY wrapper_code ORDER BY n DESC, wrapper_code`)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *CatalogService) nameCounts(ctx context.Context, query string) ([]boxprice.NameCount, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	var out []boxprice.NameCount
	for rows.Next() {
		var nc boxprice.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}

const selectSKU = `
	SELECT cid, brand, parent_brand, line, wrapper, wrapper_alias,
		wrapper_code, vitola, length, ring_gauge, binder, filler,
		strength, box_qty, style, country_of_origin, factory, notes,
		created_at, updated_at
	FROM cigars`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSKU(row scanner) (*boxprice.SKU, error) {
	var sku boxprice.SKU
	var createdAt, updatedAt string
	err := row.Scan(
		&sku.CID, &sku.Brand, &sku.ParentBrand, &sku.Line, &sku.Wrapper,
		&sku.WrapperAlias, &sku.WrapperCode, &sku.Vitola, &sku.Length,
		&sku.RingGauge, &sku.Binder, &sku.Filler, &sku.Strength,
		&sku.BoxQuantity, &sku.Style, &sku.CountryOfOrigin, &sku.Factory,
		&sku.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sku.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if sku.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &sku, nil
}

// parseTimestamp reads an RFC3339 column value stored as TEXT.
func parseTimestamp(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

// paginate appends LIMIT and OFFSET clauses for positive values.
func paginate(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
