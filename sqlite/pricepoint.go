package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/awisniewski/boxprice"
)

// Ensure service implements interface.
var _ boxprice.PricePointService = (*PricePointService)(nil)

// PricePointService is the SQLite-backed daily price-point store.
type PricePointService struct {
	db *DB
}

// NewPricePointService creates a new PricePointService.
func NewPricePointService(db *DB) *PricePointService {
	return &PricePointService{db: db}
}

// RecordPricePoint upserts a row for its (day, brand, line, size, source)
// key. The delete-then-insert keeps re-runs of the same day idempotent: the
// latest observation wins.
func (s *PricePointService) RecordPricePoint(ctx context.Context, pp *boxprice.PricePoint) error {
	if err := pp.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM price_points
		WHERE day = ? AND brand = ? AND line = ? AND size = ? AND source = ?`,
		pp.Day, pp.Brand, pp.Line, pp.Size, pp.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to clear price point: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO price_points (day, brand, line, size, source, delivered_cents)
		VALUES (?, ?, ?, ?, ?, ?)`,
		pp.Day, pp.Brand, pp.Line, pp.Size, pp.Source, pp.DeliveredCents,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price point: %w", err)
	}
	return nil
}

// FindPricePoints retrieves price points matching the filter, ordered by day.
func (s *PricePointService) FindPricePoints(ctx context.Context, filter boxprice.PricePointFilter) ([]*boxprice.PricePoint, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT day, brand, line, size, source, delivered_cents
		FROM price_points`)

	var where []string
	var args []any
	if v := filter.Day; v != nil {
		where = append(where, "day = ?")
		args = append(args, *v)
	}
	if v := filter.Brand; v != nil {
		where = append(where, "brand = ?")
		args = append(args, *v)
	}
	if v := filter.Line; v != nil {
		where = append(where, "line = ?")
		args = append(args, *v)
	}
	if v := filter.Size; v != nil {
		where = append(where, "size = ?")
		args = append(args, *v)
	}
	if v := filter.Source; v != nil {
		where = append(where, "source = ?")
		args = append(args, *v)
	}
	if len(where) > 0 {
		query.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	query.WriteString(" ORDER BY day, brand, line, size, source")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price points: %w", err)
	}
	defer rows.Close()

	var points []*boxprice.PricePoint
	for rows.Next() {
		var pp boxprice.PricePoint
		if err := rows.Scan(&pp.Day, &pp.Brand, &pp.Line, &pp.Size, &pp.Source, &pp.DeliveredCents); err != nil {
			return nil, err
		}
		points = append(points, &pp)
	}
	return points, rows.Err()
}
