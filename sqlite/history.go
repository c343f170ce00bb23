package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/awisniewski/boxprice"
)

// Ensure service implements interface.
var _ boxprice.HistoryService = (*HistoryService)(nil)

// HistoryService is the SQLite-backed historical price store.
type HistoryService struct {
	db *DB
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB) *HistoryService {
	return &HistoryService{db: db}
}

// RecordSnapshot stores a daily snapshot and logs the delta against the
// previous snapshot for the same retailer and CID. A snapshot for an already
// recorded (retailer, cigar_id, date) key replaces the earlier row. Returns
// the change entry, or nil when the price is unchanged.
func (s *HistoryService) RecordSnapshot(ctx context.Context, snap *boxprice.PriceSnapshot) (*boxprice.PriceChange, error) {
	if snap.Retailer == "" || snap.CigarID == "" || snap.Date == "" {
		return nil, boxprice.Errorf(boxprice.EINVALID, "snapshot retailer, cigar id and date required")
	}

	var prevCents int64
	err := s.db.QueryRowContext(ctx, `
		SELECT price_cents FROM price_history
		WHERE retailer = ? AND cigar_id = ? AND date < ?
		ORDER BY date DESC LIMIT 1`,
		snap.Retailer, snap.CigarID, snap.Date,
	).Scan(&prevCents)
	first := errors.Is(err, sql.ErrNoRows)
	if err != nil && !first {
		return nil, fmt.Errorf("failed to query previous snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO price_history (retailer, cigar_id, date, price_cents, in_stock, url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snap.Retailer, snap.CigarID, snap.Date, snap.PriceCents, snap.InStock, snap.URL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	change := &boxprice.PriceChange{
		Retailer: snap.Retailer,
		CigarID:  snap.CigarID,
		Date:     snap.Date,
		NewCents: snap.PriceCents,
	}
	switch {
	case first:
		change.ChangeType = boxprice.PriceChangeNew
	case snap.PriceCents > prevCents:
		change.OldCents = prevCents
		change.ChangeType = boxprice.PriceChangeIncrease
	case snap.PriceCents < prevCents:
		change.OldCents = prevCents
		change.ChangeType = boxprice.PriceChangeDecrease
	default:
		return nil, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO price_changes (retailer, cigar_id, date, old_cents, new_cents, change_type)
		VALUES (?, ?, ?, ?, ?, ?)`,
		change.Retailer, change.CigarID, change.Date, change.OldCents, change.NewCents, change.ChangeType,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert price change: %w", err)
	}
	return change, nil
}

// History returns all snapshots for a CID ordered by date.
func (s *HistoryService) History(ctx context.Context, cigarID string) ([]*boxprice.PriceSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT retailer, cigar_id, date, price_cents, in_stock, url
		FROM price_history
		WHERE cigar_id = ?
		ORDER BY date, retailer`,
		cigarID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var snaps []*boxprice.PriceSnapshot
	for rows.Next() {
		var snap boxprice.PriceSnapshot
		if err := rows.Scan(&snap.Retailer, &snap.CigarID, &snap.Date, &snap.PriceCents, &snap.InStock, &snap.URL); err != nil {
			return nil, err
		}
		snaps = append(snaps, &snap)
	}
	return snaps, rows.Err()
}

// Changes returns the change log for a CID ordered by date.
func (s *HistoryService) Changes(ctx context.Context, cigarID string) ([]*boxprice.PriceChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT retailer, cigar_id, date, old_cents, new_cents, change_type
		FROM price_changes
		WHERE cigar_id = ?
		ORDER BY date, retailer`,
		cigarID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query price changes: %w", err)
	}
	defer rows.Close()

	var changes []*boxprice.PriceChange
	for rows.Next() {
		var c boxprice.PriceChange
		if err := rows.Scan(&c.Retailer, &c.CigarID, &c.Date, &c.OldCents, &c.NewCents, &c.ChangeType); err != nil {
			return nil, err
		}
		changes = append(changes, &c)
	}
	return changes, rows.Err()
}

// ReplaceCID rewrites a CID in both historical tables and reports the total
// number of rows touched. Replacing a CID with no rows is a no-op, so the
// rename propagator can safely re-run.
func (s *HistoryService) ReplaceCID(ctx context.Context, oldCID, newCID string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE price_history SET cigar_id = ? WHERE cigar_id = ?`, newCID, oldCID)
	if err != nil {
		return 0, fmt.Errorf("failed to rewrite price history: %w", err)
	}
	historyRows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	res, err = s.db.ExecContext(ctx,
		`UPDATE price_changes SET cigar_id = ? WHERE cigar_id = ?`, newCID, oldCID)
	if err != nil {
		return 0, fmt.Errorf("failed to rewrite price changes: %w", err)
	}
	changeRows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return historyRows + changeRows, nil
}
