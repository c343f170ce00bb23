// Package rename propagates a CID rename across every store that references
// the identifier: the master catalog, the retailer listing files, and the
// historical price database. The flow is scan-then-apply so a caller can show
// exactly what will change before anything is written.
package rename

import (
	"context"
	"log/slog"

	"github.com/awisniewski/boxprice"
	"github.com/google/uuid"
)

// Propagator coordinates a cross-store CID rename.
type Propagator struct {
	Catalog  boxprice.CatalogService
	Listings boxprice.ListingService
	Replacer boxprice.IdentifierReplacer
	History  boxprice.HistoryService
	Logger   *slog.Logger
}

// Plan is the dry-run result of a rename scan: where the old CID appears and
// how often, pinned to the store revisions that were scanned.
type Plan struct {
	ID     string `json:"id"`
	OldCID string `json:"oldCid"`
	NewCID string `json:"newCid"`

	Stores          []StoreRefs `json:"stores"`
	TotalReferences int         `json:"totalReferences"`
}

// StoreRefs counts old-CID references in one listing store.
type StoreRefs struct {
	Retailer    string `json:"retailer"`
	References  int    `json:"references"`
	ContentHash uint64 `json:"contentHash"`
}

// Result reports what an Apply actually changed.
type Result struct {
	PlanID        string        `json:"planId"`
	MasterRenamed bool          `json:"masterRenamed"`
	Stores        []StoreResult `json:"stores"`
	HistoryRows   int64         `json:"historyRows"`
}

// StoreResult is the per-store outcome of an Apply. A store that failed
// carries its error; the other stores are still attempted.
type StoreResult struct {
	Retailer string `json:"retailer"`
	Replaced int    `json:"replaced"`
	Err      string `json:"err,omitempty"`
}

// Failed reports whether any listing store could not be rewritten.
func (r *Result) Failed() bool {
	for _, s := range r.Stores {
		if s.Err != "" {
			return true
		}
	}
	return false
}

// Scan checks the rename preconditions and counts references without
// writing anything.
// Returns ENOTFOUND if oldCID is not in the catalog, ECONFLICT if newCID
// already is, EINVALID if newCID is not well formed.
func (p *Propagator) Scan(ctx context.Context, oldCID, newCID string) (*Plan, error) {
	if _, _, err := boxprice.ParseCID(newCID); err != nil {
		return nil, err
	}
	if _, err := p.Catalog.FindSKUByCID(ctx, oldCID); err != nil {
		return nil, err
	}
	if _, err := p.Catalog.FindSKUByCID(ctx, newCID); err == nil {
		return nil, boxprice.Errorf(boxprice.ECONFLICT, "SKU with CID %q already exists", newCID)
	} else if boxprice.ErrorCode(err) != boxprice.ENOTFOUND {
		return nil, err
	}

	plan := &Plan{
		ID:     uuid.New().String(),
		OldCID: oldCID,
		NewCID: newCID,
	}

	retailers, err := p.Listings.Retailers(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range retailers {
		n, err := p.Replacer.CountIdentifier(ctx, r.Key, oldCID)
		if err != nil {
			if p.Logger != nil {
				p.Logger.Warn("skipping unreadable listing store", "retailer", r.Key, "err", err)
			}
			continue
		}
		if n == 0 {
			continue
		}
		refs := StoreRefs{Retailer: r.Key, References: n}
		if hash, err := p.Listings.ContentHash(ctx, r.Key); err == nil {
			refs.ContentHash = hash
		}
		plan.Stores = append(plan.Stores, refs)
		plan.TotalReferences += n
	}
	return plan, nil
}

// Apply executes a scanned plan. The master catalog is renamed first and any
// failure there aborts the whole operation; listing stores are then rewritten
// independently, so one broken file doesn't strand the others; the historical
// database goes last. Re-applying after a partial failure is safe: the master
// step detects an already-moved row and every store rewrite of an absent
// identifier is a no-op.
func (p *Propagator) Apply(ctx context.Context, plan *Plan) (*Result, error) {
	res := &Result{PlanID: plan.ID}

	if err := p.Catalog.RenameCID(ctx, plan.OldCID, plan.NewCID); err != nil {
		// A previous partial apply may have moved the master row already.
		if boxprice.ErrorCode(err) == boxprice.ENOTFOUND {
			if _, findErr := p.Catalog.FindSKUByCID(ctx, plan.NewCID); findErr == nil {
				res.MasterRenamed = true
			} else {
				return nil, err
			}
		} else {
			return nil, err
		}
	} else {
		res.MasterRenamed = true
	}

	for _, store := range plan.Stores {
		sr := StoreResult{Retailer: store.Retailer}
		n, err := p.Replacer.ReplaceIdentifier(ctx, store.Retailer, plan.OldCID, plan.NewCID)
		if err != nil {
			sr.Err = err.Error()
			if p.Logger != nil {
				p.Logger.Warn("listing store rewrite failed", "retailer", store.Retailer, "err", err)
			}
		} else {
			sr.Replaced = n
		}
		res.Stores = append(res.Stores, sr)
	}

	rows, err := p.History.ReplaceCID(ctx, plan.OldCID, plan.NewCID)
	if err != nil {
		return res, err
	}
	res.HistoryRows = rows

	if p.Logger != nil {
		p.Logger.Info("rename applied",
			"plan", plan.ID,
			"old", plan.OldCID,
			"new", plan.NewCID,
			"stores", len(res.Stores),
			"history_rows", res.HistoryRows,
		)
	}
	return res, nil
}
