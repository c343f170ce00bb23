// Package audit provides master-catalog consistency checks over retailer
// listing stores. An audit is advisory: it reads every store, cross-checks
// rows against the catalog, and produces a report without mutating anything.
package audit

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/awisniewski/boxprice"
	"github.com/awisniewski/boxprice/bloom"
	"github.com/google/uuid"
)

// Auditor cross-checks listing stores against the master catalog.
type Auditor struct {
	Catalog  boxprice.CatalogService
	Listings boxprice.ListingService
	Logger   *slog.Logger
}

// Run audits every listing store and returns the report. Unreadable stores
// are recorded and excluded from totals rather than failing the audit.
func (a *Auditor) Run(ctx context.Context) (*boxprice.AuditReport, error) {
	skus, err := a.Catalog.ExportSKUs(ctx)
	if err != nil {
		return nil, err
	}

	master := make(map[string]*boxprice.SKU, len(skus))
	// The Bloom filter rejects unknown CIDs without a map probe per row;
	// positives fall through to the exact lookup.
	known := bloom.NewFilter(uint(len(skus))+1, 0.01)
	for _, sku := range skus {
		master[sku.CID] = sku
		known.Add(sku.CID)
	}

	retailers, err := a.Listings.Retailers(ctx)
	if err != nil {
		return nil, err
	}

	report := &boxprice.AuditReport{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		MasterCIDs:  len(master),
	}

	for _, r := range retailers {
		ra := a.auditRetailer(ctx, r, master, known, report)
		report.Retailers = append(report.Retailers, ra)
	}

	report.FixList = buildFixList(report.Retailers)

	if a.Logger != nil {
		a.Logger.Info("audit complete",
			"id", report.ID,
			"master_cids", report.MasterCIDs,
			"retailers", len(report.Retailers),
			"issues", report.TotalIssues(),
		)
	}
	return report, nil
}

func (a *Auditor) auditRetailer(ctx context.Context, r boxprice.Retailer, master map[string]*boxprice.SKU, known *bloom.Filter, report *boxprice.AuditReport) *boxprice.RetailerAudit {
	ra := &boxprice.RetailerAudit{
		Retailer:          r.Key,
		MismatchesByField: make(map[string]int),
	}

	listings, err := a.Listings.Load(ctx, r.Key)
	if err != nil {
		ra.Unreadable = true
		ra.ReadError = err.Error()
		if a.Logger != nil {
			a.Logger.Warn("listing store unreadable", "retailer", r.Key, "err", err)
		}
		return ra
	}
	if hash, err := a.Listings.ContentHash(ctx, r.Key); err == nil {
		ra.ContentHash = hash
	}

	ra.Products = len(listings)
	for _, l := range listings {
		if l.CigarID == "" {
			ra.MissingCIDs++
			continue
		}
		var sku *boxprice.SKU
		if known.Test(l.CigarID) {
			sku = master[l.CigarID]
		}
		if sku == nil {
			ra.OrphanedCIDs++
			report.Mismatches = append(report.Mismatches, &boxprice.AuditMismatch{
				Retailer:  r.Key,
				CID:       l.CigarID,
				IssueType: boxprice.AuditOrphanedCID,
			})
			continue
		}
		for _, m := range compareFields(l, sku) {
			m.Retailer = r.Key
			ra.MismatchesByField[m.Field]++
			report.Mismatches = append(report.Mismatches, m)
		}
	}
	return ra
}

// compareFields cross-checks one listing row against its master SKU. Both
// sides are normalized for blank equivalents only; beyond that the comparison
// is exact, so a blank value against a populated one and a casing difference
// both count as mismatches.
func compareFields(l *boxprice.Listing, sku *boxprice.SKU) []*boxprice.AuditMismatch {
	var out []*boxprice.AuditMismatch
	check := func(field, got, want string) {
		if boxprice.NormalizeBlank(got) == boxprice.NormalizeBlank(want) {
			return
		}
		out = append(out, &boxprice.AuditMismatch{
			CID:           sku.CID,
			IssueType:     boxprice.AuditMetadataMismatch,
			Field:         field,
			RetailerValue: got,
			MasterValue:   want,
		})
	}

	check("brand", l.Brand, sku.Brand)
	check("line", l.Line, sku.Line)
	check("wrapper", l.Wrapper, sku.Wrapper)
	check("vitola", l.Vitola, sku.Vitola)
	check("size", l.Size, sku.Size())
	return out
}

// buildFixList ranks readable stores by issue rate weighted by product
// count, so large mostly-clean stores don't drown out small broken ones.
func buildFixList(audits []*boxprice.RetailerAudit) []*boxprice.AuditFix {
	var fixes []*boxprice.AuditFix
	for _, ra := range audits {
		if ra.Unreadable || ra.Products == 0 {
			continue
		}
		issues := ra.TotalIssues()
		if issues == 0 {
			continue
		}
		rate := float64(issues) / float64(ra.Products)
		fixes = append(fixes, &boxprice.AuditFix{
			Retailer: ra.Retailer,
			Products: ra.Products,
			Issues:   issues,
			Priority: rate * float64(ra.Products),
		})
	}
	sort.SliceStable(fixes, func(i, j int) bool {
		if fixes[i].Priority != fixes[j].Priority {
			return fixes[i].Priority > fixes[j].Priority
		}
		return fixes[i].Retailer < fixes[j].Retailer
	})
	return fixes
}
