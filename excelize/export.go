// Package excelize writes catalog and audit-report workbooks for the
// spreadsheet-centric half of the workflow: the master catalog started life
// as an Excel sheet and the people fixing audit findings still live there.
package excelize

import (
	"fmt"
	"strconv"

	"github.com/awisniewski/boxprice"
	"github.com/xuri/excelize/v2"
)

var catalogHeader = []string{
	"cigar_id", "Brand", "parent_brand", "Line", "Wrapper", "Wrapper_Alias",
	"wrapper_code", "Vitola", "Length", "Ring Gauge", "Binder", "Filler",
	"Strength", "Box Quantity", "Style", "country_of_origin", "factory",
	"notes",
}

// WriteCatalog writes the full catalog snapshot as a single-sheet workbook.
func WriteCatalog(path string, skus []*boxprice.SKU) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeRow(f, sheet, 1, catalogHeader); err != nil {
		return err
	}
	for i, s := range skus {
		row := []string{
			s.CID, s.Brand, s.ParentBrand, s.Line, s.Wrapper, s.WrapperAlias,
			s.WrapperCode, s.Vitola, s.Length, s.RingGauge, s.Binder,
			s.Filler, s.Strength, strconv.Itoa(s.BoxQuantity), s.Style,
			s.CountryOfOrigin, s.Factory, s.Notes,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return save(f, path)
}

// WriteAuditReport writes an audit report as a three-sheet workbook:
// Summary (per-retailer counts), Mismatches (the full issue list), and
// Fix List (priority order).
func WriteAuditReport(path string, report *boxprice.AuditReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{"Mismatches", "Fix List"} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	if err := writeSummary(f, report); err != nil {
		return err
	}
	if err := writeMismatches(f, report); err != nil {
		return err
	}
	if err := writeFixList(f, report); err != nil {
		return err
	}
	return save(f, path)
}

func writeSummary(f *excelize.File, report *boxprice.AuditReport) error {
	const sheet = "Summary"
	header := []string{
		"retailer", "products", "missing_cids", "orphaned_cids",
	}
	for _, field := range boxprice.AuditFields {
		header = append(header, "mismatch_"+field)
	}
	header = append(header, "total_issues", "unreadable", "read_error")
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}

	meta := fmt.Sprintf("report %s generated %s over %d master CIDs",
		report.ID, report.GeneratedAt.Format("2006-01-02 15:04:05"), report.MasterCIDs)
	if err := f.SetCellValue(sheet, cell(len(header)+2, 1), meta); err != nil {
		return err
	}

	for i, ra := range report.Retailers {
		row := []string{
			ra.Retailer,
			strconv.Itoa(ra.Products),
			strconv.Itoa(ra.MissingCIDs),
			strconv.Itoa(ra.OrphanedCIDs),
		}
		for _, field := range boxprice.AuditFields {
			row = append(row, strconv.Itoa(ra.MismatchesByField[field]))
		}
		row = append(row, strconv.Itoa(ra.TotalIssues()), strconv.FormatBool(ra.Unreadable), ra.ReadError)
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMismatches(f *excelize.File, report *boxprice.AuditReport) error {
	const sheet = "Mismatches"
	header := []string{"retailer", "cid", "issue_type", "field", "retailer_value", "master_value"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, m := range report.Mismatches {
		row := []string{m.Retailer, m.CID, m.IssueType, m.Field, m.RetailerValue, m.MasterValue}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeFixList(f *excelize.File, report *boxprice.AuditReport) error {
	const sheet = "Fix List"
	header := []string{"retailer", "products", "issues", "priority"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, fix := range report.FixList {
		row := []string{
			fix.Retailer,
			strconv.Itoa(fix.Products),
			strconv.Itoa(fix.Issues),
			strconv.FormatFloat(fix.Priority, 'f', 2, 64),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	for i, v := range values {
		if err := f.SetCellValue(sheet, cell(i+1, row), v); err != nil {
			return fmt.Errorf("failed to set cell: %w", err)
		}
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func save(f *excelize.File, path string) error {
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
