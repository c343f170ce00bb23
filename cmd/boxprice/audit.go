package main

import (
	"fmt"

	"github.com/awisniewski/boxprice"
	boxpricexlsx "github.com/awisniewski/boxprice/excelize"
)

// Run executes the audit command.
func (c *AuditCmd) Run(deps *Dependencies) error {
	report, err := deps.Auditor.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Audit %s (%d master CIDs)\n", report.ID, report.MasterCIDs)
	for _, ra := range report.Retailers {
		if ra.Unreadable {
			fmt.Fprintf(deps.Stdout, "  %-24s UNREADABLE: %s\n", ra.Retailer, ra.ReadError)
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %-24s %4d products, %d missing, %d orphaned",
			ra.Retailer, ra.Products, ra.MissingCIDs, ra.OrphanedCIDs)
		for _, field := range boxprice.AuditFields {
			if n := ra.MismatchesByField[field]; n > 0 {
				fmt.Fprintf(deps.Stdout, ", %d %s", n, field)
			}
		}
		fmt.Fprintln(deps.Stdout)
	}

	if len(report.FixList) > 0 {
		fmt.Fprintln(deps.Stdout, "Fix first:")
		for _, fix := range report.FixList {
			fmt.Fprintf(deps.Stdout, "  %-24s %d issue(s) across %d product(s)\n",
				fix.Retailer, fix.Issues, fix.Products)
		}
	}
	fmt.Fprintf(deps.Stdout, "Total issues: %d\n", report.TotalIssues())

	if c.Xlsx != "" {
		if err := boxpricexlsx.WriteAuditReport(c.Xlsx, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Xlsx)
	}
	return nil
}
