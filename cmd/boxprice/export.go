package main

import (
	"fmt"
	"os"

	"github.com/awisniewski/boxprice"
	"github.com/awisniewski/boxprice/csv"
	boxpricexlsx "github.com/awisniewski/boxprice/excelize"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	if c.Xlsx && c.Output == "" {
		err := boxprice.Errorf(boxprice.EINVALID, "--xlsx requires --output")
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	skus, err := deps.Catalog.ExportSKUs(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	if c.Xlsx {
		if err := boxpricexlsx.WriteCatalog(c.Output, skus); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d SKU(s) to %s\n", len(skus), c.Output)
		return nil
	}

	if c.Output == "" {
		return csv.WriteCatalog(deps.Stdout, skus)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	defer f.Close()

	if err := csv.WriteCatalog(f, skus); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d SKU(s) to %s\n", len(skus), c.Output)
	return nil
}
