package main

import (
	"fmt"

	"github.com/awisniewski/boxprice"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	sku := &boxprice.SKU{
		Brand:           c.Brand,
		ParentBrand:     c.ParentBrand,
		Line:            c.Line,
		Wrapper:         c.Wrapper,
		Vitola:          c.Vitola,
		Length:          c.Length,
		RingGauge:       c.Ring,
		BoxQuantity:     c.BoxQty,
		Binder:          c.Binder,
		Filler:          c.Filler,
		Strength:        c.Strength,
		Style:           c.Style,
		CountryOfOrigin: c.Country,
		Factory:         c.Factory,
		Notes:           c.Notes,
	}

	if err := deps.Catalog.CreateSKU(deps.Ctx, sku); err != nil {
		if boxprice.ErrorCode(err) == boxprice.ECONFLICT {
			fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
			fmt.Fprintf(deps.Stderr, "Hint: Use 'boxprice edit %s' to change an existing SKU\n", sku.CID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added SKU %s\n", sku.CID)
	return nil
}
