package main

import (
	"fmt"

	"github.com/awisniewski/boxprice"
)

// Run executes the edit command. Only flags the caller passed are applied;
// the CID itself never changes through an edit.
func (c *EditCmd) Run(deps *Dependencies) error {
	upd := boxprice.SKUUpdate{
		Brand:           c.Brand,
		ParentBrand:     c.ParentBrand,
		Line:            c.Line,
		Wrapper:         c.Wrapper,
		WrapperAlias:    c.WrapperAlias,
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

	sku, err := deps.Catalog.UpdateSKU(deps.Ctx, c.CID, upd)
	if err != nil {
		if boxprice.ErrorCode(err) == boxprice.ENOTFOUND {
			printNotFound(deps, err, c.CID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Updated SKU %s\n", sku.CID)
	if attrs := sku.CIDAttrs(); boxprice.GenerateCID(attrs) != sku.CID {
		fmt.Fprintf(deps.Stdout, "Note: attributes now diverge from the CID. Use 'boxprice rename-cid %s %s' to realign every store.\n",
			sku.CID, boxprice.GenerateCID(attrs))
	}
	return nil
}
