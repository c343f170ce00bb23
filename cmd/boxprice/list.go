package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/awisniewski/boxprice"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := boxprice.SKUFilter{Limit: c.Limit, Offset: c.Offset}
	if c.Brand != "" {
		filter.Brand = &c.Brand
	}
	if c.Line != "" {
		filter.Line = &c.Line
	}
	if c.Wrapper != "" {
		filter.Wrapper = &c.Wrapper
	}
	if c.CID != "" {
		filter.CID = &c.CID
	}

	skus, err := deps.Catalog.FindSKUs(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	if len(skus) == 0 {
		fmt.Fprintln(deps.Stdout, "No SKUs found. Use 'boxprice add' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CID\tBRAND\tLINE\tVITOLA\tSIZE\tWRAPPER\tBOX")
	for _, s := range skus {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			s.CID, s.Brand, s.Line, s.Vitola, s.Size(), s.Wrapper, s.BoxQuantity)
	}
	return w.Flush()
}
