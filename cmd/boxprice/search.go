package main

import (
	"fmt"

	"github.com/awisniewski/boxprice"
	"github.com/awisniewski/boxprice/search"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	resp, err := deps.Comparer.Search(deps.Ctx, c.Query, c.Zip)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	switch resp.Intent {
	case search.IntentHelp:
		fmt.Fprintln(deps.Stdout, resp.Help)

	case search.IntentBrand:
		fmt.Fprintf(deps.Stdout, "Lines for %s:\n", resp.Query.Brand)
		for _, lo := range resp.Lines {
			fmt.Fprintf(deps.Stdout, "  %-32s from %s at %s\n",
				lo.Line, centsToDollars(lo.Offer.DeliveredCents), retailerLabel(lo.Offer))
		}

	case search.IntentLine:
		fmt.Fprintf(deps.Stdout, "Sizes for %s %s:\n", resp.Query.Brand, resp.Query.Line)
		for _, so := range resp.Sizes {
			fmt.Fprintf(deps.Stdout, "  %-10s %s delivered at %s\n",
				so.Size, centsToDollars(so.Offer.DeliveredCents), retailerLabel(so.Offer))
		}

	case search.IntentSKU:
		fmt.Fprintf(deps.Stdout, "Offers for %s %s %s:\n", resp.Query.Brand, resp.Query.Line, resp.Query.Size)
		for _, o := range resp.Offers {
			marker := " "
			if o.Cheapest {
				marker = "*"
			}
			stock := "in stock"
			if !o.InStock {
				stock = "out of stock"
			}
			fmt.Fprintf(deps.Stdout, "%s %-28s %s delivered (%s base), %s\n",
				marker, retailerLabel(o), centsToDollars(o.DeliveredCents), centsToDollars(o.BaseCents), stock)
		}
		if len(resp.Offers) == 0 {
			fmt.Fprintln(deps.Stdout, "  No matching offers.")
		}
	}

	if resp.State != "" {
		fmt.Fprintf(deps.Stdout, "Tax estimated for %s.\n", resp.State)
	}
	return nil
}

func retailerLabel(o *search.Offer) string {
	name := o.RetailerName
	if name == "" {
		name = o.Retailer
	}
	if o.Authorized {
		return name + " (authorized)"
	}
	return name
}

func centsToDollars(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
