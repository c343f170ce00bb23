package main

import (
	"fmt"

	"github.com/awisniewski/boxprice"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	snaps, err := deps.History.History(deps.Ctx, c.CID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintf(deps.Stdout, "No price history for %s\n", c.CID)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Price history for %s:\n", c.CID)
	for _, s := range snaps {
		stock := "in stock"
		if !s.InStock {
			stock = "out of stock"
		}
		fmt.Fprintf(deps.Stdout, "  %s  %-20s %s, %s\n",
			s.Date, s.Retailer, centsToDollars(s.PriceCents), stock)
	}

	changes, err := deps.History.Changes(deps.Ctx, c.CID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}
	if len(changes) > 0 {
		fmt.Fprintln(deps.Stdout, "Changes:")
		for _, ch := range changes {
			switch ch.ChangeType {
			case boxprice.PriceChangeNew:
				fmt.Fprintf(deps.Stdout, "  %s  %-20s new at %s\n",
					ch.Date, ch.Retailer, centsToDollars(ch.NewCents))
			default:
				fmt.Fprintf(deps.Stdout, "  %s  %-20s %s: %s -> %s\n",
					ch.Date, ch.Retailer, ch.ChangeType,
					centsToDollars(ch.OldCents), centsToDollars(ch.NewCents))
			}
		}
	}
	return nil
}
