package main

import (
	"fmt"

	"github.com/awisniewski/boxprice"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Catalog.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "SKUs:   %d\n", stats.TotalSKUs)
	fmt.Fprintf(deps.Stdout, "Brands: %d\n", stats.Brands)
	fmt.Fprintf(deps.Stdout, "Lines:  %d\n", stats.Lines)

	if len(stats.TopBrands) > 0 {
		fmt.Fprintln(deps.Stdout, "Top brands:")
		for _, nc := range stats.TopBrands {
			fmt.Fprintf(deps.Stdout, "  %-32s %d\n", nc.Name, nc.Count)
		}
	}
	if len(stats.WrapperCodes) > 0 {
		fmt.Fprintln(deps.Stdout, "Wrapper codes:")
		for _, nc := range stats.WrapperCodes {
			fmt.Fprintf(deps.Stdout, "  %-6s %d\n", nc.Name, nc.Count)
		}
	}
	return nil
}
