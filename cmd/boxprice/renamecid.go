package main

import (
	"fmt"

	"github.com/awisniewski/boxprice"
)

// Run executes the rename-cid command: scan first, and apply only when the
// caller confirmed with --yes.
func (c *RenameCIDCmd) Run(deps *Dependencies) error {
	plan, err := deps.Propagator.Scan(deps.Ctx, c.OldCID, c.NewCID)
	if err != nil {
		if boxprice.ErrorCode(err) == boxprice.ENOTFOUND {
			printNotFound(deps, err, c.OldCID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Rename plan %s\n", plan.ID)
	fmt.Fprintf(deps.Stdout, "  %s\n    -> %s\n", plan.OldCID, plan.NewCID)
	if len(plan.Stores) == 0 {
		fmt.Fprintln(deps.Stdout, "  No listing store references the old CID.")
	}
	for _, s := range plan.Stores {
		fmt.Fprintf(deps.Stdout, "  %-24s %d reference(s)\n", s.Retailer, s.References)
	}

	if !c.Yes {
		fmt.Fprintln(deps.Stdout, "Dry run only. Re-run with --yes to apply.")
		return nil
	}

	res, err := deps.Propagator.Apply(deps.Ctx, plan)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, "Applied:")
	fmt.Fprintf(deps.Stdout, "  master catalog: renamed\n")
	for _, s := range res.Stores {
		if s.Err != "" {
			fmt.Fprintf(deps.Stdout, "  %-24s FAILED: %s\n", s.Retailer, s.Err)
			continue
		}
		fmt.Fprintf(deps.Stdout, "  %-24s %d replaced\n", s.Retailer, s.Replaced)
	}
	fmt.Fprintf(deps.Stdout, "  price history: %d row(s) rewritten\n", res.HistoryRows)

	if res.Failed() {
		fmt.Fprintln(deps.Stdout, "Some stores failed. Fix them and re-run the same rename; completed steps are no-ops.")
	}
	return nil
}
