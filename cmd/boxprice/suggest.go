package main

import (
	"fmt"

	"github.com/awisniewski/boxprice"
	"github.com/hbollon/go-edlib"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// suggestCIDs returns catalog CIDs most similar to the given input, for
// "did you mean" hints when a lookup misses.
func suggestCIDs(deps *Dependencies, input string) []string {
	skus, err := deps.Catalog.ExportSKUs(deps.Ctx)
	if err != nil || len(skus) == 0 {
		return nil
	}
	cids := make([]string, 0, len(skus))
	for _, s := range skus {
		cids = append(cids, s.CID)
	}

	matches, err := edlib.FuzzySearchSetThreshold(input, cids, maxSuggestions, 0.5, edlib.Levenshtein)
	if err != nil {
		return nil
	}
	var out []string
	for _, m := range matches {
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

// printNotFound writes the error plus any close-match suggestions.
func printNotFound(deps *Dependencies, err error, input string) {
	fmt.Fprintf(deps.Stderr, "error: %s\n", boxprice.ErrorMessage(err))
	if suggestions := suggestCIDs(deps, input); len(suggestions) > 0 {
		fmt.Fprintln(deps.Stderr, "Did you mean:")
		for _, s := range suggestions {
			fmt.Fprintf(deps.Stderr, "  %s\n", s)
		}
	}
}
