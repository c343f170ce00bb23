package search

import (
	"regexp"
	"strconv"
)

var zipRe = regexp.MustCompile(`^\d{5}$`)

// ZipToState maps an exact 5-digit ZIP code to a two-letter state code via a
// coarse demo range table. Anything else, including shorter or longer
// strings, maps to "" and prices fall back to zero tax.
//
// TODO: replace the range table with a real ZIP database before charging
// actual tax estimates outside the demo states.
func ZipToState(zip string) string {
	if !zipRe.MatchString(zip) {
		return ""
	}
	n, _ := strconv.Atoi(zip)
	switch {
	case n < 10000:
		return "MA"
	case n < 20000:
		return "NY"
	case n < 30000:
		return "VA"
	case n < 40000:
		return "FL"
	case n < 50000:
		return "OH"
	case n < 60000:
		return "MN"
	case n < 70000:
		return "IL"
	case n < 80000:
		return "TX"
	case n < 90000:
		return "CO"
	case n < 97000:
		return "CA"
	case n < 98000:
		return "OR"
	default:
		return "WA"
	}
}
