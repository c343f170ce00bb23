package boxprice

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// NormalizedQuery is the (brand, line, size) tuple a free-text search query
// resolves to. Empty fields are absent; each unresolved field drops the
// response to a lower intent tier rather than erroring.
type NormalizedQuery struct {
	Brand string `json:"brand"`
	Line  string `json:"line"`
	Size  string `json:"size"`
}

// sizeRe matches a NUMBER x NUMBER size token anywhere in a query: decimal
// length permitted, integer ring gauge.
var sizeRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*[xX]\s*(\d+)`)

// canonicalVoteSize is how many top-ranked listings vote on the final line.
const canonicalVoteSize = 10

// NormalizeQuery parses a free-text query into a normalized tuple.
//
// The brand is resolved by whole-word match against known brands, first hit
// wins; failing that, by token-overlap scoring against the listing corpus's
// brand fields. The provisional line (query minus the brand token, truncated
// before any size pattern) is then canonicalized by a vote among the
// top-ranked title matches in the corpus.
func NormalizeQuery(q string, knownBrands []string, corpus []*Listing) NormalizedQuery {
	s := strings.TrimSpace(q)
	queryTokens := tokenize(s)

	brand := matchKnownBrand(s, knownBrands)
	if brand == "" {
		brand = scoreBrandFallback(queryTokens, corpus)
	}

	var size string
	if m := sizeRe.FindStringSubmatch(s); m != nil {
		size = m[1] + "x" + m[2]
	}

	var line string
	if brand != "" {
		line = provisionalLine(s, brand)
	}
	if brand != "" && line != "" {
		line = canonicalizeLine(s, queryTokens, line, corpus)
	}

	return NormalizedQuery{Brand: brand, Line: line, Size: size}
}

// matchKnownBrand returns the first known brand appearing as a whole word in
// the query, case-insensitively.
func matchKnownBrand(s string, knownBrands []string) string {
	for _, b := range knownBrands {
		if b == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(b) + `\b`)
		if re.MatchString(s) {
			return b
		}
	}
	return ""
}

// scoreBrandFallback scores every listing's brand field by token-overlap
// count against the query and picks the brand with the highest aggregate
// overlap. A listing's score counts overlap across its brand and title
// tokens, so a query naming only a line ("Hemingway Short Story") still
// aggregates onto the brand whose listings carry those title tokens.
// Ties break by first-seen order in the corpus.
func scoreBrandFallback(queryTokens []string, corpus []*Listing) string {
	qset := toSet(queryTokens)
	scores := make(map[string]int)
	var order []string

	for _, l := range corpus {
		if l.Brand == "" {
			continue
		}
		n := overlap(qset, tokenize(l.Brand+" "+l.Title))
		if n == 0 {
			continue
		}
		if _, seen := scores[l.Brand]; !seen {
			order = append(order, l.Brand)
		}
		scores[l.Brand] += n
	}

	best := ""
	bestScore := 0
	for _, b := range order {
		if scores[b] > bestScore {
			best, bestScore = b, scores[b]
		}
	}
	return best
}

// provisionalLine is the query remainder after removing the brand token,
// truncated immediately before any detected size pattern.
func provisionalLine(s, brand string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(brand) + `\b`)
	rest := strings.TrimSpace(re.ReplaceAllString(s, ""))
	if m := sizeRe.FindStringIndex(rest); m != nil {
		rest = rest[:m[0]]
	}
	return strings.TrimSpace(rest)
}

// canonicalizeLine re-ranks the corpus by title-token overlap with the query
// (+1 if the candidate's size appears in the query, +1 if any query token
// appears in the candidate's line), takes the top-ranked listings and sets
// the final line to the most frequent line value among them. Both the
// ranking and the frequency vote are stable on first-seen order.
func canonicalizeLine(rawQuery string, queryTokens []string, provisional string, corpus []*Listing) string {
	qset := toSet(queryTokens)
	lowerQuery := strings.ToLower(rawQuery)

	type ranked struct {
		line  string
		score int
	}
	var candidates []ranked
	for _, l := range corpus {
		score := overlap(qset, tokenize(l.Title))
		if l.Size != "" && strings.Contains(lowerQuery, strings.ToLower(l.Size)) {
			score++
		}
		if overlap(qset, tokenize(l.Line)) > 0 {
			score++
		}
		if score > 0 {
			candidates = append(candidates, ranked{line: l.Line, score: score})
		}
	}
	if len(candidates) == 0 {
		return provisional
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > canonicalVoteSize {
		candidates = candidates[:canonicalVoteSize]
	}

	votes := make(map[string]int)
	var order []string
	for _, c := range candidates {
		if _, seen := votes[c.line]; !seen {
			order = append(order, c.line)
		}
		votes[c.line]++
	}

	winner := ""
	winnerVotes := 0
	for _, line := range order {
		if votes[line] > winnerVotes {
			winner, winnerVotes = line, votes[line]
		}
	}
	if winner == "" {
		return provisional
	}
	return winner
}

// tokenize splits a string into lowercase alphanumeric tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func overlap(set map[string]struct{}, tokens []string) int {
	n := 0
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
