// Package search resolves free-text queries against the listing corpus and
// computes delivered prices for cross-retailer comparison. The response takes
// one of four shapes, ordered by how much of the query could be resolved:
// help, brand, line, or sku.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/awisniewski/boxprice"
)

// Intent names the response shape of a search.
type Intent string

// Response shapes, from least to most resolved.
const (
	IntentHelp  Intent = "help"
	IntentBrand Intent = "brand"
	IntentLine  Intent = "line"
	IntentSKU   Intent = "sku"
)

// Comparer matches listings against normalized queries and aggregates
// delivered prices. The corpus is reloaded on every query; at
// hundreds-of-rows-per-retailer scale that is cheaper than keeping an index
// coherent with files other processes rewrite.
type Comparer struct {
	Catalog     boxprice.CatalogService
	Listings    boxprice.ListingService
	PricePoints boxprice.PricePointService
	Logger      *slog.Logger

	DefaultShippingCents int64
	ShippingCents        map[string]int64
	TaxRates             map[string]float64

	// Now is the clock used to date persisted price points.
	Now func() time.Time
}

// Offer is one retailer's priced row in a response.
type Offer struct {
	Retailer     string `json:"retailer"`
	RetailerName string `json:"retailerName"`
	Authorized   bool   `json:"authorized"`

	Title string `json:"title"`
	URL   string `json:"url"`
	Line  string `json:"line"`
	Size  string `json:"size"`

	BaseCents      int64 `json:"baseCents"`
	DeliveredCents int64 `json:"deliveredCents"`
	InStock        bool  `json:"inStock"`
	Cheapest       bool  `json:"cheapest"`
}

// LineOffer is one row of the brand-shape response: a line and its cheapest
// delivered offer.
type LineOffer struct {
	Line  string `json:"line"`
	Offer *Offer `json:"offer"`

	relevance int
}

// SizeOffer is one row of the line-shape response: a size and its cheapest
// delivered offer.
type SizeOffer struct {
	Size  string `json:"size"`
	Offer *Offer `json:"offer"`
}

// Response is the result of one search.
type Response struct {
	Intent Intent                   `json:"intent"`
	Query  boxprice.NormalizedQuery `json:"query"`
	State  string                   `json:"state,omitempty"`

	Help   string       `json:"help,omitempty"`
	Lines  []*LineOffer `json:"lines,omitempty"`
	Sizes  []*SizeOffer `json:"sizes,omitempty"`
	Offers []*Offer     `json:"offers,omitempty"`
}

// DeliveredCents computes base + flat shipping + estimated tax. Unknown
// retailers get the default shipping rate; unknown states are taxed at zero.
func (c *Comparer) DeliveredCents(baseCents int64, retailerKey, state string) int64 {
	shipping, ok := c.ShippingCents[retailerKey]
	if !ok {
		shipping = c.DefaultShippingCents
	}
	tax := int64(float64(baseCents)*c.TaxRates[state] + 0.5)
	return baseCents + shipping + tax
}

// Search resolves a free-text query plus optional ZIP into one of the four
// response shapes. A fully resolved query additionally persists the day's
// cheapest delivered price point.
func (c *Comparer) Search(ctx context.Context, query, zip string) (*Response, error) {
	state := ZipToState(zip)

	brands, err := c.Catalog.Brands(ctx)
	if err != nil {
		return nil, err
	}
	corpus, err := c.Listings.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	auth := c.authorizedRetailers(ctx)

	nq := boxprice.NormalizeQuery(query, brands, corpus)
	resp := &Response{Query: nq, State: state}

	switch {
	case nq.Brand == "":
		resp.Intent = IntentHelp
		resp.Help = helpText
	case nq.Line == "":
		resp.Intent = IntentBrand
		resp.Lines = c.brandShape(nq, state, corpus, auth)
	case nq.Size == "":
		resp.Intent = IntentLine
		resp.Sizes = c.lineShape(nq, state, corpus, auth)
	default:
		resp.Intent = IntentSKU
		resp.Offers = c.skuShape(nq, state, corpus, auth)
		if err := c.recordCheapest(ctx, nq, resp.Offers); err != nil {
			return nil, err
		}
	}

	if c.Logger != nil {
		c.Logger.Info("search",
			"query", query,
			"intent", string(resp.Intent),
			"brand", nq.Brand,
			"line", nq.Line,
			"size", nq.Size,
			"state", state,
		)
	}
	return resp, nil
}

const helpText = `Could not resolve a brand from the query. Try a brand name, ` +
	`optionally followed by a line and a size, e.g. "padron 1964" or ` +
	`"arturo fuente hemingway 4.5x55".`

// brandShape keeps the cheapest delivered offer per line and ranks lines by
// query relevance, then cheapest delivered price. Out-of-stock rows count:
// the shape answers "what does this brand sell", not "what ships today".
func (c *Comparer) brandShape(nq boxprice.NormalizedQuery, state string, corpus []*boxprice.Listing, auth map[string]bool) []*LineOffer {
	qset := tokenSet(nq.Brand + " " + nq.Line)

	best := make(map[string]*LineOffer)
	var order []string
	for _, l := range corpus {
		if !strings.EqualFold(l.Brand, nq.Brand) || l.Line == "" || l.PriceState != boxprice.FieldOK {
			continue
		}
		offer := c.offer(l, state, auth)
		key := strings.ToLower(l.Line)
		lo, ok := best[key]
		if !ok {
			best[key] = &LineOffer{
				Line:      l.Line,
				Offer:     offer,
				relevance: overlapCount(qset, l.Line),
			}
			order = append(order, key)
			continue
		}
		if offer.DeliveredCents < lo.Offer.DeliveredCents {
			lo.Offer = offer
		}
	}

	lines := make([]*LineOffer, 0, len(order))
	for _, key := range order {
		lines = append(lines, best[key])
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].relevance != lines[j].relevance {
			return lines[i].relevance > lines[j].relevance
		}
		return lines[i].Offer.DeliveredCents < lines[j].Offer.DeliveredCents
	})
	return lines
}

// lineShape keeps the cheapest delivered offer per size, sorted by size.
func (c *Comparer) lineShape(nq boxprice.NormalizedQuery, state string, corpus []*boxprice.Listing, auth map[string]bool) []*SizeOffer {
	best := make(map[string]*SizeOffer)
	var order []string
	for _, l := range corpus {
		if !strings.EqualFold(l.Brand, nq.Brand) || !lineMatches(nq.Line, l.Line) {
			continue
		}
		if l.Size == "" || l.PriceState != boxprice.FieldOK {
			continue
		}
		offer := c.offer(l, state, auth)
		key := strings.ToLower(l.Size)
		so, ok := best[key]
		if !ok {
			best[key] = &SizeOffer{Size: l.Size, Offer: offer}
			order = append(order, key)
			continue
		}
		if offer.DeliveredCents < so.Offer.DeliveredCents {
			so.Offer = offer
		}
	}

	sizes := make([]*SizeOffer, 0, len(order))
	for _, key := range order {
		sizes = append(sizes, best[key])
	}
	sort.SliceStable(sizes, func(i, j int) bool {
		return sizeLess(sizes[i].Size, sizes[j].Size)
	})
	return sizes
}

// skuShape returns every matching offer sorted by delivered price, in-stock
// rows before out-of-stock, with the cheapest in-stock offer flagged.
func (c *Comparer) skuShape(nq boxprice.NormalizedQuery, state string, corpus []*boxprice.Listing, auth map[string]bool) []*Offer {
	var offers []*Offer
	for _, l := range corpus {
		if !strings.EqualFold(l.Brand, nq.Brand) || !lineMatches(nq.Line, l.Line) {
			continue
		}
		if !strings.EqualFold(l.Size, nq.Size) || l.PriceState != boxprice.FieldOK {
			continue
		}
		offers = append(offers, c.offer(l, state, auth))
	}

	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].InStock != offers[j].InStock {
			return offers[i].InStock
		}
		return offers[i].DeliveredCents < offers[j].DeliveredCents
	})
	for _, o := range offers {
		if o.InStock {
			o.Cheapest = true
			break
		}
	}
	return offers
}

// recordCheapest persists the day's cheapest in-stock delivered price for a
// fully resolved query. No in-stock offers means nothing to record.
func (c *Comparer) recordCheapest(ctx context.Context, nq boxprice.NormalizedQuery, offers []*Offer) error {
	for _, o := range offers {
		if !o.Cheapest {
			continue
		}
		now := time.Now
		if c.Now != nil {
			now = c.Now
		}
		return c.PricePoints.RecordPricePoint(ctx, &boxprice.PricePoint{
			Day:            now().UTC().Format("2006-01-02"),
			Brand:          nq.Brand,
			Line:           nq.Line,
			Size:           nq.Size,
			Source:         boxprice.SourceCheapest,
			DeliveredCents: o.DeliveredCents,
		})
	}
	return nil
}

func (c *Comparer) offer(l *boxprice.Listing, state string, auth map[string]bool) *Offer {
	return &Offer{
		Retailer:       l.Retailer,
		RetailerName:   l.RetailerName,
		Authorized:     auth[l.Retailer],
		Title:          l.Title,
		URL:            l.URL,
		Line:           l.Line,
		Size:           l.Size,
		BaseCents:      l.PriceCents,
		DeliveredCents: c.DeliveredCents(l.PriceCents, l.Retailer, state),
		InStock:        l.InStock,
	}
}

// authorizedRetailers snapshots the authorized-dealer flags once per search
// so every offer can carry them without re-reading the registry.
func (c *Comparer) authorizedRetailers(ctx context.Context) map[string]bool {
	auth := make(map[string]bool)
	retailers, err := c.Listings.Retailers(ctx)
	if err != nil {
		return auth
	}
	for _, r := range retailers {
		if r.Authorized {
			auth[r.Key] = true
		}
	}
	return auth
}

// lineMatches applies the loose bidirectional substring rule: either line
// containing the other after lowercasing counts as a match. Deliberately
// fuzzy; it absorbs naming drift between retailers at the cost of false
// positives.
func lineMatches(requested, actual string) bool {
	if requested == "" || actual == "" {
		return false
	}
	a, b := strings.ToLower(requested), strings.ToLower(actual)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// sizeLess orders LENGTHxRING sizes numerically by length then ring gauge,
// falling back to lexicographic order for unparseable sizes.
func sizeLess(a, b string) bool {
	al, ar, aok := splitSize(a)
	bl, br, bok := splitSize(b)
	if aok && bok {
		if al != bl {
			return al < bl
		}
		return ar < br
	}
	return a < b
}

func splitSize(s string) (length float64, ring int, ok bool) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return l, r, true
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(strings.ToLower(s)) {
		set[t] = struct{}{}
	}
	return set
}

func overlapCount(set map[string]struct{}, s string) int {
	n := 0
	for _, t := range strings.Fields(strings.ToLower(s)) {
		if _, ok := set[t]; ok {
			n++
		}
	}
	return n
}
