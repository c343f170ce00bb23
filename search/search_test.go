package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/awisniewski/boxprice"
	"github.com/awisniewski/boxprice/mock"
	"github.com/awisniewski/boxprice/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hemingwayCorpus() []*boxprice.Listing {
	return []*boxprice.Listing{
		{
			Retailer: "famous", RetailerName: "Famous Smoke Shop",
			Title: "Arturo Fuente Hemingway Short Story", Brand: "Arturo Fuente",
			Line: "Hemingway", Size: "4.5x55",
			PriceCents: 15000, PriceState: boxprice.FieldOK, InStock: true,
		},
		{
			Retailer: "holts", RetailerName: "Holt's Cigar Company",
			Title: "AF Hemingway Short Story Box", Brand: "Arturo Fuente",
			Line: "Hemingway", Size: "4.5x55",
			PriceCents: 16000, PriceState: boxprice.FieldOK, InStock: true,
		},
		{
			Retailer: "ci", RetailerName: "Cigars International",
			Title: "Arturo Fuente Hemingway Classic", Brand: "Arturo Fuente",
			Line: "Hemingway", Size: "7x48",
			PriceCents: 18500, PriceState: boxprice.FieldOK, InStock: true,
		},
		{
			Retailer: "jr", RetailerName: "JR Cigar",
			Title: "Arturo Fuente Hemingway Short Story", Brand: "Arturo Fuente",
			Line: "Hemingway", Size: "4.5x55",
			PriceCents: 14000, PriceState: boxprice.FieldOK, InStock: false,
		},
		{
			Retailer: "famous", RetailerName: "Famous Smoke Shop",
			Title: "Arturo Fuente Don Carlos No. 3", Brand: "Arturo Fuente",
			Line: "Don Carlos", Size: "5.5x44",
			PriceCents: 21000, PriceState: boxprice.FieldOK, InStock: true,
		},
	}
}

// newComparer wires a Comparer over a fixed corpus. Recorded price points
// are appended to the returned slice.
func newComparer(corpus []*boxprice.Listing) (*search.Comparer, *[]*boxprice.PricePoint) {
	var recorded []*boxprice.PricePoint
	c := &search.Comparer{
		Catalog: &mock.CatalogService{
			BrandsFn: func(ctx context.Context) ([]string, error) {
				return []string{"Arturo Fuente", "Padron"}, nil
			},
		},
		Listings: &mock.ListingService{
			LoadAllFn: func(ctx context.Context) ([]*boxprice.Listing, error) {
				return corpus, nil
			},
			RetailersFn: func(ctx context.Context) ([]boxprice.Retailer, error) {
				return []boxprice.Retailer{
					{Key: "famous", Name: "Famous Smoke Shop", Authorized: true},
					{Key: "holts", Name: "Holt's Cigar Company"},
				}, nil
			},
		},
		PricePoints: &mock.PricePointService{
			RecordPricePointFn: func(ctx context.Context, pp *boxprice.PricePoint) error {
				recorded = append(recorded, pp)
				return nil
			},
		},
		DefaultShippingCents: 999,
		ShippingCents:        map[string]int64{"famous": 995, "holts": 1495},
		TaxRates:             map[string]float64{"CA": 0.08},
		Now: func() time.Time {
			return time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
		},
	}
	return c, &recorded
}

func TestComparer_DeliveredCents(t *testing.T) {
	t.Parallel()

	c, _ := newComparer(nil)

	t.Run("base plus flat shipping, zero tax for unmapped state", func(t *testing.T) {
		t.Parallel()

		// $150.00 + $9.95 shipping, unmapped state.
		assert.Equal(t, int64(15995), c.DeliveredCents(15000, "famous", ""))
		// $160.00 + $14.95 shipping.
		assert.Equal(t, int64(17495), c.DeliveredCents(16000, "holts", ""))
	})

	t.Run("unknown retailer uses default shipping", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, int64(15999), c.DeliveredCents(15000, "nobody", ""))
	})

	t.Run("mapped state adds rounded tax", func(t *testing.T) {
		t.Parallel()

		// $150.00 * 0.08 = $12.00 tax.
		assert.Equal(t, int64(15000+995+1200), c.DeliveredCents(15000, "famous", "CA"))
	})

	t.Run("strictly increasing in base price", func(t *testing.T) {
		t.Parallel()

		prev := c.DeliveredCents(0, "famous", "CA")
		for base := int64(1); base < 2000; base++ {
			d := c.DeliveredCents(base, "famous", "CA")
			assert.Greater(t, d, prev)
			prev = d
		}
	})
}

func TestZipToState(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OR", search.ZipToState("97201"))
	assert.Equal(t, "WA", search.ZipToState("98101"))
	assert.Equal(t, "CA", search.ZipToState("90210"))
	assert.Equal(t, "MA", search.ZipToState("02134"))
	assert.Equal(t, "TX", search.ZipToState("75001"))

	assert.Empty(t, search.ZipToState(""), "blank is not a ZIP")
	assert.Empty(t, search.ZipToState("9720"), "too short")
	assert.Empty(t, search.ZipToState("972011"), "too long")
	assert.Empty(t, search.ZipToState("97x01"), "non-digit")
}

func TestComparer_Search(t *testing.T) {
	t.Parallel()

	t.Run("unresolved brand returns help", func(t *testing.T) {
		t.Parallel()

		c, recorded := newComparer(hemingwayCorpus())
		resp, err := c.Search(context.Background(), "xyzzy unknown thing", "")
		require.NoError(t, err)
		assert.Equal(t, search.IntentHelp, resp.Intent)
		assert.NotEmpty(t, resp.Help)
		assert.Empty(t, resp.Offers)
		assert.Empty(t, *recorded)
	})

	t.Run("brand only returns one row per line", func(t *testing.T) {
		t.Parallel()

		c, _ := newComparer(hemingwayCorpus())
		resp, err := c.Search(context.Background(), "Arturo Fuente", "")
		require.NoError(t, err)
		assert.Equal(t, search.IntentBrand, resp.Intent)
		require.Len(t, resp.Lines, 2)

		lines := map[string]bool{}
		for _, lo := range resp.Lines {
			lines[lo.Line] = true
			require.NotNil(t, lo.Offer)
		}
		assert.True(t, lines["Hemingway"])
		assert.True(t, lines["Don Carlos"])
	})

	t.Run("brand and line returns cheapest per size sorted", func(t *testing.T) {
		t.Parallel()

		c, _ := newComparer(hemingwayCorpus())
		resp, err := c.Search(context.Background(), "Arturo Fuente Hemingway", "")
		require.NoError(t, err)
		assert.Equal(t, search.IntentLine, resp.Intent)
		require.Len(t, resp.Sizes, 2)

		assert.Equal(t, "4.5x55", resp.Sizes[0].Size, "sizes sort numerically by length")
		assert.Equal(t, "7x48", resp.Sizes[1].Size)
		// Cheapest 4.5x55 offer by delivered price: jr 14000+999=14999
		// beats famous 15000+995=15995.
		assert.Equal(t, "jr", resp.Sizes[0].Offer.Retailer)
	})

	t.Run("full sku query flags cheapest and records a price point", func(t *testing.T) {
		t.Parallel()

		c, recorded := newComparer(hemingwayCorpus())
		resp, err := c.Search(context.Background(), "Arturo Fuente Hemingway 4.5x55", "")
		require.NoError(t, err)
		assert.Equal(t, search.IntentSKU, resp.Intent)
		require.Len(t, resp.Offers, 3)

		// In-stock rows first, then out-of-stock, each by delivered price.
		assert.Equal(t, "famous", resp.Offers[0].Retailer)
		assert.True(t, resp.Offers[0].Cheapest)
		assert.Equal(t, int64(15995), resp.Offers[0].DeliveredCents)
		assert.True(t, resp.Offers[0].Authorized)

		assert.Equal(t, "holts", resp.Offers[1].Retailer)
		assert.False(t, resp.Offers[1].Cheapest)
		assert.Equal(t, int64(17495), resp.Offers[1].DeliveredCents)
		assert.False(t, resp.Offers[1].Authorized)

		assert.Equal(t, "jr", resp.Offers[2].Retailer, "out of stock sorts last")
		assert.False(t, resp.Offers[2].InStock)
		assert.False(t, resp.Offers[2].Cheapest, "out of stock never flagged cheapest")

		cheapest := 0
		for _, o := range resp.Offers {
			if o.Cheapest {
				cheapest++
			}
		}
		assert.Equal(t, 1, cheapest, "exactly one cheapest flag")

		require.Len(t, *recorded, 1)
		pp := (*recorded)[0]
		assert.Equal(t, "2026-08-23", pp.Day)
		assert.Equal(t, "Arturo Fuente", pp.Brand)
		assert.Equal(t, "Hemingway", pp.Line)
		assert.Equal(t, "4.5x55", pp.Size)
		assert.Equal(t, boxprice.SourceCheapest, pp.Source)
		assert.Equal(t, int64(15995), pp.DeliveredCents)
	})

	t.Run("sku query with no in-stock offers records nothing", func(t *testing.T) {
		t.Parallel()

		corpus := hemingwayCorpus()
		for _, l := range corpus {
			l.InStock = false
		}
		c, recorded := newComparer(corpus)

		resp, err := c.Search(context.Background(), "Arturo Fuente Hemingway 4.5x55", "")
		require.NoError(t, err)
		assert.Equal(t, search.IntentSKU, resp.Intent)
		assert.Empty(t, *recorded)
		for _, o := range resp.Offers {
			assert.False(t, o.Cheapest)
		}
	})

	t.Run("zip resolves a state and changes delivered price", func(t *testing.T) {
		t.Parallel()

		c, _ := newComparer(hemingwayCorpus())
		// 90210 -> CA -> 8% tax on base.
		resp, err := c.Search(context.Background(), "Arturo Fuente Hemingway 4.5x55", "90210")
		require.NoError(t, err)
		assert.Equal(t, "CA", resp.State)
		assert.Equal(t, int64(15000+995+1200), resp.Offers[0].DeliveredCents)
	})

	t.Run("line fallback query resolves via token overlap", func(t *testing.T) {
		t.Parallel()

		c, _ := newComparer(hemingwayCorpus())
		resp, err := c.Search(context.Background(), "Hemingway Short Story", "")
		require.NoError(t, err)
		assert.Equal(t, "Arturo Fuente", resp.Query.Brand)
		assert.Equal(t, "Hemingway", resp.Query.Line)
		assert.Equal(t, search.IntentLine, resp.Intent)
	})
}
