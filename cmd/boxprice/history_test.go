package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/awisniewski/boxprice"
	main "github.com/awisniewski/boxprice/cmd/boxprice"
	"github.com/awisniewski/boxprice/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints snapshots and changes", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.History = &mock.HistoryService{
			HistoryFn: func(ctx context.Context, cigarID string) ([]*boxprice.PriceSnapshot, error) {
				return []*boxprice.PriceSnapshot{
					{Retailer: "famous", CigarID: cigarID, Date: "2026-08-20", PriceCents: 15000, InStock: true},
					{Retailer: "famous", CigarID: cigarID, Date: "2026-08-21", PriceCents: 15500, InStock: false},
				}, nil
			},
			ChangesFn: func(ctx context.Context, cigarID string) ([]*boxprice.PriceChange, error) {
				return []*boxprice.PriceChange{
					{Retailer: "famous", CigarID: cigarID, Date: "2026-08-20", NewCents: 15000, ChangeType: boxprice.PriceChangeNew},
					{Retailer: "famous", CigarID: cigarID, Date: "2026-08-21", OldCents: 15000, NewCents: 15500, ChangeType: boxprice.PriceChangeIncrease},
				}, nil
			},
		}

		cmd := &main.HistoryCmd{CID: editCID}
		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "Price history for "+editCID)
		assert.Contains(t, output, "$150.00")
		assert.Contains(t, output, "out of stock")
		assert.Contains(t, output, "new at $150.00")
		assert.Contains(t, output, "increase: $150.00 -> $155.00")
	})

	t.Run("no history prints a notice", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.History = &mock.HistoryService{
			HistoryFn: func(ctx context.Context, cigarID string) ([]*boxprice.PriceSnapshot, error) {
				return nil, nil
			},
		}

		err := (&main.HistoryCmd{CID: editCID}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No price history")
	})
}
