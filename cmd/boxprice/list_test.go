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

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints a table row per SKU", func(t *testing.T) {
		t.Parallel()

		var gotFilter boxprice.SKUFilter
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Catalog = &mock.CatalogService{
			FindSKUsFn: func(ctx context.Context, filter boxprice.SKUFilter) ([]*boxprice.SKU, error) {
				gotFilter = filter
				return []*boxprice.SKU{
					{
						CID: "PADRON|PADRON|1964ANNIVERSARY|DIPLOMATICO|DIPLOMATICO|7x50|MAD|BOX25",
						Brand: "Padron", Line: "1964 Anniversary", Vitola: "Diplomatico",
						Length: "7", RingGauge: "50", Wrapper: "Maduro", BoxQuantity: 25,
					},
				}, nil
			},
		}

		cmd := &main.ListCmd{Brand: "padron"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter.Brand)
		assert.Equal(t, "padron", *gotFilter.Brand)
		assert.Nil(t, gotFilter.Line)

		output := stdout.String()
		assert.Contains(t, output, "CID")
		assert.Contains(t, output, "Padron")
		assert.Contains(t, output, "7x50")
	})

	t.Run("shows helpful message when catalog is empty", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Catalog = &mock.CatalogService{
			FindSKUsFn: func(ctx context.Context, filter boxprice.SKUFilter) ([]*boxprice.SKU, error) {
				return nil, nil
			},
		}

		err := (&main.ListCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "boxprice add")
	})
}
