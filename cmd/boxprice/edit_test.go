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

const editCID = "PADRON|PADRON|1964ANNIVERSARY|DIPLOMATICO|DIPLOMATICO|7x50|MAD|BOX25"

func TestEditCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("applies only passed flags", func(t *testing.T) {
		t.Parallel()

		var gotUpd boxprice.SKUUpdate
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Catalog = &mock.CatalogService{
			UpdateSKUFn: func(ctx context.Context, cid string, upd boxprice.SKUUpdate) (*boxprice.SKU, error) {
				gotUpd = upd
				return &boxprice.SKU{
					CID: cid, Brand: "Padron", ParentBrand: "Padron",
					Line: "1964 Anniversary", Wrapper: "Maduro",
					Vitola: "Diplomatico", Length: "7", RingGauge: "50",
					BoxQuantity: 25, Notes: *upd.Notes,
				}, nil
			},
		}

		notes := "re-banded"
		cmd := &main.EditCmd{CID: editCID, Notes: &notes}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Updated SKU")
		require.NotNil(t, gotUpd.Notes)
		assert.Equal(t, "re-banded", *gotUpd.Notes)
		assert.Nil(t, gotUpd.Brand, "unset flags stay nil")
		assert.NotContains(t, stdout.String(), "rename-cid", "no divergence note when attributes still match")
	})

	t.Run("warns when attributes diverge from the CID", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Catalog = &mock.CatalogService{
			UpdateSKUFn: func(ctx context.Context, cid string, upd boxprice.SKUUpdate) (*boxprice.SKU, error) {
				return &boxprice.SKU{
					CID: cid, Brand: "Padron", ParentBrand: "Padron",
					Line: "1964 Anniversary", Wrapper: *upd.Wrapper,
					Vitola: "Diplomatico", Length: "7", RingGauge: "50",
					BoxQuantity: 25,
				}, nil
			},
		}

		wrapper := "Candela"
		cmd := &main.EditCmd{CID: editCID, Wrapper: &wrapper}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "rename-cid")
	})

	t.Run("unknown CID suggests close matches", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := testDeps(stdout, stderr)
		deps.Catalog = &mock.CatalogService{
			UpdateSKUFn: func(ctx context.Context, cid string, upd boxprice.SKUUpdate) (*boxprice.SKU, error) {
				return nil, boxprice.Errorf(boxprice.ENOTFOUND, "SKU with CID %q not found", cid)
			},
			ExportSKUsFn: func(ctx context.Context) ([]*boxprice.SKU, error) {
				return []*boxprice.SKU{{CID: editCID}}, nil
			},
		}

		// One token off from the real CID.
		cmd := &main.EditCmd{CID: "PADRON|PADRON|1964ANNIVERSARY|DIPLOMATICO|DIPLOMATICO|7x50|NAT|BOX25"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "not found")
		assert.Contains(t, stderr.String(), "Did you mean")
		assert.Contains(t, stderr.String(), editCID)
	})
}
