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

func TestStatsCmd_Run(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	deps := testDeps(stdout, stderr)
	deps.Catalog = &mock.CatalogService{
		StatsFn: func(ctx context.Context) (*boxprice.CatalogStats, error) {
			return &boxprice.CatalogStats{
				TotalSKUs: 3,
				Brands:    2,
				Lines:     3,
				TopBrands: []boxprice.NameCount{
					{Name: "Padron", Count: 2},
					{Name: "Arturo Fuente", Count: 1},
				},
				WrapperCodes: []boxprice.NameCount{
					{Name: "MAD", Count: 2},
					{Name: "CAM", Count: 1},
				},
			}, nil
		},
	}

	err := (&main.StatsCmd{}).Run(deps)

	require.NoError(t, err)
	output := stdout.String()
	assert.Contains(t, output, "SKUs:   3")
	assert.Contains(t, output, "Brands: 2")
	assert.Contains(t, output, "Top brands:")
	assert.Contains(t, output, "Padron")
	assert.Contains(t, output, "MAD")
	assert.Empty(t, stderr.String())
}
