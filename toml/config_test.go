package toml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/awisniewski/boxprice"
	"github.com/awisniewski/boxprice/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := toml.Default()

	assert.Equal(t, int64(999), cfg.DefaultShippingCents)
	assert.Equal(t, int64(895), cfg.ShippingCents["ci"])
	assert.Equal(t, 0.0, cfg.TaxRates["OR"])
	assert.Equal(t, 0.08, cfg.TaxRates["CA"])
	assert.NotEmpty(t, cfg.Retailers)

	keys := make(map[string]bool)
	for _, r := range cfg.Retailers {
		assert.False(t, keys[r.Key], "duplicate retailer key %s", r.Key)
		keys[r.Key] = true
	}
	assert.True(t, keys["famous"])
}

func TestLoad_PartialOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "boxprice.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir = "/tmp/listings"
default_shipping_cents = 1295

[tax_rates]
OR = 0.0
ID = 0.06
`), 0o644))

	cfg, err := toml.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/listings", cfg.DataDir)
	assert.Equal(t, int64(1295), cfg.DefaultShippingCents)
	assert.Equal(t, 0.06, cfg.TaxRates["ID"])
	assert.NotEmpty(t, cfg.Retailers, "defaults retained when file omits retailers")
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir = [unclosed"), 0o644))

	_, err := toml.Load(path)
	require.Error(t, err)
	assert.Equal(t, boxprice.EINVALID, boxprice.ErrorCode(err))
}

func TestDomainRetailers(t *testing.T) {
	t.Parallel()

	cfg := &toml.Config{
		DataDir: "/data",
		Retailers: []toml.Retailer{
			{Key: "famous", Name: "Famous Smoke Shop", Authorized: true},
			{Key: "holts", Name: "Holt's Cigar Company", CSV: "holts_custom.csv"},
		},
	}

	rs := cfg.DomainRetailers()
	require.Len(t, rs, 2)
	assert.Equal(t, filepath.Join("/data", "famous.csv"), rs[0].Path)
	assert.True(t, rs[0].Authorized)
	assert.Equal(t, filepath.Join("/data", "holts_custom.csv"), rs[1].Path)
}
