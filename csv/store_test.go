package csv_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/awisniewski/boxprice"
	"github.com/awisniewski/boxprice/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const famousCSV = `cigar_id,title,url,brand,line,wrapper,vitola,size,box_qty,price,in_stock
PADRON|PADRON|1964ANNIVERSARY|DIPLOMATICO|DIPLOMATICO|7x50|MAD|BOX25,Padron 1964 Anniversary Diplomatico,https://example.com/p1,Padron,1964 Anniversary,Maduro,Diplomatico,7x50,25,315.00,true
,Arturo Fuente Hemingway Short Story,https://example.com/p2,Arturo Fuente,Hemingway,Natural,Short Story,4.5x55,25,150.00,true
BAD|CID,Mystery Box,,Mystery,,nan,None,,,call for price,no
`

func writeStore(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testRetailers(dir string) []boxprice.Retailer {
	return []boxprice.Retailer{
		{Key: "famous", Name: "Famous Smoke Shop", Path: filepath.Join(dir, "famous.csv"), Authorized: true},
	}
}

func TestStore_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeStore(t, dir, "famous.csv", famousCSV)
	store := csv.NewStore(dir, testRetailers(dir))

	listings, err := store.Load(context.Background(), "famous")
	require.NoError(t, err)
	require.Len(t, listings, 3)

	first := listings[0]
	assert.Equal(t, "famous", first.Retailer)
	assert.Equal(t, "Famous Smoke Shop", first.RetailerName)
	assert.Equal(t, "PADRON|PADRON|1964ANNIVERSARY|DIPLOMATICO|DIPLOMATICO|7x50|MAD|BOX25", first.CigarID)
	assert.Equal(t, int64(31500), first.PriceCents)
	assert.Equal(t, boxprice.FieldOK, first.PriceState)
	assert.True(t, first.InStock)
	assert.True(t, first.Comparable())

	second := listings[1]
	assert.Empty(t, second.CigarID)
	assert.True(t, second.Comparable())

	third := listings[2]
	assert.Equal(t, "", third.Wrapper, "nan normalizes to blank")
	assert.Equal(t, "", third.Vitola, "None normalizes to blank")
	assert.Equal(t, boxprice.FieldInvalid, third.PriceState)
	assert.Equal(t, boxprice.FieldAbsent, third.BoxQtyState)
	assert.Equal(t, boxprice.DefaultBoxQty, third.BoxQty)
	assert.False(t, third.InStock)
	assert.False(t, third.Comparable())
}

func TestStore_Load_MissingFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := csv.NewStore(dir, testRetailers(dir))

	_, err := store.Load(context.Background(), "famous")
	require.Error(t, err)
	assert.Equal(t, boxprice.ENOTFOUND, boxprice.ErrorCode(err))
}

func TestStore_Load_UnknownRetailer(t *testing.T) {
	t.Parallel()

	store := csv.NewStore(t.TempDir(), nil)

	_, err := store.Load(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, boxprice.ENOTFOUND, boxprice.ErrorCode(err))
}

func TestStore_Retailers_DiscoveryExcludesBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeStore(t, dir, "famous.csv", famousCSV)
	writeStore(t, dir, "holts.csv", "cigar_id,title\n")
	writeStore(t, dir, "holts.backup.csv", "cigar_id,title\n")
	store := csv.NewStore(dir, nil)

	retailers, err := store.Retailers(context.Background())
	require.NoError(t, err)
	require.Len(t, retailers, 2)

	keys := []string{retailers[0].Key, retailers[1].Key}
	assert.ElementsMatch(t, []string{"famous", "holts"}, keys)
}

func TestStore_LoadAll_SkipsUnreadableStores(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeStore(t, dir, "famous.csv", famousCSV)
	writeStore(t, dir, "broken.csv", "cigar_id,title\n\"unterminated")
	store := csv.NewStore(dir, nil)

	listings, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 3, "broken store excluded, good store kept")
}

func TestStore_ContentHash(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeStore(t, dir, "famous.csv", famousCSV)
	store := csv.NewStore(dir, testRetailers(dir))
	ctx := context.Background()

	h1, err := store.ContentHash(ctx, "famous")
	require.NoError(t, err)
	assert.NotZero(t, h1)

	writeStore(t, dir, "famous.csv", famousCSV+"X,,,,,,,,,,\n")
	h2, err := store.ContentHash(ctx, "famous")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestStore_CountIdentifier_WholeTokenOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Two CIDs sharing a textual prefix.
	writeStore(t, dir, "famous.csv", `cigar_id,title
A|B|C|D|D|5x50|MAD|BOX25,one
A|B|C|D|D|5x50|MAD|BOX250,two
A|B|C|D|D|5x50|MAD|BOX25,three
`)
	store := csv.NewStore(dir, testRetailers(dir))

	n, err := store.CountIdentifier(context.Background(), "famous", "A|B|C|D|D|5x50|MAD|BOX25")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "prefix-sharing CID must not be counted")
}

func TestStore_ReplaceIdentifier(t *testing.T) {
	t.Parallel()

	t.Run("replaces whole tokens only", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeStore(t, dir, "famous.csv", `cigar_id,title
A|B|C|D|D|5x50|MAD|BOX25,one
A|B|C|D|D|5x50|MAD|BOX250,two
`)
		store := csv.NewStore(dir, testRetailers(dir))
		ctx := context.Background()

		n, err := store.ReplaceIdentifier(ctx, "famous", "A|B|C|D|D|5x50|MAD|BOX25", "Z|B|C|D|D|5x50|MAD|BOX25")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		listings, err := store.Load(ctx, "famous")
		require.NoError(t, err)
		assert.Equal(t, "Z|B|C|D|D|5x50|MAD|BOX25", listings[0].CigarID)
		assert.Equal(t, "A|B|C|D|D|5x50|MAD|BOX250", listings[1].CigarID, "prefix-sharing CID untouched")
	})

	t.Run("no references is a no-op", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeStore(t, dir, "famous.csv", famousCSV)
		store := csv.NewStore(dir, testRetailers(dir))

		n, err := store.ReplaceIdentifier(context.Background(), "famous", "NOT|PRESENT|X|X|X|1x1|MAD|BOX1", "Y")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("rename then rename back restores references", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeStore(t, dir, "famous.csv", famousCSV)
		store := csv.NewStore(dir, testRetailers(dir))
		ctx := context.Background()

		before, err := store.Load(ctx, "famous")
		require.NoError(t, err)

		oldCID := "PADRON|PADRON|1964ANNIVERSARY|DIPLOMATICO|DIPLOMATICO|7x50|MAD|BOX25"
		newCID := "PADRON|PADRON|1964ANNIVERSARY|DIPLOMATICO|DIPLOMATICO|7x50|NAT|BOX25"

		_, err = store.ReplaceIdentifier(ctx, "famous", oldCID, newCID)
		require.NoError(t, err)
		_, err = store.ReplaceIdentifier(ctx, "famous", newCID, oldCID)
		require.NoError(t, err)

		after, err := store.Load(ctx, "famous")
		require.NoError(t, err)
		require.Len(t, after, len(before))
		for i := range before {
			assert.Equal(t, before[i].CigarID, after[i].CigarID)
		}
	})
}

func TestWriteCatalog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := csv.WriteCatalog(&buf, []*boxprice.SKU{
		{
			CID: "PADRON|PADRON|1964ANNIVERSARY|DIPLOMATICO|DIPLOMATICO|7x50|MAD|BOX25",
			Brand: "Padron", ParentBrand: "Padron", Line: "1964 Anniversary",
			Wrapper: "Maduro", WrapperCode: "MAD", Vitola: "Diplomatico",
			Length: "7", RingGauge: "50", BoxQuantity: 25,
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "cigar_id,Brand,parent_brand")
	assert.Contains(t, out, "1964 Anniversary")
	assert.Contains(t, out, ",25,")
}
