package csv

import (
	stdcsv "encoding/csv"
	"io"
	"strconv"

	"github.com/awisniewski/boxprice"
)

// catalogHeader preserves the master spreadsheet's original column names.
var catalogHeader = []string{
	"cigar_id", "Brand", "parent_brand", "Line", "Wrapper", "Wrapper_Alias",
	"wrapper_code", "Vitola", "Length", "Ring Gauge", "Binder", "Filler",
	"Strength", "Box Quantity", "Style", "country_of_origin", "factory",
	"notes",
}

// WriteCatalog writes a catalog snapshot as CSV. Internal timestamps are
// not exported.
func WriteCatalog(w io.Writer, skus []*boxprice.SKU) error {
	cw := stdcsv.NewWriter(w)
	if err := cw.Write(catalogHeader); err != nil {
		return err
	}
	for _, s := range skus {
		row := []string{
			s.CID, s.Brand, s.ParentBrand, s.Line, s.Wrapper, s.WrapperAlias,
			s.WrapperCode, s.Vitola, s.Length, s.RingGauge, s.Binder,
			s.Filler, s.Strength, strconv.Itoa(s.BoxQuantity), s.Style,
			s.CountryOfOrigin, s.Factory, s.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
