// Package bloom provides fast CID set membership using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter over catalog CIDs. It answers "definitely not
// in the catalog" cheaply; a positive still needs an exact lookup.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a CID to the filter.
func (f *Filter) Add(cid string) {
	f.f.AddString(cid)
}

// Test returns true if the CID might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(cid string) bool {
	return f.f.TestString(cid)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
