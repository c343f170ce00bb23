// Package boxprice maintains a price-comparison catalog for boxed cigars
// sold by many independent retailers. It keeps a single canonical identity
// (the CID) for every real-world SKU, audits independently-updated retailer
// listing files against the master catalog, and resolves free-text queries
// into the identity space to compute a cheapest delivered price.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, csv/, toml/).
package boxprice
