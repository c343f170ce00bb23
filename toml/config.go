// Package toml provides TOML-based configuration for boxprice: the retailer
// registry, shipping and tax tables, and store paths.
package toml

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/awisniewski/boxprice"
	"github.com/pelletier/go-toml/v2"
)

// Config holds everything the CLI needs to wire stores and pricing.
type Config struct {
	// DataDir is the directory holding one CSV listing store per retailer.
	DataDir string `toml:"data_dir"`

	// DBPath is the SQLite database holding the master catalog, price
	// points and price history.
	DBPath string `toml:"db_path"`

	// DefaultShippingCents applies to retailers absent from ShippingCents.
	DefaultShippingCents int64 `toml:"default_shipping_cents"`

	// ShippingCents is the flat shipping estimate per retailer key.
	ShippingCents map[string]int64 `toml:"shipping_cents"`

	// TaxRates maps a two-letter state code to its estimated tax rate.
	// Unknown states are taxed at zero.
	TaxRates map[string]float64 `toml:"tax_rates"`

	// Retailers is the listing store registry.
	Retailers []Retailer `toml:"retailers"`
}

// Retailer is one listing-store registry entry.
type Retailer struct {
	Key        string `toml:"key"`
	Name       string `toml:"name"`
	CSV        string `toml:"csv"` // file name relative to DataDir
	Authorized bool   `toml:"authorized"`
}

// Load reads a TOML config file over the defaults, so a partial file only
// overrides what it names.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, boxprice.Errorf(boxprice.EINVALID, "malformed config %q: %s", path, err)
	}
	return cfg, nil
}

// DomainRetailers converts the registry into domain records with resolved
// store paths.
func (c *Config) DomainRetailers() []boxprice.Retailer {
	out := make([]boxprice.Retailer, 0, len(c.Retailers))
	for _, r := range c.Retailers {
		csv := r.CSV
		if csv == "" {
			csv = r.Key + ".csv"
		}
		out = append(out, boxprice.Retailer{
			Key:        r.Key,
			Name:       r.Name,
			Path:       filepath.Join(c.DataDir, csv),
			Authorized: r.Authorized,
		})
	}
	return out
}

// Default returns the compiled-in configuration: the production retailer
// registry and the demo shipping/tax tables.
func Default() *Config {
	return &Config{
		DataDir:              "static/data",
		DBPath:               "data/boxprice.db",
		DefaultShippingCents: 999,
		ShippingCents: map[string]int64{
			"famous": 999,
			"ci":     895,
		},
		TaxRates: map[string]float64{
			"CA": 0.08,
			"NY": 0.08,
			"TX": 0.06,
			"FL": 0.06,
			"OR": 0.0,
			"WA": 0.065,
			"NH": 0.0,
			"MT": 0.0,
			"DE": 0.0,
		},
		Retailers: []Retailer{
			{Key: "abcfws", Name: "ABC Fine Wine & Spirits"},
			{Key: "absolutecigars", Name: "Absolute Cigars"},
			{Key: "atlantic", Name: "Atlantic Cigar"},
			{Key: "bestcigar", Name: "Best Cigar Prices"},
			{Key: "bighumidor", Name: "Big Humidor"},
			{Key: "bonitasmokeshop", Name: "Bonita Smoke Shop"},
			{Key: "casademontecristo", Name: "Casa de Montecristo"},
			{Key: "cccrafter", Name: "CC Crafter"},
			{Key: "cdmcigars", Name: "CDM Cigars"},
			{Key: "ci", Name: "Cigars International", Authorized: true},
			{Key: "cigar", Name: "Cigar.com", Authorized: true},
			{Key: "cigarboxpa", Name: "Cigar Box PA"},
			{Key: "cigarcellarofmiami", Name: "Cigar Cellar of Miami"},
			{Key: "cigarcountry", Name: "Cigar Country"},
			{Key: "cigarhustler", Name: "Cigar Hustler"},
			{Key: "cigarking", Name: "Cigar King"},
			{Key: "cigarplace", Name: "Cigar Place"},
			{Key: "cigarsdirect", Name: "Cigars Direct"},
			{Key: "corona", Name: "Corona Cigar"},
			{Key: "cubancrafters", Name: "Cuban Crafters"},
			{Key: "cuencacigars", Name: "Cuenca Cigars"},
			{Key: "famous", Name: "Famous Smoke Shop", Authorized: true},
			{Key: "hilands", Name: "Hiland's Cigars"},
			{Key: "holts", Name: "Holt's Cigar Company"},
			{Key: "jr", Name: "JR Cigar"},
			{Key: "lmcigars", Name: "LM Cigars"},
			{Key: "mikescigars", Name: "Mike's Cigars"},
			{Key: "momscigars", Name: "Mom's Cigars"},
			{Key: "neptune", Name: "Neptune Cigar"},
			{Key: "niceashcigars", Name: "Nice Ash Cigars"},
			{Key: "nickscigarworld", Name: "Nick's Cigar World"},
			{Key: "oldhavana", Name: "Old Havana Cigar Co."},
			{Key: "pipesandcigars", Name: "Pipes and Cigars"},
			{Key: "planetcigars", Name: "Planet Cigars"},
			{Key: "santamonicacigars", Name: "Santa Monica Cigars"},
			{Key: "secretocigarbar", Name: "Secreto Cigar Bar"},
			{Key: "smallbatchcigar", Name: "Small Batch Cigar"},
			{Key: "smokeinn", Name: "Smoke Inn"},
			{Key: "tampasweethearts", Name: "Tampa Sweethearts"},
			{Key: "thecigarshop", Name: "The Cigar Shop"},
			{Key: "thecigarstore", Name: "The Cigar Store"},
			{Key: "thompson", Name: "Thompson Cigar", Authorized: true},
			{Key: "tobaccolocker", Name: "Tobacco Locker"},
			{Key: "twoguys", Name: "Two Guys Smoke Shop"},
			{Key: "watchcity", Name: "Watch City Cigar"},
			{Key: "windycitycigars", Name: "Windy City Cigars"},
		},
	}
}
