package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/awisniewski/boxprice"
	"github.com/awisniewski/boxprice/audit"
	"github.com/awisniewski/boxprice/rename"
	"github.com/awisniewski/boxprice/search"
	"github.com/awisniewski/boxprice/sqlite"
	"github.com/awisniewski/boxprice/toml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Config      *toml.Config
	DB          *sqlite.DB
	Catalog     boxprice.CatalogService
	Listings    boxprice.ListingService
	Replacer    boxprice.IdentifierReplacer
	PricePoints boxprice.PricePointService
	History     boxprice.HistoryService
	Auditor     *audit.Auditor
	Propagator  *rename.Propagator
	Comparer    *search.Comparer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Add       AddCmd       `cmd:"" help:"Add a SKU to the master catalog"`
	Edit      EditCmd      `cmd:"" help:"Edit a SKU's attributes (the CID never changes)"`
	List      ListCmd      `cmd:"" help:"List catalog SKUs"`
	RenameCID RenameCIDCmd `cmd:"" name:"rename-cid" help:"Rename a CID across every store"`
	Audit     AuditCmd     `cmd:"" help:"Cross-check listing stores against the catalog"`
	Export    ExportCmd    `cmd:"" help:"Export the catalog as CSV or XLSX"`
	Stats     StatsCmd     `cmd:"" help:"Show catalog statistics"`
	Search    SearchCmd    `cmd:"" help:"Search listings and compare delivered prices"`
	History   HistoryCmd   `cmd:"" help:"Show the price history for a CID"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Brand       string `required:"" help:"Brand name"`
	Line        string `required:"" help:"Product line"`
	Vitola      string `required:"" help:"Vitola (shape name)"`
	ParentBrand string `help:"Parent brand (defaults to brand)"`
	Wrapper     string `help:"Wrapper leaf name"`
	Length      string `help:"Length in inches"`
	Ring        string `help:"Ring gauge"`
	BoxQty      int    `default:"25" help:"Box quantity"`
	Binder      string `help:"Binder leaf"`
	Filler      string `help:"Filler leaf"`
	Strength    string `help:"Strength profile"`
	Style       string `help:"Style"`
	Country     string `name:"country" help:"Country of origin"`
	Factory     string `help:"Factory"`
	Notes       string `help:"Notes"`
}

// EditCmd is the "edit" subcommand. Only flags the caller passes are applied.
type EditCmd struct {
	CID string `arg:"" help:"CID of the SKU to edit"`

	Brand        *string `help:"Brand name"`
	ParentBrand  *string `help:"Parent brand"`
	Line         *string `help:"Product line"`
	Wrapper      *string `help:"Wrapper leaf name"`
	WrapperAlias *string `help:"Wrapper alias"`
	Vitola       *string `help:"Vitola"`
	Length       *string `help:"Length in inches"`
	Ring         *string `help:"Ring gauge"`
	BoxQty       *int    `help:"Box quantity"`
	Binder       *string `help:"Binder leaf"`
	Filler       *string `help:"Filler leaf"`
	Strength     *string `help:"Strength profile"`
	Style        *string `help:"Style"`
	Country      *string `name:"country" help:"Country of origin"`
	Factory      *string `help:"Factory"`
	Notes        *string `help:"Notes"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Brand   string `help:"Filter by brand substring"`
	Line    string `help:"Filter by line substring"`
	Wrapper string `help:"Filter by wrapper substring"`
	CID     string `help:"Filter by CID substring"`
	Limit   int    `help:"Maximum rows"`
	Offset  int    `help:"Rows to skip"`
}

// RenameCIDCmd is the "rename-cid" subcommand.
type RenameCIDCmd struct {
	OldCID string `arg:"" help:"Current CID"`
	NewCID string `arg:"" help:"New CID"`
	Yes    bool   `help:"Apply the rename (without this flag only the plan is printed)"`
}

// AuditCmd is the "audit" subcommand.
type AuditCmd struct {
	Xlsx string `help:"Also write the report as an XLSX workbook at this path" placeholder:"PATH"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Output string `short:"o" help:"Output file (default stdout)" placeholder:"PATH"`
	Xlsx   bool   `help:"Write an XLSX workbook instead of CSV (requires --output)"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Free-text query, e.g. 'padron 1964 7x50'"`
	Zip   string `help:"5-digit ZIP code for tax estimation"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	CID string `arg:"" help:"CID to show history for"`
}
