package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/awisniewski/boxprice/audit"
	"github.com/awisniewski/boxprice/csv"
	"github.com/awisniewski/boxprice/rename"
	"github.com/awisniewski/boxprice/search"
	boxslog "github.com/awisniewski/boxprice/slog"
	"github.com/awisniewski/boxprice/sqlite"
	"github.com/awisniewski/boxprice/toml"
	"github.com/joho/godotenv"
)

func main() {
	// A .env in the working directory can set BOXPRICE_* variables.
	_ = godotenv.Load()

	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Set before calling Run().
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: os.Getenv("BOXPRICE_CONFIG"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("boxprice"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'boxprice --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := m.loadConfig()
	if err != nil {
		return err
	}
	deps.Config = cfg

	dbPath := cfg.DBPath
	if env := os.Getenv("BOXPRICE_DB"); env != "" {
		dbPath = env
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set BOXPRICE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Catalog = sqlite.NewCatalogService(m.DB)
	deps.PricePoints = sqlite.NewPricePointService(m.DB)
	deps.History = sqlite.NewHistoryService(m.DB)

	store := csv.NewStore(cfg.DataDir, cfg.DomainRetailers())
	deps.Replacer = store
	deps.Listings = store
	if cli.Verbose {
		deps.Listings = boxslog.NewLoggingListingService(store, deps.Logger)
	}

	deps.Auditor = &audit.Auditor{
		Catalog:  deps.Catalog,
		Listings: deps.Listings,
		Logger:   deps.Logger,
	}
	deps.Propagator = &rename.Propagator{
		Catalog:  deps.Catalog,
		Listings: deps.Listings,
		Replacer: deps.Replacer,
		History:  deps.History,
		Logger:   deps.Logger,
	}
	deps.Comparer = &search.Comparer{
		Catalog:              deps.Catalog,
		Listings:             deps.Listings,
		PricePoints:          deps.PricePoints,
		Logger:               deps.Logger,
		DefaultShippingCents: cfg.DefaultShippingCents,
		ShippingCents:        cfg.ShippingCents,
		TaxRates:             cfg.TaxRates,
		Now:                  time.Now,
	}

	return kongCtx.Run(deps)
}

// loadConfig reads the TOML config, falling back to the compiled-in defaults
// when no file is configured or present.
func (m *Main) loadConfig() (*toml.Config, error) {
	path := m.ConfigPath
	if path == "" {
		path = "boxprice.toml"
		if _, err := os.Stat(path); err != nil {
			cfg := toml.Default()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
	}
	cfg, err := toml.Load(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *toml.Config) {
	if dir := os.Getenv("BOXPRICE_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
}
