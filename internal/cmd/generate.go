package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/generator"
	"github.com/willfong/restaurant-datagen/internal/metrics"
	"github.com/willfong/restaurant-datagen/internal/ui"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate restaurant sales history",
	Long: `Generate a brand's reference data and its sales history.

Phases, in order:
- bootstrap: brand, channels, payment types, suppliers, stores, catalog, customers
- product costs, operating expenses, fixed costs, channel commissions
- sales: one batch per N sales, each with product lines, items,
  payments and (for delivery channels) an address

Demand follows a weekday/hour profile plus a sales dip and a promotion
day. The same --seed always produces the same data.

Example:
  datagen generate --stores 50 --months 6 --db "postgres://u:p@localhost/sales" --create-schema
  datagen generate --sink mysql --db "user:pass@tcp(localhost:3306)/sales"
  datagen generate --sink csv --output-dir ./out --compress
  datagen generate --sink memory --seed 42          # Dry run`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.Int("stores", config.DefaultStores, "number of stores")
	f.Int("products", config.DefaultProducts, "number of products")
	f.Int("items", config.DefaultItems, "number of add-on items (capped by the item catalog)")
	f.Int("customers", config.DefaultCustomers, "number of registered customers")
	f.Int("suppliers", config.DefaultSuppliers, "number of suppliers")
	f.Int("months", config.DefaultMonths, "months of sales history to generate")
	f.Int64("seed", 0, "random seed for reproducibility (0 = random)")
	f.Int("batch-size", config.DefaultBatchSize, "sales per transaction")
	f.Int("workers", 0, "number of day-synthesis workers (0 = auto-detect CPUs)")
	f.String("sink", config.SinkPostgres, "output: postgres, mysql, csv or memory")
	f.String("db", "", "database DSN for the postgres and mysql sinks")
	f.String("output-dir", "./output", "output directory for the csv sink")
	f.Bool("compress", false, "compress csv output with xz (creates .csv.xz files)")
	f.Bool("create-schema", false, "create tables before the run and indexes after it")
	f.Bool("skip-financials", false, "skip product costs, expenses, fixed costs and commissions")
	f.Bool("skip-sales", false, "generate reference data only")
	f.String("metrics-listen", "", "serve Prometheus metrics on this address (e.g. :9100)")
	f.String("metrics-textfile", "", "write Prometheus metrics to this file when done")

	bindings := map[string]string{
		"generate.stores":          "stores",
		"generate.products":        "products",
		"generate.items":           "items",
		"generate.customers":       "customers",
		"generate.suppliers":       "suppliers",
		"generate.months":          "months",
		"generate.seed":            "seed",
		"generate.batch_size":      "batch-size",
		"generate.workers":         "workers",
		"generate.create_schema":   "create-schema",
		"generate.skip_financials": "skip-financials",
		"generate.skip_sales":      "skip-sales",
		"output.sink":              "sink",
		"output.dir":               "output-dir",
		"output.compress":          "compress",
		"database.dsn":             "db",
		"metrics.listen":           "metrics-listen",
		"metrics.textfile":         "metrics-textfile",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	u := ui.New()
	u.SetNoColor(noColor)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	u.Println(u.Header("Restaurant Data Generator"))
	u.Println("")
	u.Println(u.KeyValue("Sink", sinkTarget(cfg)))
	u.Println(u.KeyValue("Stores", fmt.Sprintf("%d", cfg.Generate.Stores)))
	u.Println(u.KeyValue("Products", fmt.Sprintf("%d (%d items)", cfg.Generate.Products, cfg.Generate.Items)))
	u.Println(u.KeyValue("Customers", fmt.Sprintf("%d", cfg.Generate.Customers)))
	u.Println(u.KeyValue("Months", fmt.Sprintf("%d", cfg.Generate.Months)))
	u.Println(u.KeyValue("Batch Size", fmt.Sprintf("%d", cfg.Generate.BatchSize)))
	u.Println(u.KeyValue("Workers", fmt.Sprintf("%d", generator.GetWorkerCount(cfg.Generate.Workers))))
	if cfg.Generate.Seed != 0 {
		u.Println(u.KeyValue("Seed", fmt.Sprintf("%d", cfg.Generate.Seed)))
	}

	m := metrics.New()
	if cfg.Metrics.Listen != "" {
		stopMetrics, err := m.Serve(ctx, cfg.Metrics.Listen, logger)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	store, pool, err := openStore(ctx, u, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}()

	u.Section("Generating")

	var progress generator.Progress
	var phases *ui.PhaseList
	if u.Styled() {
		phases = u.NewPhaseList(generator.Phases())
		if cfg.Generate.SkipFinancials {
			phases.Skip(generator.PhaseProductCosts)
			phases.Skip(generator.PhaseOperatingExpenses)
			phases.Skip(generator.PhaseFixedCosts)
			phases.Skip(generator.PhaseCommissions)
		}
		if cfg.Generate.SkipSales {
			phases.Skip(generator.PhaseSales)
		}
		progress = phases
	} else {
		progress = generator.NewTextProgress(os.Stderr, 0)
	}

	orch, err := generator.NewOrchestrator(generator.OrchestratorConfig{
		NumStores:      cfg.Generate.Stores,
		NumProducts:    cfg.Generate.Products,
		NumItems:       cfg.Generate.Items,
		NumCustomers:   cfg.Generate.Customers,
		NumSuppliers:   cfg.Generate.Suppliers,
		Months:         cfg.Generate.Months,
		BatchSize:      cfg.Generate.BatchSize,
		Workers:        cfg.Generate.Workers,
		Seed:           cfg.Generate.Seed,
		SkipSales:      cfg.Generate.SkipSales,
		SkipFinancials: cfg.Generate.SkipFinancials,
	}, generator.OrchestratorOptions{
		Store:    store,
		Metrics:  m,
		Logger:   logger,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	result, runErr := orch.Run(ctx)
	if runErr != nil && phases != nil {
		phases.Fail(runErr)
	}

	if runErr == nil && pool != nil && cfg.Generate.CreateSchema {
		if err := applySchema(ctx, u, pool, database.SchemaIndexes, "Creating indexes"); err != nil {
			runErr = err
		}
	}

	if pool != nil {
		stats := pool.Stats()
		m.SetPoolConnections(stats.OpenConnections, stats.InUse)
		logger.Debug("pool stats",
			"queries", stats.TotalQueries,
			"failed", stats.FailedQueries,
			"avg_latency", stats.AvgLatency,
			"wait_count", stats.WaitCount)
	}

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("metrics textfile", "error", err)
		}
	}

	u.Println(u.SummaryBox("Summary", summaryItems(cfg, result, runErr)))

	if csv, ok := store.(*database.CSVStore); ok {
		printPaths(u, csv.Paths())
	}

	if runErr != nil {
		return fmt.Errorf("generation %s: %w", runStatus(runErr), runErr)
	}
	return nil
}

// openStore builds the sink. pool is nil unless the sink is a database.
func openStore(ctx context.Context, u *ui.UI, cfg *config.Config) (database.Store, *database.Pool, error) {
	switch cfg.Output.Sink {
	case config.SinkPostgres, config.SinkMySQL:
		pool, err := database.NewPool(cfg.Database)
		if err != nil {
			return nil, nil, err
		}

		spinner := u.NewSpinner("Connecting to database")
		spinner.Start()
		if err := pool.Connect(ctx); err != nil {
			spinner.Error("Connection failed")
			pool.Close()
			return nil, nil, err
		}
		spinner.Success("Connected")

		if cfg.Generate.CreateSchema {
			if err := applySchema(ctx, u, pool, database.SchemaTables, "Creating tables"); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return database.NewSQLStore(pool, logger), pool, nil

	case config.SinkCSV:
		store, err := database.NewCSVStore(cfg.Output.Dir, cfg.Output.Compress, logger)
		if err != nil {
			if cfg.Output.Compress {
				fmt.Fprintln(os.Stderr, "Install with: apt install xz-utils (Linux) or brew install xz (macOS)")
			}
			return nil, nil, err
		}
		return store, nil, nil

	case config.SinkMemory:
		return database.NewMemoryStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown sink %q", cfg.Output.Sink)
	}
}

func applySchema(ctx context.Context, u *ui.UI, pool *database.Pool, kind, label string) error {
	spinner := u.NewSpinner(label)
	spinner.Start()
	if err := database.ApplySchema(ctx, pool, kind); err != nil {
		spinner.Error(label + " failed")
		return err
	}
	spinner.Success(label)
	return nil
}

func sinkTarget(cfg *config.Config) string {
	switch cfg.Output.Sink {
	case config.SinkCSV:
		if cfg.Output.Compress {
			return "csv (xz) -> " + cfg.Output.Dir
		}
		return "csv -> " + cfg.Output.Dir
	case config.SinkMemory:
		return "memory (dry run)"
	default:
		return cfg.Output.Sink + " -> " + maskDSN(cfg.Database.DSN)
	}
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return "failed"
	}
}

func summaryItems(cfg *config.Config, r *generator.Result, runErr error) []ui.KV {
	status := "Success"
	switch runStatus(runErr) {
	case "interrupted":
		status = "Interrupted (partial data committed)"
	case "failed":
		status = fmt.Sprintf("Failed (%s)", generator.ClassifyError(runErr))
	}

	items := []ui.KV{
		{Key: "Status", Value: status},
		{Key: "Stores", Value: fmt.Sprintf("%d (%d active)", r.Stores, r.ActiveStores)},
		{Key: "Products", Value: fmt.Sprintf("%d", r.Products)},
		{Key: "Items", Value: fmt.Sprintf("%d", r.Items)},
		{Key: "Customers", Value: ui.FormatCount(int64(r.Customers))},
	}

	if !cfg.Generate.SkipFinancials {
		items = append(items,
			ui.KV{Key: "Product Costs", Value: ui.FormatCount(int64(r.ProductCosts))},
			ui.KV{Key: "Expenses", Value: ui.FormatCount(int64(r.OperatingExpenses))},
			ui.KV{Key: "Fixed Costs", Value: ui.FormatCount(int64(r.FixedCosts))},
			ui.KV{Key: "Commissions", Value: fmt.Sprintf("%d", r.Commissions)},
		)
	}

	if !cfg.Generate.SkipSales {
		s := r.Sales
		items = append(items,
			ui.KV{Key: "Days", Value: fmt.Sprintf("%d/%d (%s to %s)", r.DaysWritten, r.DaysPlanned,
				r.Horizon.Start.Format(time.DateOnly), r.Horizon.End.Format(time.DateOnly))},
			ui.KV{Key: "Sales", Value: fmt.Sprintf("%s (%s cancelled)", ui.FormatCount(int64(s.Sales)), ui.FormatCount(int64(s.Cancelled)))},
			ui.KV{Key: "Lines/Sale", Value: fmt.Sprintf("%.2f", s.AvgLines())},
			ui.KV{Key: "Deliveries", Value: ui.FormatCount(int64(s.Deliveries))},
			ui.KV{Key: "Payments", Value: ui.FormatCount(int64(s.Payments))},
			ui.KV{Key: "Gross", Value: s.Gross.Format("BRL")},
			ui.KV{Key: "Paid", Value: s.Paid.Format("BRL")},
			ui.KV{Key: "Batches", Value: fmt.Sprintf("%d", r.Batches)},
		)
	}

	items = append(items,
		ui.KV{Key: "Duration", Value: ui.FormatDuration(r.Duration)},
		ui.KV{Key: "Seed", Value: fmt.Sprintf("%d", r.Seed)},
	)
	return items
}

func printPaths(u *ui.UI, paths map[string]string) {
	if len(paths) == 0 {
		return
	}
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	u.Section("Files")
	for _, name := range names {
		u.Println(u.TableRow(name, paths[name], ui.StatusSuccess))
	}
}
