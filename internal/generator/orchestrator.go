package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/data"
	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/generator/patterns"
	"github.com/willfong/restaurant-datagen/internal/metrics"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// Phase names, in run order
const (
	PhaseBootstrap         = "bootstrap"
	PhaseProductCosts      = "product costs"
	PhaseOperatingExpenses = "operating expenses"
	PhaseFixedCosts        = "fixed costs"
	PhaseCommissions       = "commissions"
	PhaseSales             = "sales"
)

// Phases lists the phases a full run goes through
func Phases() []string {
	return []string{
		PhaseBootstrap, PhaseProductCosts, PhaseOperatingExpenses,
		PhaseFixedCosts, PhaseCommissions, PhaseSales,
	}
}

// Progress receives phase and day updates. Calls come from the goroutine
// that called Run.
type Progress interface {
	PhaseStarted(name string)
	PhaseDone(name string, count int64, d time.Duration)
	DaysPlanned(total int)
	DayWritten(day time.Time, sales int)
}

type nopProgress struct{}

func (nopProgress) PhaseStarted(string) {}
func (nopProgress) PhaseDone(string, int64, time.Duration) {}
func (nopProgress) DaysPlanned(int) {}
func (nopProgress) DayWritten(time.Time, int) {}

// Orchestrator runs a full generation: reference data, validity ranges and
// the day-by-day sales history.
type Orchestrator struct {
	rng      *utils.Random
	faker    *Faker
	tables   *config.Tables
	store    database.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	progress Progress
	config   OrchestratorConfig
}

// OrchestratorConfig holds settings for the orchestrator
type OrchestratorConfig struct {
	NumStores    int
	NumProducts  int
	NumItems     int
	NumCustomers int
	NumSuppliers int
	Months       int

	// Sales per persistence transaction
	BatchSize int
	// Parallel day synthesis (0 = auto-detect CPUs)
	Workers int

	// Daily demand before multipliers; zero means the compiled defaults
	DemandMean   float64
	DemandStdDev float64

	Seed int64
	// Now fixes the clock; zero means time.Now()
	Now time.Time

	SkipSales      bool
	SkipFinancials bool
}

// OrchestratorOptions holds the collaborators of the orchestrator
type OrchestratorOptions struct {
	Store    database.Store
	Tables   *config.Tables
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Progress Progress
}

// Result holds what a run committed. On error it reports the partial
// counts up to the last committed batch.
type Result struct {
	Seed uint64

	Stores       int
	ActiveStores int
	Products     int
	Items        int
	Customers    int
	Suppliers    int
	Channels     int

	ProductCosts      int
	OperatingExpenses int
	FixedCosts        int
	Commissions       int

	Sales       Totals
	Horizon     patterns.Horizon
	DaysPlanned int
	DaysWritten int
	Batches     int

	Duration time.Duration
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(cfg OrchestratorConfig, opts OrchestratorOptions) (*Orchestrator, error) {
	if opts.Store == nil {
		return nil, configErr("", "a store is required")
	}

	vocab, err := data.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference vocabulary: %w", err)
	}

	tables := opts.Tables
	if tables == nil {
		tables = config.NewTables()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	progress := opts.Progress
	if progress == nil {
		progress = nopProgress{}
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.DefaultBatchSize
	}
	if cfg.DemandMean == 0 {
		cfg.DemandMean = config.DemandMean
		cfg.DemandStdDev = config.DemandStdDev
	}

	return &Orchestrator{
		rng:      utils.NewRandom(cfg.Seed),
		faker:    NewFaker(vocab),
		tables:   tables,
		store:    opts.Store,
		metrics:  opts.Metrics,
		logger:   logger,
		progress: progress,
		config:   cfg,
	}, nil
}

// Run executes every phase in order. The returned Result is never nil.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	began := time.Now()
	result := &Result{
		Seed:    o.rng.Seed(),
		Horizon: patterns.NewHorizon(o.config.Now, o.config.Months, config.DaysPerMonth),
	}
	defer func() { result.Duration = time.Since(began) }()

	// Fork every stream up front so skipping a phase does not shift the others
	bootstrapRNG := o.rng.Fork()
	validityRNG := o.rng.Fork()
	anomalyRNG := o.rng.Fork()
	salesRNG := o.rng.Fork()

	o.logger.Info("generation started",
		"seed", result.Seed,
		"months", o.config.Months,
		"horizon_start", result.Horizon.Start.Format(time.DateOnly),
		"horizon_end", result.Horizon.End.Format(time.DateOnly))

	// 1. Reference data
	var ref *ReferenceSet
	err := o.phase(PhaseBootstrap, func() (int, error) {
		gen := NewReferenceGenerator(bootstrapRNG, o.faker, o.tables, o.store, o.logger, ReferenceGeneratorConfig{
			NumStores:    o.config.NumStores,
			NumProducts:  o.config.NumProducts,
			NumItems:     o.config.NumItems,
			NumCustomers: o.config.NumCustomers,
			NumSuppliers: o.config.NumSuppliers,
			Now:          o.config.Now,
		})
		var err error
		ref, err = gen.Generate(ctx)
		if err != nil {
			return 0, err
		}
		result.Stores = len(ref.Stores)
		result.ActiveStores = len(ref.ActiveStores())
		result.Products = len(ref.Products)
		result.Items = len(ref.Items)
		result.Customers = len(ref.CustomerIDs)
		result.Suppliers = len(ref.Suppliers)
		result.Channels = len(ref.Channels)
		return result.Stores + result.Products + result.Items + result.Customers + result.Suppliers, nil
	})
	if err != nil {
		return result, err
	}

	// 2. Validity ranges
	if !o.config.SkipFinancials {
		if err := o.runFinancials(ctx, ref, validityRNG, result); err != nil {
			return result, err
		}
	}

	// 3. Sales
	if !o.config.SkipSales {
		err := o.phase(PhaseSales, func() (int, error) {
			err := o.runSales(ctx, ref, anomalyRNG, salesRNG, result)
			return result.Sales.Sales, err
		})
		if err != nil {
			return result, err
		}
	}

	o.logger.Info("generation finished",
		"sales", result.Sales.Sales,
		"days", result.DaysWritten,
		"batches", result.Batches,
		"duration", time.Since(began))

	return result, nil
}

// phase times fn and reports it to the progress sink, metrics and log
func (o *Orchestrator) phase(name string, fn func() (int, error)) error {
	o.progress.PhaseStarted(name)
	began := time.Now()

	n, err := fn()
	d := time.Since(began)
	if err != nil {
		o.logger.Error("phase failed", "phase", name, "error", err, "type", ClassifyError(err))
		return err
	}

	o.progress.PhaseDone(name, int64(n), d)
	o.metrics.PhaseDone(name, d)
	o.logger.Info("phase done", "phase", name, "count", n, "duration", d)
	return nil
}

func (o *Orchestrator) runFinancials(ctx context.Context, ref *ReferenceSet, rng *utils.Random, result *Result) error {
	gen := NewValidityGenerator(rng, o.tables, ValidityGeneratorConfig{
		Start:  result.Horizon.Start,
		Months: o.config.Months,
		Now:    o.config.Now,
	})

	err := o.phase(PhaseProductCosts, func() (int, error) {
		costs, err := gen.ProductCosts(ref.Products, ref.Suppliers)
		if err != nil {
			return 0, err
		}
		rows := make([][]any, len(costs))
		for i := range costs {
			rows[i] = productCostRow(&costs[i])
		}
		result.ProductCosts, err = o.writeRecords(ctx, database.ProductCosts, rows)
		return result.ProductCosts, err
	})
	if err != nil {
		return err
	}

	err = o.phase(PhaseOperatingExpenses, func() (int, error) {
		expenses := gen.OperatingExpenses(ref.Stores)
		rows := make([][]any, len(expenses))
		for i := range expenses {
			rows[i] = operatingExpenseRow(&expenses[i])
		}
		var err error
		result.OperatingExpenses, err = o.writeRecords(ctx, database.OperatingExpenses, rows)
		return result.OperatingExpenses, err
	})
	if err != nil {
		return err
	}

	err = o.phase(PhaseFixedCosts, func() (int, error) {
		costs := gen.FixedCosts(ref.Stores)
		rows := make([][]any, len(costs))
		for i := range costs {
			rows[i] = fixedCostRow(&costs[i])
		}
		var err error
		result.FixedCosts, err = o.writeRecords(ctx, database.FixedCosts, rows)
		return result.FixedCosts, err
	})
	if err != nil {
		return err
	}

	return o.phase(PhaseCommissions, func() (int, error) {
		commissions := gen.Commissions(ref.Channels)
		rows := make([][]any, len(commissions))
		for i := range commissions {
			rows[i] = commissionRow(&commissions[i])
		}
		var err error
		result.Commissions, err = o.writeRecords(ctx, database.ChannelCommissions, rows)
		return result.Commissions, err
	})
}

// writeRecords inserts rows in chunks, one transaction per chunk, and returns
// how many rows committed
func (o *Orchestrator) writeRecords(ctx context.Context, table database.Table, rows [][]any) (int, error) {
	written := 0
	for start, chunk := 0, 1; start < len(rows); start, chunk = start+config.RecordChunkSize, chunk+1 {
		end := min(start+config.RecordChunkSize, len(rows))
		err := database.WithTx(ctx, o.store, func(tx database.Tx) error {
			_, err := tx.InsertMany(ctx, table, rows[start:end])
			return err
		})
		if err != nil {
			if isCanceled(err) {
				return written, err
			}
			return written, &PersistenceError{Table: table.Name, Batch: chunk, Err: err}
		}
		written += end - start
		o.metrics.AddRows(table.Name, end-start)
	}
	return written, nil
}

// runSales synthesizes days in parallel and writes them in day order from
// this goroutine. Synthesis runs at most a bounded number of days ahead of
// the writer.
func (o *Orchestrator) runSales(ctx context.Context, ref *ReferenceSet, anomalyRNG, salesRNG *utils.Random, result *Result) error {
	synth, err := o.newSynthesizer(ref, result.Horizon.Start, anomalyRNG)
	if err != nil {
		return err
	}

	days := result.Horizon.Days()
	result.DaysPlanned = len(days)
	o.progress.DaysPlanned(len(days))

	// One stream per day, drawn before launch so worker scheduling cannot
	// change the output
	rngs := salesRNG.ForkN(len(days))
	workers := GetWorkerCount(o.config.Workers)
	writer := NewBatchWriter(o.store, o.config.BatchSize, o.metrics, o.logger)
	defer func() {
		result.Sales = writer.Committed()
		result.Batches = writer.Batches()
	}()

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(sctx)
	// one slot for the dispatcher
	g.SetLimit(workers + 1)

	window := make(chan struct{}, workers*config.LookaheadDaysPerWorker)
	results := make([]chan *DayBatch, len(days))
	for i := range results {
		results[i] = make(chan *DayBatch, 1)
	}

	g.Go(func() error {
		for i, day := range days {
			select {
			case window <- struct{}{}:
			case <-gctx.Done():
				return nil
			}
			g.Go(func() error {
				batch, err := synth.SynthesizeDay(gctx, i, day, rngs[i])
				if err != nil {
					return err
				}
				results[i] <- batch
				return nil
			})
		}
		return nil
	})

	var writeErr error
	for i := range days {
		var batch *DayBatch
		select {
		case batch = <-results[i]:
		case <-gctx.Done():
		}
		if batch == nil {
			break
		}
		<-window

		if _, err := writer.WriteDay(ctx, batch); err != nil {
			writeErr = err
			break
		}
		result.DaysWritten++
		o.progress.DayWritten(batch.Day, len(batch.Sales))
	}

	cancel()
	synthErr := g.Wait()

	switch {
	case writeErr != nil:
		return writeErr
	case result.DaysWritten == len(days):
		return nil
	case synthErr != nil && !errors.Is(synthErr, context.Canceled):
		return fmt.Errorf("synthesize sales: %w", synthErr)
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return synthErr
	}
}

func (o *Orchestrator) newSynthesizer(ref *ReferenceSet, start time.Time, anomalyRNG *utils.Random) (*Synthesizer, error) {
	selector, err := NewSelector(ref, o.faker)
	if err != nil {
		return nil, err
	}

	daily, err := patterns.NewDailyPattern(o.tables.HourWeights())
	if err != nil {
		return nil, configErr("hours", "%v", err)
	}

	demand := &patterns.DemandModel{
		Mean:   o.config.DemandMean,
		StdDev: o.config.DemandStdDev,
		Weekly: patterns.NewWeeklyPattern(o.tables.WeekdayMultipliers),
		Daily:  daily,
		Anomalies: patterns.NewAnomalies(start, patterns.AnomalySettings{
			DipMultiplier:      config.DipMultiplier,
			DipLengthDays:      config.DipLengthDays,
			DipOffsetMinDays:   config.DipOffsetMinDays,
			DipOffsetMaxDays:   config.DipOffsetMaxDays,
			PromoMultiplier:    config.PromoMultiplier,
			PromoOffsetMinDays: config.PromoOffsetMinDays,
			PromoOffsetMaxDays: config.PromoOffsetMaxDays,
		}, anomalyRNG),
	}

	o.logger.Debug("anomalies scheduled",
		"dip_start", demand.Anomalies.DipStart.Format(time.DateOnly),
		"dip_end", demand.Anomalies.DipEnd.Format(time.DateOnly),
		"promo_day", demand.Anomalies.PromoDay.Format(time.DateOnly))

	return NewSynthesizer(demand, selector, NewPricer(o.faker, o.tables)), nil
}
