package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/ui"
)

var (
	importDSN          string
	importInputDir     string
	importCreateSchema bool
	importParallel     int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV output into MySQL/MariaDB",
	Long: `Import the csv sink's output into a MySQL/MariaDB database using
LOAD DATA LOCAL INFILE.

Plain (.csv) and xz-compressed (.csv.xz) files are both accepted; compressed
files are streamed through xz without a temporary copy. Rows keep the ids
assigned by the generator, so foreign keys line up.

The import process:
1. Creates tables (--create-schema)
2. Loads all tables in parallel with foreign key and unique checks off
3. Creates indexes (--create-schema)

Examples:
  datagen generate --sink csv --output-dir ./out --compress
  datagen import --db "user:pass@tcp(localhost:3306)/sales" --input ./out --create-schema`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importDSN, "db", "", "MySQL DSN (default: database.dsn from config or DATAGEN_DATABASE_DSN)")
	importCmd.Flags().StringVar(&importInputDir, "input", "./output", "input directory containing CSV files")
	importCmd.Flags().BoolVar(&importCreateSchema, "create-schema", false, "create tables before loading and indexes after")
	importCmd.Flags().IntVar(&importParallel, "parallel", config.DBMaxOpenConns, "tables loaded concurrently")
}

// loadResult holds the result of loading a table
type loadResult struct {
	table    string
	path     string
	rows     int64
	duration time.Duration
	skipped  bool
}

func runImport(cmd *cobra.Command, args []string) error {
	u := ui.New()
	u.SetNoColor(noColor)

	dsn := importDSN
	if dsn == "" {
		dsn = viper.GetString("database.dsn")
	}
	if dsn == "" {
		return errors.New("--db is required")
	}
	if err := validateInputDir(importInputDir); err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	u.Println(u.Header("CSV Import"))
	u.Println("")
	u.Println(u.KeyValue("Database", maskDSN(dsn)))
	u.Println(u.KeyValue("Input", importInputDir))

	dbCfg := config.DefaultConfig().Database
	dbCfg.DSN = dsn
	dbCfg.Driver = config.DriverForSink(config.SinkMySQL)
	dbCfg.MaxOpenConns = max(importParallel, 1)
	dbCfg.MaxIdleConns = dbCfg.MaxOpenConns

	pool, err := database.NewPool(dbCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	spinner := u.NewSpinner("Connecting to database")
	spinner.Start()
	if err := pool.Connect(ctx); err != nil {
		spinner.Error("Connection failed")
		return err
	}
	spinner.Success("Connected")

	if importCreateSchema {
		if err := applySchema(ctx, u, pool, database.SchemaTables, "Creating tables"); err != nil {
			return err
		}
	}

	u.Section("Loading tables")
	began := time.Now()
	results, err := loadTablesParallel(ctx, pool, importInputDir, u)
	loadDuration := time.Since(began)
	if err != nil {
		return err
	}

	if importCreateSchema {
		if err := applySchema(ctx, u, pool, database.SchemaIndexes, "Creating indexes"); err != nil {
			return err
		}
	}

	printImportSummary(u, results, loadDuration)
	return nil
}

// loadTablesParallel loads all tables concurrently and stops at the first
// failure
func loadTablesParallel(ctx context.Context, pool *database.Pool, inputDir string, u *ui.UI) ([]loadResult, error) {
	tables := database.AllTables()
	results := make([]loadResult, len(tables))

	var printMu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(importParallel, 1))

	for i, table := range tables {
		g.Go(func() error {
			res, err := loadTable(ctx, pool, inputDir, table)
			results[i] = res

			printMu.Lock()
			defer printMu.Unlock()
			switch {
			case err != nil:
				u.Println(u.TableRow(table.Name, err.Error(), ui.StatusError))
			case res.skipped:
				u.Println(u.TableRow(table.Name, "no file", ui.StatusSkipped))
			default:
				u.Println(u.TableRow(table.Name, fmt.Sprintf("%s rows in %s",
					ui.FormatCount(res.rows), ui.FormatDuration(res.duration)), ui.StatusSuccess))
			}
			if err != nil {
				return fmt.Errorf("loading %s: %w", table.Name, err)
			}
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// loadTable loads one table's file on a dedicated connection, preferring
// .csv.xz over .csv
func loadTable(ctx context.Context, pool *database.Pool, inputDir string, table database.Table) (loadResult, error) {
	start := time.Now()
	result := loadResult{table: table.Name}

	path, compressed, ok := findTableFile(inputDir, table.Name)
	if !ok {
		result.skipped = true
		return result, nil
	}
	result.path = path

	conn, err := pool.DB().Conn(ctx)
	if err != nil {
		return result, err
	}
	defer conn.Close()

	// Session settings only hold for this connection
	for _, q := range []string{"SET FOREIGN_KEY_CHECKS = 0", "SET UNIQUE_CHECKS = 0"} {
		if _, err := conn.ExecContext(ctx, q); err != nil {
			return result, err
		}
	}

	var source string
	var xz *exec.Cmd
	if compressed {
		xz = exec.CommandContext(ctx, "xz", "-d", "-c", path)
		xz.Stderr = os.Stderr
		stdout, err := xz.StdoutPipe()
		if err != nil {
			return result, err
		}
		if err := xz.Start(); err != nil {
			return result, fmt.Errorf("xz decompression failed: %w", err)
		}
		source = "Reader::" + table.Name
		mysql.RegisterReaderHandler(table.Name, func() io.Reader { return stdout })
		defer mysql.DeregisterReaderHandler(table.Name)
	} else {
		abs, err := filepath.Abs(path)
		if err != nil {
			return result, fmt.Errorf("failed to get absolute path: %w", err)
		}
		source = abs
		mysql.RegisterLocalFile(abs)
		defer mysql.DeregisterLocalFile(abs)
	}

	res, err := conn.ExecContext(ctx, loadDataSQL(table, source))
	if xz != nil {
		if waitErr := xz.Wait(); waitErr != nil && err == nil {
			err = fmt.Errorf("xz decompression failed: %w", waitErr)
		}
	}
	if err != nil {
		return result, fmt.Errorf("LOAD DATA failed: %w", err)
	}

	result.rows, _ = res.RowsAffected()
	result.duration = time.Since(start)
	return result, nil
}

// loadDataSQL builds the LOAD DATA statement for a file written by the csv
// sink: header row, id first, empty fields meaning NULL.
func loadDataSQL(table database.Table, source string) string {
	columns := append([]string{"id"}, table.Columns...)
	vars := make([]string, len(columns))
	sets := make([]string, len(columns))
	for i, col := range columns {
		vars[i] = fmt.Sprintf("@v%d", i)
		sets[i] = fmt.Sprintf("%s = NULLIF(@v%d, '')", col, i)
	}

	return fmt.Sprintf(`LOAD DATA LOCAL INFILE '%s'
INTO TABLE %s
FIELDS TERMINATED BY ','
OPTIONALLY ENCLOSED BY '"'
LINES TERMINATED BY '\n'
IGNORE 1 LINES
(%s)
SET %s`, source, table.Name, strings.Join(vars, ", "), strings.Join(sets, ", "))
}

func findTableFile(dir, table string) (path string, compressed, ok bool) {
	xzPath := filepath.Join(dir, table+".csv.xz")
	if _, err := os.Stat(xzPath); err == nil {
		return xzPath, true, true
	}
	csvPath := filepath.Join(dir, table+".csv")
	if _, err := os.Stat(csvPath); err == nil {
		return csvPath, false, true
	}
	return "", false, false
}

func validateInputDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s", dir)
	}
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	for _, table := range database.AllTables() {
		if _, _, ok := findTableFile(dir, table.Name); ok {
			return nil
		}
	}
	return fmt.Errorf("no CSV files found in %s", dir)
}

// maskDSN hides the password of a URL or MySQL style DSN
func maskDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		if u, err := url.Parse(dsn); err == nil {
			return u.Redacted()
		}
	}
	if colonIdx := strings.Index(dsn, ":"); colonIdx > 0 {
		rest := dsn[colonIdx:]
		if atIdx := strings.Index(rest, "@"); atIdx > 0 {
			return dsn[:colonIdx+1] + "***" + rest[atIdx:]
		}
	}
	return dsn
}

func printImportSummary(u *ui.UI, results []loadResult, d time.Duration) {
	var rows int64
	loaded, skipped := 0, 0
	for _, r := range results {
		if r.skipped {
			skipped++
			continue
		}
		loaded++
		rows += r.rows
	}

	rate := "-"
	if secs := d.Seconds(); secs > 0 {
		rate = fmt.Sprintf("%s rows/s", ui.FormatCount(int64(float64(rows)/secs)))
	}

	u.Println(u.SummaryBox("Import Summary", []ui.KV{
		{Key: "Status", Value: "Success"},
		{Key: "Tables", Value: fmt.Sprintf("%d loaded, %d skipped", loaded, skipped)},
		{Key: "Rows", Value: ui.FormatCount(rows)},
		{Key: "Duration", Value: ui.FormatDuration(d)},
		{Key: "Rate", Value: rate},
	}))
}
