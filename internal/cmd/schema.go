package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/ui"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema [type]",
	Short: "Output database schema files",
	Long: `Output the SQL schema for the sales database.

Available schema types:
  full      Complete schema with tables and indexes (default)
  tables    Tables only, no secondary indexes (for bulk loading)
  indexes   Secondary indexes only (run after the load)

Dialects: postgres (default) and mysql.

generate --create-schema applies the tables before the run and the
indexes after it.

Examples:
  datagen schema                                  # Full PostgreSQL schema
  datagen schema tables --dialect mysql | mysql sales
  datagen schema indexes -o indexes.sql`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchema,
}

var (
	schemaOutputFile string
	schemaDialect    string
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVarP(&schemaOutputFile, "output", "o", "", "output file (default: stdout)")
	schemaCmd.Flags().StringVar(&schemaDialect, "dialect", config.SinkPostgres, "SQL dialect: postgres or mysql")
}

func runSchema(cmd *cobra.Command, args []string) error {
	u := ui.New()
	u.SetNoColor(noColor)

	kind := database.SchemaFull
	if len(args) > 0 {
		kind = args[0]
	}

	ddl, err := database.Schema(schemaDialect, kind)
	if err != nil {
		return err
	}

	if schemaOutputFile == "" {
		fmt.Fprint(cmd.OutOrStdout(), ddl)
		return nil
	}

	if dir := filepath.Dir(schemaOutputFile); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	if err := os.WriteFile(schemaOutputFile, []byte(ddl), 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	fmt.Fprintln(os.Stderr, u.Success("Schema written to: "+schemaOutputFile))
	return nil
}
