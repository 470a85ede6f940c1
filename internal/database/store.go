// Package database provides the persistence layer for generated data.
//
// FILE: store.go
// PURPOSE: The persistence API the generator writes through: batch-scoped
// transactions with order-preserving bulk inserts and a catalog lookup.
//
// KEY TYPES:
// - Table: table name, column list and optional correlation column
// - Store: opens transactions
// - Tx: InsertMany, InsertOne, Lookup, Commit, Rollback
//
// RELATED FILES:
// - catalog.go: Table definitions for every generated table
// - sqlstore.go: PostgreSQL and MySQL implementation over Pool
// - memstore.go: In-memory implementation for tests and dry runs
// - csvstore.go: One CSV file per table
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Lookup when no row matches
var ErrNotFound = errors.New("not found")

// Table describes an insert target. Every table has a generated "id"
// primary key that is not listed in Columns.
type Table struct {
	Name    string
	Columns []string

	// RefColumn names a client-generated unique key used to map inserted rows
	// back to their ids. Empty for tables that do not carry one.
	RefColumn string
}

// RefIndex returns the position of RefColumn in Columns, or -1
func (t Table) RefIndex() int {
	if t.RefColumn == "" {
		return -1
	}
	for i, c := range t.Columns {
		if c == t.RefColumn {
			return i
		}
	}
	return -1
}

// ColumnIndex returns the position of column in Columns, or -1
func (t Table) ColumnIndex(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Store opens batch-scoped transactions
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is one all-or-nothing unit of writes.
//
// InsertMany returns the generated ids in the same order as rows. Each row
// holds one value per Table column, in column order.
type Tx interface {
	InsertMany(ctx context.Context, t Table, rows [][]any) ([]int64, error)
	InsertOne(ctx context.Context, t Table, row []any) (int64, error)
	Lookup(ctx context.Context, table, column string, value any) (int64, error)
	Commit() error
	Rollback() error
}

// validateRows checks every row has one value per column
func validateRows(t Table, rows [][]any) error {
	for i, r := range rows {
		if len(r) != len(t.Columns) {
			return fmt.Errorf("%s: row %d has %d values, want %d", t.Name, i, len(r), len(t.Columns))
		}
	}
	return nil
}

// refKey normalizes a correlation or lookup value for map keys
func refKey(v any) string {
	switch x := v.(type) {
	case uuid.UUID:
		return x.String()
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// insertOne is the shared InsertOne in terms of InsertMany
func insertOne(ctx context.Context, tx Tx, t Table, row []any) (int64, error) {
	ids, err := tx.InsertMany(ctx, t, [][]any{row})
	if err != nil {
		return 0, err
	}
	if len(ids) != 1 {
		return 0, fmt.Errorf("%s: insert returned %d ids, want 1", t.Name, len(ids))
	}
	return ids[0], nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise
func WithTx(ctx context.Context, store Store, fn func(tx Tx) error) error {
	tx, err := store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
