// Package database provides the persistence layer for generated data.
//
// FILE: sqlstore.go
// PURPOSE: Store implementation over database/sql for PostgreSQL (pgx) and
// MySQL/MariaDB.
//
// KEY FUNCTIONS:
// - NewSQLStore: Wraps a Pool
// - sqlTx.InsertMany: Chunked multi-row INSERT, ids mapped back by ref column
// - sqlTx.Lookup: Single id by column value
//
// RELATED FILES:
// - store.go: Store and Tx interfaces
// - dialect.go: Placeholder and RETURNING differences
// - pool.go: Connection pool
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// maxRowsPerStatement caps rows per INSERT below the parameter limit
const maxRowsPerStatement = 1000

// SQLStore writes through a connection pool
type SQLStore struct {
	pool    *Pool
	dialect Dialect
	logger  *slog.Logger
}

// NewSQLStore creates a store using the pool's dialect
func NewSQLStore(pool *Pool, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{
		pool:    pool,
		dialect: pool.Dialect(),
		logger:  logger,
	}
}

// Begin starts a database transaction
func (s *SQLStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sqlTx{tx: tx, dialect: s.dialect, logger: s.logger}, nil
}

// Close closes the underlying pool
func (s *SQLStore) Close() error {
	return s.pool.Close()
}

type sqlTx struct {
	tx      *sql.Tx
	dialect Dialect
	logger  *slog.Logger
}

func (t *sqlTx) InsertMany(ctx context.Context, table Table, rows [][]any) ([]int64, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	if err := validateRows(table, rows); err != nil {
		return nil, err
	}

	per := t.dialect.RowsPerStatement(len(table.Columns), maxRowsPerStatement)
	ids := make([]int64, 0, len(rows))
	for start := 0; start < len(rows); start += per {
		end := start + per
		if end > len(rows) {
			end = len(rows)
		}
		chunk, err := t.insertChunk(ctx, table, rows[start:end])
		if err != nil {
			return nil, err
		}
		ids = append(ids, chunk...)
	}
	return ids, nil
}

func (t *sqlTx) insertChunk(ctx context.Context, table Table, rows [][]any) ([]int64, error) {
	query := t.dialect.InsertSQL(table, len(rows))
	args := make([]any, 0, len(rows)*len(table.Columns))
	for _, r := range rows {
		args = append(args, r...)
	}

	t.logger.Debug("insert", "table", table.Name, "rows", len(rows))

	if t.dialect.Returning {
		return t.insertReturning(ctx, table, rows, query, args)
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table.Name, err)
	}
	if table.RefColumn != "" {
		return t.selectByRef(ctx, table, rows)
	}

	// Without a ref column, rely on InnoDB assigning consecutive ids to a
	// single multi-row insert.
	first, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert into %s: last insert id: %w", table.Name, err)
	}
	ids := make([]int64, len(rows))
	for i := range ids {
		ids[i] = first + int64(i)
	}
	return ids, nil
}

func (t *sqlTx) insertReturning(ctx context.Context, table Table, rows [][]any, query string, args []any) ([]int64, error) {
	result, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table.Name, err)
	}
	defer result.Close()

	refIdx := table.RefIndex()
	byRef := make(map[string]int64, len(rows))
	ordered := make([]int64, 0, len(rows))
	for result.Next() {
		var id int64
		if refIdx < 0 {
			if err := result.Scan(&id); err != nil {
				return nil, fmt.Errorf("insert into %s: scan id: %w", table.Name, err)
			}
			ordered = append(ordered, id)
			continue
		}
		var ref string
		if err := result.Scan(&id, &ref); err != nil {
			return nil, fmt.Errorf("insert into %s: scan id: %w", table.Name, err)
		}
		byRef[ref] = id
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table.Name, err)
	}

	if refIdx < 0 {
		if len(ordered) != len(rows) {
			return nil, fmt.Errorf("insert into %s: got %d ids for %d rows", table.Name, len(ordered), len(rows))
		}
		return ordered, nil
	}
	return zipByRef(table, rows, refIdx, byRef)
}

func (t *sqlTx) selectByRef(ctx context.Context, table Table, rows [][]any) ([]int64, error) {
	refIdx := table.RefIndex()
	refs := make([]any, len(rows))
	for i, r := range rows {
		refs[i] = refKey(r[refIdx])
	}

	result, err := t.tx.QueryContext(ctx, t.dialect.SelectByRefSQL(table, len(refs)), refs...)
	if err != nil {
		return nil, fmt.Errorf("select ids from %s: %w", table.Name, err)
	}
	defer result.Close()

	byRef := make(map[string]int64, len(rows))
	for result.Next() {
		var id int64
		var ref string
		if err := result.Scan(&id, &ref); err != nil {
			return nil, fmt.Errorf("select ids from %s: scan: %w", table.Name, err)
		}
		byRef[ref] = id
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("select ids from %s: %w", table.Name, err)
	}
	return zipByRef(table, rows, refIdx, byRef)
}

// zipByRef returns ids in row order. Every row must have come back.
func zipByRef(table Table, rows [][]any, refIdx int, byRef map[string]int64) ([]int64, error) {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ref := refKey(r[refIdx])
		id, ok := byRef[ref]
		if !ok {
			return nil, fmt.Errorf("insert into %s: no id returned for %s %s", table.Name, table.RefColumn, ref)
		}
		ids[i] = id
	}
	return ids, nil
}

func (t *sqlTx) InsertOne(ctx context.Context, table Table, row []any) (int64, error) {
	return insertOne(ctx, t, table, row)
}

func (t *sqlTx) Lookup(ctx context.Context, table, column string, value any) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, t.dialect.LookupSQL(table, column), value).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s.%s = %v: %w", table, column, value, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("lookup %s.%s: %w", table, column, err)
	}
	return id, nil
}

func (t *sqlTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (t *sqlTx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
