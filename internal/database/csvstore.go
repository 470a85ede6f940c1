// Package database provides the persistence layer for generated data.
//
// FILE: csvstore.go
// PURPOSE: Store that writes one CSV file per table (optionally .csv.xz) with
// client-assigned ids, for loading with COPY or LOAD DATA later.
//
// KEY FUNCTIONS:
// - NewCSVStore: Output directory and compression
// - csvTx.Commit: Writes staged rows and flushes the touched files
//
// RELATED FILES:
// - store.go: Store and Tx interfaces
// - ../export/csv.go: Streaming CSV writer
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/willfong/restaurant-datagen/internal/export"
)

// CSVStore writes committed rows to <dir>/<table>.csv
type CSVStore struct {
	dir      string
	compress bool
	logger   *slog.Logger

	mu      sync.Mutex
	writers map[string]*export.Writer
	nextID  map[string]int64

	// table -> column -> value -> id, for lookupTables only
	index map[string]map[string]map[string]int64
}

// NewCSVStore creates a store writing into dir. Files are created lazily on
// the first commit that touches a table.
func NewCSVStore(dir string, compress bool, logger *slog.Logger) (*CSVStore, error) {
	if compress {
		if err := export.CheckXZAvailable(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVStore{
		dir:      dir,
		compress: compress,
		logger:   logger,
		writers:  make(map[string]*export.Writer),
		nextID:   make(map[string]int64),
		index:    make(map[string]map[string]map[string]int64),
	}, nil
}

// Begin starts a staged transaction
func (s *CSVStore) Begin(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &csvTx{store: s}, nil
}

// Close flushes and closes every file
func (s *CSVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for name, w := range s.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Paths returns the output file of each written table
func (s *CSVStore) Paths() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.writers))
	for name, w := range s.writers {
		out[name] = w.Path()
	}
	return out
}

// writer returns the table's writer, creating the file on first use.
// Caller holds s.mu.
func (s *CSVStore) writer(t Table) (*export.Writer, error) {
	if w, ok := s.writers[t.Name]; ok {
		return w, nil
	}
	headers := append([]string{"id"}, t.Columns...)
	w, err := export.NewWriter(export.Config{
		Dir:      s.dir,
		Name:     t.Name,
		Headers:  headers,
		Compress: s.compress,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("csv file opened", "table", t.Name, "path", w.Path())
	s.writers[t.Name] = w
	return w, nil
}

func (s *CSVStore) indexRow(t Table, id int64, row []any) {
	if !lookupTables[t.Name] {
		return
	}
	cols, ok := s.index[t.Name]
	if !ok {
		cols = make(map[string]map[string]int64)
		s.index[t.Name] = cols
	}
	for i, col := range t.Columns {
		vals, ok := cols[col]
		if !ok {
			vals = make(map[string]int64)
			cols[col] = vals
		}
		key := refKey(row[i])
		if _, seen := vals[key]; !seen {
			vals[key] = id
		}
	}
}

type csvStaged struct {
	table Table
	ids   []int64
	rows  [][]any
}

type csvTx struct {
	store  *CSVStore
	staged []csvStaged
	done   bool
}

func (t *csvTx) InsertMany(ctx context.Context, table Table, rows [][]any) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.done {
		return nil, fmt.Errorf("%s: transaction already finished", table.Name)
	}
	if err := validateRows(table, rows); err != nil {
		return nil, err
	}

	s := t.store
	s.mu.Lock()
	ids := make([]int64, len(rows))
	for i := range rows {
		s.nextID[table.Name]++
		ids[i] = s.nextID[table.Name]
	}
	s.mu.Unlock()

	t.staged = append(t.staged, csvStaged{table: table, ids: ids, rows: rows})
	return ids, nil
}

func (t *csvTx) InsertOne(ctx context.Context, table Table, row []any) (int64, error) {
	return insertOne(ctx, t, table, row)
}

func (t *csvTx) Lookup(ctx context.Context, table, column string, value any) (int64, error) {
	if !lookupTables[table] {
		return 0, fmt.Errorf("lookup on %s is not supported by the csv sink", table)
	}
	want := refKey(value)

	// Rows staged in this transaction first, then committed ones
	for _, st := range t.staged {
		if st.table.Name != table {
			continue
		}
		idx := st.table.ColumnIndex(column)
		if idx < 0 {
			continue
		}
		for i, r := range st.rows {
			if refKey(r[idx]) == want {
				return st.ids[i], nil
			}
		}
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.index[table][column][want]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%s.%s = %v: %w", table, column, value, ErrNotFound)
}

func (t *csvTx) Commit() error {
	if t.done {
		return fmt.Errorf("commit: transaction already finished")
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[string]*export.Writer)
	for _, st := range t.staged {
		w, err := s.writer(st.table)
		if err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		for i, r := range st.rows {
			values := make([]any, 0, len(r)+1)
			values = append(values, st.ids[i])
			values = append(values, r...)
			if err := w.WriteValues(values); err != nil {
				return fmt.Errorf("commit %s: %w", st.table.Name, err)
			}
			s.indexRow(st.table, st.ids[i], r)
		}
		touched[st.table.Name] = w
	}
	for name, w := range touched {
		if err := w.Flush(); err != nil {
			return fmt.Errorf("commit %s: %w", name, err)
		}
	}
	return nil
}

func (t *csvTx) Rollback() error {
	t.done = true
	t.staged = nil
	return nil
}
