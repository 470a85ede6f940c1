// Package database provides the persistence layer for generated data.
//
// FILE: memstore.go
// PURPOSE: In-memory Store. Ids are sequential per table; rows staged in a
// transaction become visible only on commit. Used by tests and --sink memory.
//
// KEY FUNCTIONS:
// - NewMemoryStore: Empty store
// - MemoryStore.Rows / Count / Counts: Inspect committed rows
// - MemoryStore.FailOn: Inject an insert failure for a table
//
// RELATED FILES:
// - store.go: Store and Tx interfaces
package database

import (
	"context"
	"fmt"
	"sync"
)

// MemRow is one committed row with its assigned id
type MemRow struct {
	ID     int64
	Values map[string]any
}

// Int64 returns an integer column value, dereferencing pointers. The bool is
// false for NULL or non-integer values.
func (r MemRow) Int64(column string) (int64, bool) {
	switch v := r.Values[column].(type) {
	case int64:
		return v, true
	case *int64:
		if v == nil {
			return 0, false
		}
		return *v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// MemoryStore keeps every table in memory
type MemoryStore struct {
	mu       sync.Mutex
	tables   map[string][]MemRow
	nextID   map[string]int64
	failures map[string]error
	commits  int
	rollback int
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   make(map[string][]MemRow),
		nextID:   make(map[string]int64),
		failures: make(map[string]error),
	}
}

// FailOn makes every later insert into table fail with err. A nil err
// clears the failure.
func (m *MemoryStore) FailOn(table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, table)
		return
	}
	m.failures[table] = err
}

// Begin starts a staged transaction
func (m *MemoryStore) Begin(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &memTx{store: m, staged: make(map[string][]MemRow)}, nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

// Rows returns a copy of the committed rows of table in insertion order
func (m *MemoryStore) Rows(table string) []MemRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MemRow, len(m.tables[table]))
	copy(out, m.tables[table])
	return out
}

// Count returns the number of committed rows in table
func (m *MemoryStore) Count(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}

// Counts returns committed row counts by table
func (m *MemoryStore) Counts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.tables))
	for name, rows := range m.tables {
		out[name] = len(rows)
	}
	return out
}

// Commits and Rollbacks report how many transactions ended each way
func (m *MemoryStore) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

func (m *MemoryStore) Rollbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rollback
}

type memTx struct {
	store  *MemoryStore
	staged map[string][]MemRow
	order  []string
	done   bool
}

func (t *memTx) InsertMany(ctx context.Context, table Table, rows [][]any) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t.done {
		return nil, fmt.Errorf("%s: transaction already finished", table.Name)
	}
	if err := validateRows(table, rows); err != nil {
		return nil, err
	}

	m := t.store
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[table.Name]; err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table.Name, err)
	}

	if _, ok := t.staged[table.Name]; !ok {
		t.order = append(t.order, table.Name)
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		m.nextID[table.Name]++
		id := m.nextID[table.Name]
		values := make(map[string]any, len(table.Columns))
		for c, col := range table.Columns {
			values[col] = r[c]
		}
		t.staged[table.Name] = append(t.staged[table.Name], MemRow{ID: id, Values: values})
		ids[i] = id
	}
	return ids, nil
}

func (t *memTx) InsertOne(ctx context.Context, table Table, row []any) (int64, error) {
	return insertOne(ctx, t, table, row)
}

func (t *memTx) Lookup(ctx context.Context, table, column string, value any) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	want := refKey(value)

	m := t.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rows := range [][]MemRow{m.tables[table], t.staged[table]} {
		for _, r := range rows {
			if v, ok := r.Values[column]; ok && refKey(v) == want {
				return r.ID, nil
			}
		}
	}
	return 0, fmt.Errorf("%s.%s = %v: %w", table, column, value, ErrNotFound)
}

func (t *memTx) Commit() error {
	if t.done {
		return fmt.Errorf("commit: transaction already finished")
	}
	t.done = true

	m := t.store
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range t.order {
		m.tables[name] = append(m.tables[name], t.staged[name]...)
	}
	m.commits++
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true

	m := t.store
	m.mu.Lock()
	m.rollback++
	m.mu.Unlock()
	return nil
}
