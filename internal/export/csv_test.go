package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	name := "Ana"
	qty := 3
	var noQty *int
	var noTime *time.Time
	ts := time.Date(2024, 5, 17, 20, 4, 5, 0, time.UTC)
	ref := uuid.MustParse("6f1c1b1e-8a51-4b8f-9d2e-0b7f5d0c2a11")

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "COMPLETED", "COMPLETED"},
		{"string pointer", &name, "Ana"},
		{"int", 42, "42"},
		{"int pointer", &qty, "3"},
		{"nil int pointer", noQty, ""},
		{"int64", int64(9000000000), "9000000000"},
		{"bool true", true, "1"},
		{"bool false", false, "0"},
		{"float", -23.5, "-23.500000"},
		{"time", ts, "2024-05-17 20:04:05"},
		{"nil time pointer", noTime, ""},
		{"decimal", decimal.New(9000, -2), "90"},
		{"uuid", ref, "6f1c1b1e-8a51-4b8f-9d2e-0b7f5d0c2a11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestWriter(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWriter(Config{
		Dir:     dir,
		Name:    "payments",
		Headers: []string{"id", "sale_id", "value"},
	})
	require.NoError(t, err)

	require.NoError(t, w.WriteValues([]any{int64(1), int64(10), decimal.New(4550, -2)}))
	require.NoError(t, w.WriteRow([]string{"2", "10", "44.50"}))
	assert.Equal(t, int64(2), w.RowCount())
	assert.Equal(t, filepath.Join(dir, "payments.csv"), w.Path())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.WriteRow([]string{"3"}), ErrClosed)

	f, err := os.Open(w.Path())
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"id", "sale_id", "value"}, records[0])
	assert.Equal(t, []string{"1", "10", "45.5"}, records[1])
}

func TestWriterCompressed(t *testing.T) {
	if err := CheckXZAvailable(); err != nil {
		t.Skip("xz not installed")
	}

	w, err := NewWriter(Config{
		Dir:      t.TempDir(),
		Name:     "sales",
		Headers:  []string{"id"},
		Compress: true,
		XZPreset: 1,
	})
	require.NoError(t, err)
	require.NoError(t, w.WriteRow([]string{"1"}))
	require.NoError(t, w.Close())

	info, err := os.Stat(w.Path())
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, ".xz", filepath.Ext(w.Path()))
}
