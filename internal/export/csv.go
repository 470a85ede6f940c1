// Package export streams table rows to CSV files, optionally xz-compressed.
package export

import (
	"bufio"
	"database/sql/driver"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrClosed is returned by writes after Close
var ErrClosed = errors.New("writer is closed")

// Writer is a buffered, mutex-guarded CSV writer for one table file
type Writer struct {
	file       *os.File
	xzWriter   *XZWriter
	buffer     *bufio.Writer
	writer     *csv.Writer
	mu         sync.Mutex
	rowCount   int64
	closed     bool
	compressed bool
}

// Config describes one output file
type Config struct {
	Dir     string
	Name    string // without extension, usually the table name
	Headers []string

	// BufferSize defaults to 64KB
	BufferSize int

	// Compress pipes output through xz into <name>.csv.xz
	Compress bool
	XZPreset int
}

// NewWriter creates the file and writes the header row
func NewWriter(cfg Config) (*Writer, error) {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}

	var underlying io.Writer
	w := &Writer{compressed: cfg.Compress}

	if cfg.Compress {
		xw, err := NewXZWriter(cfg.Dir, cfg.Name, cfg.XZPreset)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		w.xzWriter = xw
		underlying = xw
	} else {
		path := filepath.Join(cfg.Dir, cfg.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("failed to create file %s: %w", path, err)
		}
		w.file = f
		underlying = f
	}

	w.buffer = bufio.NewWriterSize(underlying, bufSize)
	w.writer = csv.NewWriter(w.buffer)

	if len(cfg.Headers) > 0 {
		if err := w.writer.Write(cfg.Headers); err != nil {
			w.closeUnderlying()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}
	return w, nil
}

// WriteRow writes one already-formatted row
func (w *Writer) WriteRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	w.rowCount++
	return nil
}

// WriteValues formats each value with FormatValue and writes the row
func (w *Writer) WriteValues(values []any) error {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = FormatValue(v)
	}
	return w.WriteRow(row)
}

// Flush pushes buffered rows to the file (or to xz)
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("csv flush error: %w", err)
	}
	return w.buffer.Flush()
}

// Close flushes and closes the file. Safe to call twice.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.closeUnderlying()
		return fmt.Errorf("csv flush error: %w", err)
	}
	if err := w.buffer.Flush(); err != nil {
		w.closeUnderlying()
		return fmt.Errorf("buffer flush error: %w", err)
	}
	return w.closeUnderlying()
}

func (w *Writer) closeUnderlying() error {
	if w.compressed {
		return w.xzWriter.Close()
	}
	return w.file.Close()
}

// RowCount returns data rows written, excluding the header
func (w *Writer) RowCount() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rowCount
}

// Path returns the .csv or .csv.xz path
func (w *Writer) Path() string {
	if w.compressed {
		return w.xzWriter.Path()
	}
	return w.file.Name()
}

// TimeLayout is the datetime format written to CSV
const TimeLayout = "2006-01-02 15:04:05"

// FormatValue renders a row value the way both target databases load it.
// nil and nil pointers become the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case int:
		return strconv.Itoa(x)
	case *int:
		if x == nil {
			return ""
		}
		return strconv.Itoa(*x)
	case int64:
		return strconv.FormatInt(x, 10)
	case *int64:
		if x == nil {
			return ""
		}
		return strconv.FormatInt(*x, 10)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(x, 'f', 6, 64)
	case time.Time:
		return x.Format(TimeLayout)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format(TimeLayout)
	case decimal.Decimal:
		return x.String()
	case uuid.UUID:
		return x.String()
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil || dv == nil {
			return ""
		}
		return FormatValue(dv)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
