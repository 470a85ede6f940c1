package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.AddSales("COMPLETED", 95)
	m.AddSales("CANCELLED", 5)
	m.AddSales("CANCELLED", 0)
	m.AddRows("sales", 100)
	m.AddRows("payments", 110)
	m.BatchCommitted(20 * time.Millisecond)
	m.BatchFailed()
	m.DayWritten(2700)

	assert.Equal(t, 95.0, testutil.ToFloat64(m.sales.WithLabelValues("COMPLETED")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.sales.WithLabelValues("CANCELLED")))
	assert.Equal(t, 110.0, testutil.ToFloat64(m.rows.WithLabelValues("payments")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batchFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.daysWritten))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AddSales("COMPLETED", 1)
		m.AddRows("sales", 1)
		m.BatchCommitted(time.Second)
		m.BatchFailed()
		m.DayWritten(1)
		m.PhaseDone("sales", time.Second)
		m.SetPoolConnections(1, 1)
	})
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.AddRows("sales", 3)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `datagen_rows_written_total{table="sales"} 3`)
}

func TestServe(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop, err := m.Serve(ctx, "127.0.0.1:0", nil)
	require.NoError(t, err)
	stop()
	stop()
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.AddSales("COMPLETED", 2)
	m.PhaseDone("bootstrap", 1500*time.Millisecond)

	path := filepath.Join(t.TempDir(), "datagen.prom")
	require.NoError(t, m.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.True(t, strings.Contains(text, `datagen_sales_generated_total{status="COMPLETED"} 2`))
	assert.Contains(t, text, `datagen_phase_duration_seconds{phase="bootstrap"} 1.5`)
}
