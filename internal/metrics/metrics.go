// Package metrics exposes Prometheus collectors for a generation run.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/willfong/restaurant-datagen/internal/config"
)

const namespace = "datagen"

// Metrics holds the run's collectors on a private registry. All methods are
// safe on a nil receiver so callers can run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	sales           *prometheus.CounterVec
	rows            *prometheus.CounterVec
	batches         prometheus.Counter
	batchFailures   prometheus.Counter
	batchDuration   prometheus.Histogram
	dailySales      prometheus.Histogram
	daysWritten     prometheus.Counter
	phaseDuration   *prometheus.GaugeVec
	poolConnections *prometheus.GaugeVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_generated_total",
			Help:      "Sales committed, by final status.",
		}, []string{"status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Rows committed, by table.",
		}, []string{"table"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_committed_total",
			Help:      "Sales batches committed.",
		}),
		batchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_failures_total",
			Help:      "Sales batches rolled back after an error.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time to write and commit one sales batch.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		dailySales: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "daily_sales",
			Help:      "Sales synthesized per calendar day.",
			Buckets:   prometheus.LinearBuckets(0, 500, 20),
		}),
		daysWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "days_written_total",
			Help:      "Calendar days fully written.",
		}),
		phaseDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Wall time of each completed generation phase.",
		}, []string{"phase"}),
		poolConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "db_connections",
			Help:      "Database pool connections by state.",
		}, []string{"state"}),
	}

	registry.MustRegister(
		m.sales, m.rows, m.batches, m.batchFailures, m.batchDuration,
		m.dailySales, m.daysWritten, m.phaseDuration, m.poolConnections,
	)
	return m
}

// Registry exposes the underlying registry (tests and custom exporters)
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// AddSales counts committed sales of one status
func (m *Metrics) AddSales(status string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sales.WithLabelValues(status).Add(float64(n))
}

// AddRows counts committed rows of one table
func (m *Metrics) AddRows(table string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(table).Add(float64(n))
}

// BatchCommitted records a successful batch
func (m *Metrics) BatchCommitted(d time.Duration) {
	if m == nil {
		return
	}
	m.batches.Inc()
	m.batchDuration.Observe(d.Seconds())
}

// BatchFailed records a rolled back batch
func (m *Metrics) BatchFailed() {
	if m == nil {
		return
	}
	m.batchFailures.Inc()
}

// DayWritten records a completed day and its sale count
func (m *Metrics) DayWritten(sales int) {
	if m == nil {
		return
	}
	m.daysWritten.Inc()
	m.dailySales.Observe(float64(sales))
}

// PhaseDone records a phase's wall time
func (m *Metrics) PhaseDone(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Set(d.Seconds())
}

// SetPoolConnections records open and in-use pool connections
func (m *Metrics) SetPoolConnections(open, inUse int) {
	if m == nil {
		return
	}
	m.poolConnections.WithLabelValues("open").Set(float64(open))
	m.poolConnections.WithLabelValues("in_use").Set(float64(inUse))
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done or the returned stop
// function is called. It returns once the listener is bound.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) (func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("metrics server listening", "addr", ln.Addr().String())

	var once sync.Once
	stop := func() {
		once.Do(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), config.MetricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown", "error", err)
			}
		})
	}
	go func() {
		<-ctx.Done()
		stop()
	}()
	return stop, nil
}

// WriteTextfile dumps the registry for the node_exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
