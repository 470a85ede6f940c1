package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/metrics"
	"github.com/willfong/restaurant-datagen/internal/models"
)

// BatchWriter persists synthesized days in fixed-size batches. Each batch is
// one transaction covering a sale and all of its children, so a failure
// leaves earlier batches intact and nothing of the failed one.
//
// A BatchWriter is single-writer: call WriteDay from one goroutine, in day
// order.
type BatchWriter struct {
	store     database.Store
	batchSize int
	metrics   *metrics.Metrics
	logger    *slog.Logger

	paymentTypes map[string]int64
	batches      int
	committed    Totals
}

// NewBatchWriter creates a writer over store
func NewBatchWriter(store database.Store, batchSize int, m *metrics.Metrics, logger *slog.Logger) *BatchWriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &BatchWriter{
		store:        store,
		batchSize:    batchSize,
		metrics:      m,
		logger:       logger,
		paymentTypes: make(map[string]int64),
	}
}

// Committed returns the totals of every batch committed so far
func (w *BatchWriter) Committed() Totals {
	return w.committed
}

// Batches returns how many batches have been attempted
func (w *BatchWriter) Batches() int {
	return w.batches
}

// WriteDay verifies every sale of the day, then writes it batch by batch. The
// last partial batch is flushed at the end of the day. On error the returned
// Totals cover the batches of this day that did commit.
func (w *BatchWriter) WriteDay(ctx context.Context, day *DayBatch) (Totals, error) {
	var written Totals

	// A started batch runs to commit even if ctx is canceled meanwhile
	txCtx := context.WithoutCancel(ctx)

	for _, s := range day.Sales {
		if err := Verify(s); err != nil {
			return written, err
		}
	}

	for start := 0; start < len(day.Sales); start += w.batchSize {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		end := min(start+w.batchSize, len(day.Sales))
		batch := day.Sales[start:end]
		w.batches++

		began := time.Now()
		rows, err := w.writeBatch(txCtx, w.batches, batch)
		if err != nil {
			w.metrics.BatchFailed()
			w.logger.Error("batch failed",
				"day", day.Day.Format(time.DateOnly),
				"batch", w.batches,
				"sales", len(batch),
				"error", err)
			return written, err
		}
		w.metrics.BatchCommitted(time.Since(began))

		var t Totals
		for _, s := range batch {
			t.Count(s)
		}
		written = written.Add(t)
		w.committed = w.committed.Add(t)

		w.metrics.AddSales(string(models.SaleCompleted), t.Completed)
		w.metrics.AddSales(string(models.SaleCancelled), t.Cancelled)
		for table, n := range rows {
			w.metrics.AddRows(table, n)
		}

		w.logger.Debug("batch committed",
			"day", day.Day.Format(time.DateOnly),
			"batch", w.batches,
			"sales", len(batch),
			"duration", time.Since(began))
	}

	w.metrics.DayWritten(len(day.Sales))
	return written, nil
}

// writeBatch inserts one batch in foreign-key order and returns the row
// count per table
func (w *BatchWriter) writeBatch(ctx context.Context, n int, sales []*models.Sale) (map[string]int, error) {
	rows := make(map[string]int)

	fail := func(table string, err error) error {
		return &PersistenceError{Table: table, Batch: n, Err: err}
	}

	err := database.WithTx(ctx, w.store, func(tx database.Tx) error {
		// 1. Sales
		saleRows := make([][]any, len(sales))
		for i, s := range sales {
			saleRows[i] = saleRow(s)
		}
		ids, err := tx.InsertMany(ctx, database.Sales, saleRows)
		if err != nil {
			return fail(database.Sales.Name, err)
		}
		for i, s := range sales {
			s.ID = ids[i]
		}
		rows[database.Sales.Name] = len(ids)

		// 2. Product lines
		var lines []*models.ProductLine
		var lineRows [][]any
		for _, s := range sales {
			for i := range s.Lines {
				l := &s.Lines[i]
				l.SaleID = s.ID
				lines = append(lines, l)
				lineRows = append(lineRows, productLineRow(l))
			}
		}
		if len(lineRows) > 0 {
			ids, err := tx.InsertMany(ctx, database.ProductSales, lineRows)
			if err != nil {
				return fail(database.ProductSales.Name, err)
			}
			for i, l := range lines {
				l.ID = ids[i]
			}
			rows[database.ProductSales.Name] = len(ids)
		}

		// 3. Item customizations
		var itemRows [][]any
		for _, l := range lines {
			for i := range l.Items {
				it := &l.Items[i]
				it.ProductSaleID = l.ID
				itemRows = append(itemRows, itemCustomizationRow(it))
			}
		}
		if len(itemRows) > 0 {
			if _, err := tx.InsertMany(ctx, database.ItemProductSales, itemRows); err != nil {
				return fail(database.ItemProductSales.Name, err)
			}
			rows[database.ItemProductSales.Name] = len(itemRows)
		}

		// 4. Delivery records
		var deliveries []*models.Delivery
		var deliveryRows [][]any
		for _, s := range sales {
			if s.Delivery == nil {
				continue
			}
			s.Delivery.SaleID = s.ID
			deliveries = append(deliveries, s.Delivery)
			deliveryRows = append(deliveryRows, deliveryRow(s.Delivery))
		}
		if len(deliveryRows) > 0 {
			ids, err := tx.InsertMany(ctx, database.DeliverySales, deliveryRows)
			if err != nil {
				return fail(database.DeliverySales.Name, err)
			}
			for i, d := range deliveries {
				d.ID = ids[i]
			}
			rows[database.DeliverySales.Name] = len(ids)

			// 5. Delivery addresses
			addressRows := make([][]any, len(deliveries))
			for i, d := range deliveries {
				d.Address.SaleID = d.SaleID
				d.Address.DeliverySaleID = d.ID
				addressRows[i] = deliveryAddressRow(&d.Address)
			}
			if _, err := tx.InsertMany(ctx, database.DeliveryAddresses, addressRows); err != nil {
				return fail(database.DeliveryAddresses.Name, err)
			}
			rows[database.DeliveryAddresses.Name] = len(addressRows)
		}

		// 6. Payments
		var paymentRows [][]any
		for _, s := range sales {
			for i := range s.Payments {
				p := &s.Payments[i]
				p.SaleID = s.ID
				typeID, err := w.paymentTypeID(ctx, tx, p.PaymentType)
				if err != nil {
					return fail(database.PaymentTypes.Name, err)
				}
				paymentRows = append(paymentRows, paymentRow(s.ID, typeID, p.Value))
			}
		}
		if len(paymentRows) > 0 {
			if _, err := tx.InsertMany(ctx, database.Payments, paymentRows); err != nil {
				return fail(database.Payments.Name, err)
			}
			rows[database.Payments.Name] = len(paymentRows)
		}
		return nil
	})

	if err != nil {
		var pe *PersistenceError
		if errors.As(err, &pe) {
			return nil, err
		}
		// begin or commit
		return nil, fail("", err)
	}
	return rows, nil
}

// paymentTypeID resolves a payment type description, caching it for the run
// after the first successful lookup
func (w *BatchWriter) paymentTypeID(ctx context.Context, tx database.Tx, desc string) (int64, error) {
	if id, ok := w.paymentTypes[desc]; ok {
		return id, nil
	}
	id, err := tx.Lookup(ctx, database.PaymentTypes.Name, "description", desc)
	if err != nil {
		return 0, fmt.Errorf("payment type %q: %w", desc, err)
	}
	w.paymentTypes[desc] = id
	return id, nil
}
