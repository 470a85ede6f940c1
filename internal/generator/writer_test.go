package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/metrics"
	"github.com/willfong/restaurant-datagen/internal/models"
)

func testDay(sales []*models.Sale) *DayBatch {
	day := &DayBatch{Day: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Sales: sales}
	for _, s := range sales {
		day.Totals.Count(s)
	}
	return day
}

func rowsByRef(rows []database.MemRow) map[any]database.MemRow {
	out := make(map[any]database.MemRow, len(rows))
	for _, r := range rows {
		out[r.Values["client_ref"]] = r
	}
	return out
}

func TestBatchWriter(t *testing.T) {
	store := database.NewMemoryStore()
	ref := testReference(t, store)
	sales := testSales(t, ref, 230, 42)

	w := NewBatchWriter(store, 100, metrics.New(), nil)
	day := testDay(sales)
	written, err := w.WriteDay(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, day.Totals, written)
	assert.Equal(t, written, w.Committed())
	assert.Equal(t, 3, w.Batches())

	assert.Equal(t, written.Sales, store.Count(database.Sales.Name))
	assert.Equal(t, written.Lines, store.Count(database.ProductSales.Name))
	assert.Equal(t, written.Items, store.Count(database.ItemProductSales.Name))
	assert.Equal(t, written.Deliveries, store.Count(database.DeliverySales.Name))
	assert.Equal(t, written.Deliveries, store.Count(database.DeliveryAddresses.Name))
	assert.Equal(t, written.Payments, store.Count(database.Payments.Name))

	t.Run("children reference their parents", func(t *testing.T) {
		saleRows := rowsByRef(store.Rows(database.Sales.Name))
		lineRows := rowsByRef(store.Rows(database.ProductSales.Name))
		deliveryRows := rowsByRef(store.Rows(database.DeliverySales.Name))

		for _, s := range sales {
			row, ok := saleRows[s.ClientRef]
			require.True(t, ok)
			assert.Equal(t, row.ID, s.ID)

			for _, l := range s.Lines {
				lr, ok := lineRows[l.ClientRef]
				require.True(t, ok)
				saleID, _ := lr.Int64("sale_id")
				assert.Equal(t, s.ID, saleID)
				assert.Equal(t, lr.ID, l.ID)
				for _, it := range l.Items {
					assert.Equal(t, l.ID, it.ProductSaleID)
				}
			}

			if s.Delivery != nil {
				dr, ok := deliveryRows[s.Delivery.ClientRef]
				require.True(t, ok)
				saleID, _ := dr.Int64("sale_id")
				assert.Equal(t, s.ID, saleID)
				assert.Equal(t, dr.ID, s.Delivery.Address.DeliverySaleID)
			}
		}

		itemLines := make(map[int64]bool)
		for _, r := range store.Rows(database.ProductSales.Name) {
			itemLines[r.ID] = true
		}
		for _, r := range store.Rows(database.ItemProductSales.Name) {
			id, ok := r.Int64("product_sale_id")
			require.True(t, ok)
			assert.True(t, itemLines[id])
		}
	})

	t.Run("payment types resolved and cached", func(t *testing.T) {
		typeIDs := make(map[int64]bool)
		for _, pt := range ref.PaymentTypes {
			typeIDs[pt.ID] = true
			if id, ok := w.paymentTypes[pt.Description]; ok {
				assert.Equal(t, pt.ID, id)
			}
		}
		assert.NotEmpty(t, w.paymentTypes)
		for _, r := range store.Rows(database.Payments.Name) {
			id, ok := r.Int64("payment_type_id")
			require.True(t, ok)
			assert.True(t, typeIDs[id])
		}
	})
}

func TestBatchWriterRollback(t *testing.T) {
	store := database.NewMemoryStore()
	ref := testReference(t, store)
	w := NewBatchWriter(store, 50, nil, nil)

	_, err := w.WriteDay(context.Background(), testDay(testSales(t, ref, 100, 1)))
	require.NoError(t, err)
	require.Equal(t, 100, store.Count(database.Sales.Name))
	lines := store.Count(database.ProductSales.Name)

	store.FailOn(database.Payments.Name, errors.New("deadlock"))
	written, err := w.WriteDay(context.Background(), testDay(testSales(t, ref, 100, 2)))
	require.Error(t, err)

	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, database.Payments.Name, pe.Table)
	assert.Equal(t, 3, pe.Batch)
	assert.Equal(t, ErrorTypePersistence, ClassifyError(err))

	// the failed batch left nothing behind, earlier batches are intact
	assert.Zero(t, written.Sales)
	assert.Equal(t, 100, store.Count(database.Sales.Name))
	assert.Equal(t, lines, store.Count(database.ProductSales.Name))
	assert.Equal(t, 100, w.Committed().Sales)
	assert.Positive(t, store.Rollbacks())
}

func TestBatchWriterConsistency(t *testing.T) {
	store := database.NewMemoryStore()
	ref := testReference(t, store)
	sales := testSales(t, ref, 40, 3)
	sales[len(sales)-1].TotalAmount++

	commits := store.Commits()
	w := NewBatchWriter(store, 10, nil, nil)
	_, err := w.WriteDay(context.Background(), testDay(sales))

	assert.ErrorIs(t, err, ErrConsistency)
	assert.Zero(t, store.Count(database.Sales.Name))
	assert.Equal(t, commits, store.Commits())
}

func TestBatchWriterCanceled(t *testing.T) {
	store := database.NewMemoryStore()
	ref := testReference(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewBatchWriter(store, 10, nil, nil)
	_, err := w.WriteDay(ctx, testDay(testSales(t, ref, 30, 4)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.Count(database.Sales.Name))
}
