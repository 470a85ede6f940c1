package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/generator/patterns"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

func TestReferenceGenerator(t *testing.T) {
	store := database.NewMemoryStore()
	ref := testReference(t, store)
	tables := config.NewTables()
	cfg := testReferenceConfig()

	t.Run("counts", func(t *testing.T) {
		assert.Equal(t, 1, store.Count(database.Brands.Name))
		assert.Len(t, ref.Channels, len(tables.Channels))
		assert.Len(t, ref.PaymentTypes, len(tables.PaymentTypes))
		assert.Len(t, ref.Suppliers, cfg.NumSuppliers)
		assert.Len(t, ref.Stores, cfg.NumStores)
		assert.Len(t, ref.Products, cfg.NumProducts)
		assert.Len(t, ref.Items, cfg.NumItems)
		assert.Len(t, ref.CustomerIDs, cfg.NumCustomers)
		assert.Len(t, ref.OptionGroups, len(tables.OptionGroups))

		assert.Equal(t, cfg.NumStores, store.Count(database.Stores.Name))
		assert.Equal(t, cfg.NumProducts, store.Count(database.Products.Name))
		assert.Equal(t, cfg.NumCustomers, store.Count(database.Customers.Name))
	})

	t.Run("foreign keys point at created rows", func(t *testing.T) {
		subBrands := make(map[int64]bool)
		for _, sb := range ref.SubBrands {
			subBrands[sb.ID] = true
		}
		categories := make(map[int64]models.CategoryType)
		for _, c := range ref.Categories {
			categories[c.ID] = c.Type
		}

		for _, s := range ref.Stores {
			assert.Equal(t, ref.Brand.ID, s.BrandID)
			assert.True(t, subBrands[s.SubBrandID], "store %d sub-brand", s.ID)
			assert.Equal(t, patterns.Midnight(s.CreationDate), s.CreationDate)
		}
		for _, p := range ref.Products {
			assert.Equal(t, models.CategoryProduct, categories[p.CategoryID], "product %s", p.Name)
			assert.True(t, p.BasePrice > 0)
			assert.Greater(t, p.Popularity, 0.0)
			assert.Less(t, p.Popularity, 1.0)
		}
		for _, it := range ref.Items {
			assert.Equal(t, models.CategoryItem, categories[it.CategoryID], "item %s", it.Name)
			assert.GreaterOrEqual(t, it.Price, utils.Money(config.ItemPriceMin))
			assert.LessOrEqual(t, it.Price, utils.Money(config.ItemPriceMax))
		}
	})

	t.Run("channels carry weights and commissions", func(t *testing.T) {
		for i, c := range ref.Channels {
			assert.Equal(t, tables.Channels[i].Name, c.Name)
			assert.Equal(t, tables.Channels[i].Weight, c.Weight)
		}
		commission := ref.CommissionChannels()
		require.Len(t, commission, 3)
		for _, c := range commission {
			assert.True(t, c.IsDelivery(), c.Name)
		}
	})

	t.Run("customers are valid", func(t *testing.T) {
		for _, row := range store.Rows(database.Customers.Name) {
			cpf, ok := row.Values["cpf"].(string)
			require.True(t, ok)
			assert.True(t, ValidCPF(cpf), cpf)
			assert.Contains(t, row.Values["email"], "@")
		}
	})

	t.Run("unique pos uuids", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, p := range ref.Products {
			assert.False(t, seen[p.PosUUID], p.PosUUID)
			seen[p.PosUUID] = true
		}
	})
}

func TestReferenceGeneratorCustomerChunks(t *testing.T) {
	store := database.NewMemoryStore()
	cfg := testReferenceConfig()
	cfg.NumCustomers = config.CustomerChunkSize*2 + 10

	gen := NewReferenceGenerator(utils.NewRandom(1), testFaker(t), config.NewTables(), store, nil, cfg)
	ref, err := gen.Generate(context.Background())
	require.NoError(t, err)

	assert.Len(t, ref.CustomerIDs, cfg.NumCustomers)
	// eight catalog steps plus three customer chunks
	assert.Equal(t, 11, store.Commits())
}

func TestReferenceGeneratorFailure(t *testing.T) {
	store := database.NewMemoryStore()
	store.FailOn(database.Stores.Name, errors.New("disk full"))

	gen := NewReferenceGenerator(utils.NewRandom(1), testFaker(t), config.NewTables(), store, nil, testReferenceConfig())
	_, err := gen.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bootstrap stores")

	// earlier steps stay committed, the failed one leaves nothing
	assert.Equal(t, 1, store.Count(database.Brands.Name))
	assert.Equal(t, 0, store.Count(database.Stores.Name))
	assert.Equal(t, 0, store.Count(database.Products.Name))
}
