package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/data"
	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

var testNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func testFaker(t *testing.T) *Faker {
	t.Helper()
	vocab, err := data.Load()
	require.NoError(t, err)
	return NewFaker(vocab)
}

func testReferenceConfig() ReferenceGeneratorConfig {
	return ReferenceGeneratorConfig{
		NumStores:    10,
		NumProducts:  60,
		NumItems:     20,
		NumCustomers: 250,
		NumSuppliers: 3,
		Now:          testNow,
	}
}

// testReference bootstraps a small reference set into store
func testReference(t *testing.T, store database.Store) *ReferenceSet {
	t.Helper()
	gen := NewReferenceGenerator(utils.NewRandom(42), testFaker(t), config.NewTables(), store, nil, testReferenceConfig())
	ref, err := gen.Generate(context.Background())
	require.NoError(t, err)
	return ref
}

// testSales prices n sales against ref
func testSales(t *testing.T, ref *ReferenceSet, n int, seed int64) []*models.Sale {
	t.Helper()
	faker := testFaker(t)
	selector, err := NewSelector(ref, faker)
	require.NoError(t, err)
	pricer := NewPricer(faker, config.NewTables())

	rng := utils.NewRandom(seed)
	sales := make([]*models.Sale, n)
	for i := range sales {
		sales[i] = pricer.Price(selector.Select(rng), testNow.Add(time.Duration(i)*time.Second), rng)
	}
	return sales
}

func inPersonChannel() *models.Channel {
	return &models.Channel{ID: 1, Name: "Presencial", Type: models.ChannelInPerson, Weight: 1}
}

func deliveryChannel() *models.Channel {
	return &models.Channel{ID: 2, Name: "iFood", Type: models.ChannelDelivery, Weight: 1, Commission: 27}
}
