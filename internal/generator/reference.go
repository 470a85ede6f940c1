package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/database"
	"github.com/willfong/restaurant-datagen/internal/generator/patterns"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// ReferenceSet is the read-only reference data the sales core draws from.
// It is built once by the bootstrap and shared by every worker.
type ReferenceSet struct {
	Brand        models.Brand
	SubBrands    []models.SubBrand
	Channels     []models.Channel
	PaymentTypes []models.PaymentType
	Suppliers    []models.Supplier
	Stores       []models.Store
	Categories   []models.Category
	Products     []models.Product
	Items        []models.Item
	OptionGroups []models.OptionGroup
	CustomerIDs  []int64
}

// ActiveStores returns the stores that take sales
func (r *ReferenceSet) ActiveStores() []models.Store {
	active := make([]models.Store, 0, len(r.Stores))
	for _, s := range r.Stores {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active
}

// CommissionChannels returns the channels with a nonzero commission
func (r *ReferenceSet) CommissionChannels() []models.Channel {
	var out []models.Channel
	for _, c := range r.Channels {
		if c.Commission > 0 {
			out = append(out, c)
		}
	}
	return out
}

// ReferenceGenerator creates and persists brands, channels, stores, the menu
// and customers.
type ReferenceGenerator struct {
	rng    *utils.Random
	faker  *Faker
	tables *config.Tables
	store  database.Store
	logger *slog.Logger
	config ReferenceGeneratorConfig
}

// ReferenceGeneratorConfig holds reference data volumes
type ReferenceGeneratorConfig struct {
	NumStores    int
	NumProducts  int
	NumItems     int
	NumCustomers int
	NumSuppliers int
	// Now anchors every "N days ago" draw
	Now time.Time
}

// NewReferenceGenerator creates a new reference data generator
func NewReferenceGenerator(rng *utils.Random, faker *Faker, tables *config.Tables, store database.Store,
	logger *slog.Logger, cfg ReferenceGeneratorConfig) *ReferenceGenerator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	return &ReferenceGenerator{
		rng:    rng,
		faker:  faker,
		tables: tables,
		store:  store,
		logger: logger,
		config: cfg,
	}
}

// Generate runs every bootstrap step in foreign-key order. Each step commits
// its own transaction; customers commit once per chunk.
func (g *ReferenceGenerator) Generate(ctx context.Context) (*ReferenceSet, error) {
	ref := &ReferenceSet{}

	steps := []struct {
		name string
		fn   func(ctx context.Context, tx database.Tx, ref *ReferenceSet) error
	}{
		{"brand", g.createBrand},
		{"channels", g.createChannels},
		{"payment types", g.createPaymentTypes},
		{"suppliers", g.createSuppliers},
		{"stores", g.createStores},
		{"products", g.createProducts},
		{"items", g.createItems},
		{"option groups", g.createOptionGroups},
	}

	for _, step := range steps {
		err := database.WithTx(ctx, g.store, func(tx database.Tx) error {
			return step.fn(ctx, tx, ref)
		})
		if err != nil {
			return nil, fmt.Errorf("bootstrap %s: %w", step.name, err)
		}
	}

	if err := g.createCustomers(ctx, ref); err != nil {
		return nil, fmt.Errorf("bootstrap customers: %w", err)
	}

	g.logger.Info("reference data created",
		"stores", len(ref.Stores),
		"active_stores", len(ref.ActiveStores()),
		"products", len(ref.Products),
		"items", len(ref.Items),
		"customers", len(ref.CustomerIDs),
		"suppliers", len(ref.Suppliers))

	return ref, nil
}

func (g *ReferenceGenerator) daysAgo(min, max int) time.Time {
	return g.config.Now.AddDate(0, 0, -g.rng.IntRange(min, max))
}

// createBrand inserts the brand and its sub-brands
func (g *ReferenceGenerator) createBrand(ctx context.Context, tx database.Tx, ref *ReferenceSet) error {
	id, err := tx.InsertOne(ctx, database.Brands, []any{config.BrandName})
	if err != nil {
		return err
	}
	ref.Brand = models.Brand{ID: id, Name: config.BrandName}

	rows := make([][]any, len(g.tables.SubBrands))
	for i, name := range g.tables.SubBrands {
		rows[i] = []any{id, name}
	}
	ids, err := tx.InsertMany(ctx, database.SubBrands, rows)
	if err != nil {
		return err
	}

	ref.SubBrands = make([]models.SubBrand, len(ids))
	for i, name := range g.tables.SubBrands {
		ref.SubBrands[i] = models.SubBrand{ID: ids[i], BrandID: id, Name: name}
	}
	return nil
}

func (g *ReferenceGenerator) createChannels(ctx context.Context, tx database.Tx, ref *ReferenceSet) error {
	channels := make([]models.Channel, len(g.tables.Channels))
	rows := make([][]any, len(channels))
	for i, spec := range g.tables.Channels {
		channels[i] = models.Channel{
			BrandID:     ref.Brand.ID,
			Name:        spec.Name,
			Description: "Canal " + spec.Name,
			Type:        spec.Type,
			Weight:      spec.Weight,
			Commission:  spec.Commission,
		}
		rows[i] = []any{ref.Brand.ID, spec.Name, channels[i].Description, string(spec.Type)}
	}

	ids, err := tx.InsertMany(ctx, database.Channels, rows)
	if err != nil {
		return err
	}
	for i := range channels {
		channels[i].ID = ids[i]
	}
	ref.Channels = channels
	return nil
}

func (g *ReferenceGenerator) createPaymentTypes(ctx context.Context, tx database.Tx, ref *ReferenceSet) error {
	rows := make([][]any, len(g.tables.PaymentTypes))
	for i, desc := range g.tables.PaymentTypes {
		rows[i] = []any{ref.Brand.ID, desc}
	}
	ids, err := tx.InsertMany(ctx, database.PaymentTypes, rows)
	if err != nil {
		return err
	}

	ref.PaymentTypes = make([]models.PaymentType, len(ids))
	for i, desc := range g.tables.PaymentTypes {
		ref.PaymentTypes[i] = models.PaymentType{ID: ids[i], BrandID: ref.Brand.ID, Description: desc}
	}
	return nil
}

// createSuppliers uses the named suppliers first, then numbered ones
func (g *ReferenceGenerator) createSuppliers(ctx context.Context, tx database.Tx, ref *ReferenceSet) error {
	suppliers := make([]models.Supplier, g.config.NumSuppliers)
	rows := make([][]any, len(suppliers))
	for i := range suppliers {
		name := fmt.Sprintf("Fornecedor #%d", i+1)
		if i < len(g.tables.SupplierNames) {
			name = g.tables.SupplierNames[i]
		}
		created := g.daysAgo(config.SupplierCreatedMinDays, config.SupplierCreatedMaxDays)
		suppliers[i] = models.Supplier{
			Name:      name,
			Contact:   g.faker.Name(g.rng),
			Email:     g.faker.CompanyEmail(name, g.rng),
			Phone:     g.faker.Phone(g.faker.City(g.rng), g.rng),
			CreatedAt: created,
			UpdatedAt: created,
		}
		rows[i] = supplierRow(&suppliers[i])
	}

	ids, err := tx.InsertMany(ctx, database.Suppliers, rows)
	if err != nil {
		return err
	}
	for i := range suppliers {
		suppliers[i].ID = ids[i]
	}
	ref.Suppliers = suppliers
	return nil
}

// createStores spreads stores over a small pool of cities so several stores
// share a city
func (g *ReferenceGenerator) createStores(ctx context.Context, tx database.Tx, ref *ReferenceSet) error {
	cities := make([]string, config.StoreCityPool)
	states := make([]string, config.StoreCityPool)
	for i := range cities {
		c := g.faker.City(g.rng)
		cities[i], states[i] = c.City, c.State
	}

	stores := make([]models.Store, g.config.NumStores)
	rows := make([][]any, len(stores))
	for i := range stores {
		c := g.rng.IntN(len(cities))
		var subBrandID int64
		if len(ref.SubBrands) > 0 {
			subBrandID = ref.SubBrands[g.rng.IntN(len(ref.SubBrands))].ID
		}
		created := patterns.Midnight(g.daysAgo(config.StoreCreatedMinDays, config.StoreCreatedMaxDays))

		stores[i] = models.Store{
			BrandID:       ref.Brand.ID,
			SubBrandID:    subBrandID,
			Name:          fmt.Sprintf("%s - %s", g.faker.Company(g.rng), cities[c]),
			City:          cities[c],
			State:         states[c],
			District:      g.faker.District(g.rng),
			AddressStreet: g.faker.Street(g.rng),
			AddressNumber: g.rng.IntRange(config.StoreNumberMin, config.StoreNumberMax),
			Latitude:      config.DeliveryLatBase + g.rng.Float64Range(-config.StoreLatJitter, config.StoreLatJitter),
			Longitude:     config.DeliveryLongBase + g.rng.Float64Range(-config.StoreLongJitter, config.StoreLongJitter),
			IsActive:      g.rng.Probability(config.StoreActiveProbability),
			IsOwn:         g.rng.Probability(config.StoreOwnProbability),
			CreationDate:  created,
			CreatedAt:     created,
		}
		rows[i] = storeRow(&stores[i])
	}

	ids, err := tx.InsertMany(ctx, database.Stores, rows)
	if err != nil {
		return err
	}
	for i := range stores {
		stores[i].ID = ids[i]
	}
	ref.Stores = stores
	return nil
}

func (g *ReferenceGenerator) createCategories(ctx context.Context, tx database.Tx, ref *ReferenceSet,
	catalog []config.CatalogCategory, kind models.CategoryType) ([]models.Category, error) {
	rows := make([][]any, len(catalog))
	for i, c := range catalog {
		rows[i] = []any{ref.Brand.ID, c.Name, string(kind)}
	}
	ids, err := tx.InsertMany(ctx, database.Categories, rows)
	if err != nil {
		return nil, err
	}

	cats := make([]models.Category, len(ids))
	for i, c := range catalog {
		cats[i] = models.Category{ID: ids[i], BrandID: ref.Brand.ID, Name: c.Name, Type: kind}
	}
	ref.Categories = append(ref.Categories, cats...)
	return cats, nil
}

func (g *ReferenceGenerator) pickSubBrand(ref *ReferenceSet) int64 {
	if len(ref.SubBrands) == 0 {
		return 0
	}
	return ref.SubBrands[g.rng.IntN(len(ref.SubBrands))].ID
}

// createProducts splits the product count evenly over the catalog categories.
// Sizes cycle P, M, G by index.
func (g *ReferenceGenerator) createProducts(ctx context.Context, tx database.Tx, ref *ReferenceSet) error {
	catalog := g.tables.ProductCatalog
	cats, err := g.createCategories(ctx, tx, ref, catalog, models.CategoryProduct)
	if err != nil {
		return err
	}
	if len(catalog) == 0 {
		return nil
	}

	sizes := []string{"P", "M", "G"}
	costPatterns := models.CostPatterns()
	perCategory := g.config.NumProducts / len(catalog)

	products := make([]models.Product, 0, perCategory*len(catalog))
	for c, cat := range cats {
		for i := 0; i < perCategory; i++ {
			prefix := g.rng.PickString(catalog[c].Names)
			products = append(products, models.Product{
				BrandID:      ref.Brand.ID,
				SubBrandID:   g.pickSubBrand(ref),
				CategoryID:   cat.ID,
				Name:         fmt.Sprintf("%s %s #%03d", prefix, sizes[i%len(sizes)], i+1),
				PosUUID:      fmt.Sprintf("prod_%d_%d", cat.ID, i),
				Category:     cat.Name,
				BasePrice:    utils.RandomAmount(g.rng, utils.Cents(config.ProductPriceMin), utils.Cents(config.ProductPriceMax)),
				Popularity:   patterns.Popularity(g.rng, config.PopularityAlpha, config.PopularityBeta),
				Customizable: g.rng.Probability(config.CustomizableProbability),
				CostPattern:  costPatterns[g.rng.IntN(len(costPatterns))],
			})
		}
	}
	if len(products) == 0 {
		return nil
	}

	rows := make([][]any, len(products))
	for i := range products {
		rows[i] = productRow(&products[i])
	}
	ids, err := tx.InsertMany(ctx, database.Products, rows)
	if err != nil {
		return err
	}
	for i := range products {
		products[i].ID = ids[i]
	}
	ref.Products = products
	return nil
}

// createItems walks the fixed item catalog, stopping at the configured count
func (g *ReferenceGenerator) createItems(ctx context.Context, tx database.Tx, ref *ReferenceSet) error {
	catalog := g.tables.ItemCatalog
	cats, err := g.createCategories(ctx, tx, ref, catalog, models.CategoryItem)
	if err != nil {
		return err
	}

	var items []models.Item
catalogLoop:
	for c, cat := range cats {
		for _, name := range catalog[c].Names {
			if len(items) >= g.config.NumItems {
				break catalogLoop
			}
			items = append(items, models.Item{
				BrandID:    ref.Brand.ID,
				SubBrandID: g.pickSubBrand(ref),
				CategoryID: cat.ID,
				Name:       name,
				PosUUID:    fmt.Sprintf("item_%d_%s", cat.ID, truncateRunes(name, 10)),
				Price:      utils.RandomAmount(g.rng, utils.Cents(config.ItemPriceMin), utils.Cents(config.ItemPriceMax)),
			})
		}
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([][]any, len(items))
	for i := range items {
		rows[i] = itemRow(&items[i])
	}
	ids, err := tx.InsertMany(ctx, database.Items, rows)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].ID = ids[i]
	}
	ref.Items = items
	return nil
}

func (g *ReferenceGenerator) createOptionGroups(ctx context.Context, tx database.Tx, ref *ReferenceSet) error {
	rows := make([][]any, len(g.tables.OptionGroups))
	for i, name := range g.tables.OptionGroups {
		rows[i] = []any{ref.Brand.ID, name}
	}
	ids, err := tx.InsertMany(ctx, database.OptionGroups, rows)
	if err != nil {
		return err
	}

	ref.OptionGroups = make([]models.OptionGroup, len(ids))
	for i, name := range g.tables.OptionGroups {
		ref.OptionGroups[i] = models.OptionGroup{ID: ids[i], BrandID: ref.Brand.ID, Name: name}
	}
	return nil
}

// createCustomers inserts customers in chunks, one transaction per chunk
func (g *ReferenceGenerator) createCustomers(ctx context.Context, ref *ReferenceSet) error {
	ref.CustomerIDs = make([]int64, 0, g.config.NumCustomers)

	for start := 0; start < g.config.NumCustomers; start += config.CustomerChunkSize {
		end := min(start+config.CustomerChunkSize, g.config.NumCustomers)

		rows := make([][]any, 0, end-start)
		for i := start; i < end; i++ {
			c := g.generateCustomer()
			rows = append(rows, customerRow(&c))
		}

		err := database.WithTx(ctx, g.store, func(tx database.Tx) error {
			ids, err := tx.InsertMany(ctx, database.Customers, rows)
			if err != nil {
				return err
			}
			ref.CustomerIDs = append(ref.CustomerIDs, ids...)
			return nil
		})
		if err != nil {
			return err
		}
		g.logger.Debug("customers chunk committed", "count", end, "total", g.config.NumCustomers)
	}
	return nil
}

func (g *ReferenceGenerator) generateCustomer() models.Customer {
	p := g.faker.Person(g.rng)
	age := g.rng.IntRange(config.CustomerMinAge, config.CustomerMaxAge)
	birth := g.config.Now.AddDate(-age, 0, -g.rng.IntN(365))

	created := g.config.Now.AddDate(0, 0, -g.rng.IntRange(0, config.CustomerCreatedMaxDays)).
		Add(-g.rng.Duration(0, 24*time.Hour))

	return models.Customer{
		Name:                   p.FullName(),
		Email:                  g.faker.Email(p, g.rng),
		PhoneNumber:            g.faker.Phone(g.faker.City(g.rng), g.rng),
		CPF:                    g.faker.CPF(g.rng),
		BirthDate:              patterns.Midnight(birth),
		Gender:                 g.tables.Genders[g.rng.IntN(len(g.tables.Genders))],
		AgreeTerms:             g.rng.Probability(config.AgreeTermsProbability),
		ReceivePromotionsEmail: g.rng.Probability(config.PromotionsEmailProbability),
		RegistrationOrigin:     g.tables.RegistrationOrigins[g.rng.IntN(len(g.tables.RegistrationOrigins))],
		CreatedAt:              created,
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
