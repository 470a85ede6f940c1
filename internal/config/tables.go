package config

import (
	"time"

	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// Tables holds the fixed lookup tables used across generation. Build one with
// NewTables at startup and pass it to the components that need it; nothing
// mutates it afterwards.
type Tables struct {
	// WeekdayMultipliers is indexed Monday=0 .. Sunday=6
	WeekdayMultipliers [7]float64
	HourBuckets        []HourBucket

	Channels     []ChannelSpec
	PaymentTypes []string

	DiscountReasons []string
	DeliveryFees    []utils.Money
	CourierTypes    []string
	DeliveryTypes   []string
	Complements     []string

	SubBrands      []string
	ProductCatalog []CatalogCategory
	ItemCatalog    []CatalogCategory
	OptionGroups   []string

	Genders             []models.Gender
	RegistrationOrigins []models.RegistrationOrigin

	SupplierNames []string
	CostNotes     []string
	ExpenseRanges []ExpenseRange
	FixedCosts    []FixedCostSpec
}

// HourBucket assigns a relative weight to hours From..To inclusive
type HourBucket struct {
	From   int
	To     int
	Weight float64
}

// ChannelSpec describes a sales channel before it is persisted
type ChannelSpec struct {
	Name       string
	Type       models.ChannelType
	Weight     float64
	Commission float64
}

// CatalogCategory is a category name with the names used inside it. For
// products these are name prefixes, for items the full item names.
type CatalogCategory struct {
	Name  string
	Names []string
}

// ExpenseRange bounds the base monthly amount of an expense category
type ExpenseRange struct {
	Category models.ExpenseCategory
	Min      utils.Money
	Max      utils.Money
}

// FixedCostSpec is one fixed-cost type with its amount range
type FixedCostSpec struct {
	Name      string
	Frequency models.Frequency
	Min       utils.Money
	Max       utils.Money
}

// NewTables returns a fresh copy of every lookup table
func NewTables() *Tables {
	return &Tables{
		WeekdayMultipliers: [7]float64{0.8, 0.9, 0.95, 1.0, 1.3, 1.5, 1.4},
		HourBuckets: []HourBucket{
			{From: 0, To: 5, Weight: 0.02},
			{From: 6, To: 10, Weight: 0.08},
			{From: 11, To: 14, Weight: 0.35}, // lunch
			{From: 15, To: 18, Weight: 0.10},
			{From: 19, To: 22, Weight: 0.40}, // dinner
			{From: 23, To: 23, Weight: 0.05},
		},

		Channels: []ChannelSpec{
			{Name: "Presencial", Type: models.ChannelInPerson, Weight: 0.40, Commission: 0},
			{Name: "iFood", Type: models.ChannelDelivery, Weight: 0.30, Commission: 27},
			{Name: "Rappi", Type: models.ChannelDelivery, Weight: 0.15, Commission: 25},
			{Name: "Uber Eats", Type: models.ChannelDelivery, Weight: 0.08, Commission: 30},
			{Name: "WhatsApp", Type: models.ChannelDelivery, Weight: 0.05, Commission: 0},
			{Name: "App Próprio", Type: models.ChannelDelivery, Weight: 0.02, Commission: 0},
		},
		// Order matters: split payments take their first tender from the
		// leading SplitFirstPaymentTypes entries.
		PaymentTypes: []string{
			"Dinheiro", "Cartão de Crédito", "Cartão de Débito",
			"PIX", "Vale Refeição", "Vale Alimentação",
		},

		DiscountReasons: []string{
			"Cupom de desconto", "Promoção do dia", "Cliente fidelidade",
			"Desconto gerente", "Primeira compra", "Aniversário",
		},
		DeliveryFees:  []utils.Money{utils.Reais(5), utils.Reais(7), utils.Reais(9), utils.Reais(12), utils.Reais(15)},
		CourierTypes:  []string{"PLATFORM", "OWN", "THIRD_PARTY"},
		DeliveryTypes: []string{"DELIVERY", "TAKEOUT", "INDOOR"},
		Complements:   []string{"Apto 101", "Casa", "Bloco A", "Fundos"},

		SubBrands: []string{"Challenge Burger", "Challenge Pizza", "Challenge Sushi"},
		ProductCatalog: []CatalogCategory{
			{Name: "Burgers", Names: []string{"X-Burger", "Cheeseburger", "Bacon Burger", "Double Burger", "Veggie Burger"}},
			{Name: "Pizzas", Names: []string{"Pizza Margherita", "Pizza Calabresa", "Pizza 4 Queijos", "Pizza Portuguesa", "Pizza Frango"}},
			{Name: "Pratos", Names: []string{"Prato Executivo", "Filé", "Frango Grelhado", "Lasanha", "Risoto"}},
			{Name: "Combos", Names: []string{"Combo Família", "Combo Individual", "Combo Duplo", "Combo Kids", "Combo Executivo"}},
			{Name: "Sobremesas", Names: []string{"Brownie", "Pudim", "Sorvete", "Petit Gateau", "Torta"}},
			{Name: "Bebidas", Names: []string{"Refrigerante", "Suco", "Água", "Cerveja", "Vinho"}},
		},
		ItemCatalog: []CatalogCategory{
			{Name: "Complementos", Names: []string{
				"Bacon", "Queijo Cheddar", "Queijo Mussarela", "Ovo", "Alface", "Tomate",
				"Cebola", "Picles", "Jalapeño", "Cogumelos", "Abacaxi", "Catupiry",
			}},
			{Name: "Molhos", Names: []string{
				"Molho Barbecue", "Molho Mostarda", "Molho Especial", "Maionese", "Ketchup",
				"Molho Picante", "Molho Ranch", "Molho Tártaro",
			}},
			{Name: "Adicionais", Names: []string{
				"Batata Frita", "Onion Rings", "Nuggets", "Salada", "Arroz", "Feijão",
				"Farofa", "Vinagrete",
			}},
		},
		OptionGroups: []string{"Adicionais", "Remover", "Ponto da Carne", "Tamanho"},

		Genders: []models.Gender{
			models.GenderMale, models.GenderFemale, models.GenderNonBinary, models.GenderOther,
		},
		RegistrationOrigins: []models.RegistrationOrigin{
			models.OriginQRCode, models.OriginLink, models.OriginBalcony, models.OriginPOS,
		},

		SupplierNames: []string{
			"Atacadão São Paulo LTDA",
			"Distribuidora Central de Alimentos",
			"FreshMart Distribuidora",
			"Alimentos Premium do Brasil",
			"Comercial Fornecedor Geral",
		},
		CostNotes: []string{
			"Reajuste fornecedor", "Promoção atacadista", "Alta demanda",
			"Custo de transporte", "Variação cambial",
		},
		ExpenseRanges: []ExpenseRange{
			{Category: models.ExpenseLabor, Min: utils.Reais(15000), Max: utils.Reais(35000)},
			{Category: models.ExpenseRent, Min: utils.Reais(5000), Max: utils.Reais(15000)},
			{Category: models.ExpenseUtilities, Min: utils.Reais(2000), Max: utils.Reais(6000)},
			{Category: models.ExpenseMarketing, Min: utils.Reais(1000), Max: utils.Reais(5000)},
			{Category: models.ExpenseMaintenance, Min: utils.Reais(500), Max: utils.Reais(3000)},
			{Category: models.ExpenseOther, Min: utils.Reais(1000), Max: utils.Reais(4000)},
		},
		FixedCosts: []FixedCostSpec{
			{Name: "Aluguel", Frequency: models.FrequencyMonthly, Min: utils.Reais(5000), Max: utils.Reais(15000)},
			{Name: "Salários Fixos", Frequency: models.FrequencyMonthly, Min: utils.Reais(10000), Max: utils.Reais(25000)},
			{Name: "Seguro", Frequency: models.FrequencyAnnual, Min: utils.Reais(3000), Max: utils.Reais(8000)},
			{Name: "Contabilidade", Frequency: models.FrequencyMonthly, Min: utils.Reais(500), Max: utils.Reais(2000)},
			{Name: "Sistema POS", Frequency: models.FrequencyMonthly, Min: utils.Reais(200), Max: utils.Reais(800)},
		},
	}
}

// WeekdayMultiplier returns the demand multiplier for the day of t
func (t *Tables) WeekdayMultiplier(day time.Time) float64 {
	// time.Weekday is Sunday=0; the table is Monday=0
	idx := (int(day.Weekday()) + 6) % 7
	return t.WeekdayMultipliers[idx]
}

// HourWeights expands the buckets into 24 per-hour weights. Hours not covered
// by any bucket get weight 0.
func (t *Tables) HourWeights() [24]float64 {
	var weights [24]float64
	for _, b := range t.HourBuckets {
		for h := b.From; h <= b.To && h < 24; h++ {
			if h >= 0 {
				weights[h] = b.Weight
			}
		}
	}
	return weights
}
