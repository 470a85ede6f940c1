package generator

import (
	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/generator/patterns"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// Intent is an unpriced sale: who buys what, where and through which channel
type Intent struct {
	Store        *models.Store
	Channel      *models.Channel
	CustomerID   *int64
	CustomerName *string
	Lines        []LineIntent
}

// LineIntent is one product line before pricing
type LineIntent struct {
	Product  *models.Product
	Quantity int
	Items    []ItemIntent
}

// ItemIntent is an add-on attached to a line, optionally tagged with an
// option group
type ItemIntent struct {
	Item          *models.Item
	OptionGroupID *int64
}

// Selector draws sale intents from the reference set. Pools are built once;
// a Selector is read-only afterwards and safe to share between workers as
// long as each worker passes its own rng.
type Selector struct {
	faker *Faker

	stores       []models.Store
	channels     []models.Channel
	products     []models.Product
	items        []models.Item
	optionGroups []int64
	customers    []int64

	channelPool *patterns.WeightedPool
	productPool *patterns.WeightedPool
}

// NewSelector builds the weighted pools. It fails with a ConfigurationError
// when a pool the core needs is empty.
func NewSelector(ref *ReferenceSet, faker *Faker) (*Selector, error) {
	s := &Selector{
		faker:     faker,
		stores:    ref.ActiveStores(),
		channels:  ref.Channels,
		products:  ref.Products,
		items:     ref.Items,
		customers: ref.CustomerIDs,
	}

	if len(s.stores) == 0 {
		return nil, configErr("stores", "no active stores")
	}

	weights := make([]float64, len(s.channels))
	for i, c := range s.channels {
		weights[i] = c.Weight
	}
	pool, err := patterns.NewWeightedPool("channels", weights)
	if err != nil {
		return nil, configErr("channels", "%v", err)
	}
	s.channelPool = pool

	weights = make([]float64, len(s.products))
	customizable := false
	for i, p := range s.products {
		weights[i] = p.Popularity
		customizable = customizable || p.Customizable
	}
	pool, err = patterns.NewWeightedPool("products", weights)
	if err != nil {
		return nil, configErr("products", "%v", err)
	}
	s.productPool = pool

	if customizable && len(s.items) == 0 {
		return nil, configErr("items", "customizable products exist but the item pool is empty")
	}

	for _, og := range ref.OptionGroups {
		s.optionGroups = append(s.optionGroups, og.ID)
	}

	return s, nil
}

// Select draws one complete intent
func (s *Selector) Select(rng *utils.Random) Intent {
	intent := Intent{
		Store:   &s.stores[rng.IntN(len(s.stores))],
		Channel: &s.channels[s.channelPool.Pick(rng)],
	}

	// Without registered customers every sale is anonymous
	if len(s.customers) > 0 && rng.Probability(config.CustomerAttachProbability) {
		id := rng.PickInt64(s.customers)
		intent.CustomerID = &id
	} else {
		name := s.faker.Name(rng)
		intent.CustomerName = &name
	}

	n := patterns.ProductCount(rng, config.ProductCountRate, config.MaxProductsPerSale)
	intent.Lines = make([]LineIntent, n)
	for i := range intent.Lines {
		intent.Lines[i] = s.selectLine(rng)
	}
	return intent
}

// selectLine draws a product with replacement, so one sale may repeat a
// product on separate lines
func (s *Selector) selectLine(rng *utils.Random) LineIntent {
	product := &s.products[s.productPool.Pick(rng)]
	line := LineIntent{
		Product:  product,
		Quantity: rng.IntRange(config.MinLineQuantity, config.MaxLineQuantity),
	}

	if !product.Customizable || !rng.Probability(config.CustomizationProbability) {
		return line
	}

	n := rng.IntRange(config.MinItemsPerLine, config.MaxItemsPerLine)
	line.Items = make([]ItemIntent, n)
	for i := range line.Items {
		line.Items[i].Item = &s.items[rng.IntN(len(s.items))]
		if len(s.optionGroups) > 0 && rng.Probability(config.OptionGroupProbability) {
			id := s.optionGroups[rng.IntN(len(s.optionGroups))]
			line.Items[i].OptionGroupID = &id
		}
	}
	return line
}
