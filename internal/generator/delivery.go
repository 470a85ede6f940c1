package generator

import (
	"strconv"

	"github.com/willfong/restaurant-datagen/internal/config"
	"github.com/willfong/restaurant-datagen/internal/models"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// delivery builds the courier record and drop-off address of a completed
// delivery-channel sale
func (p *Pricer) delivery(fee utils.Money, rng *utils.Random) *models.Delivery {
	courierCity := p.faker.City(rng)
	d := &models.Delivery{
		ClientRef:    rng.UUID(),
		CourierName:  p.faker.Name(rng),
		CourierPhone: p.faker.Phone(courierCity, rng),
		CourierType:  rng.PickString(p.tables.CourierTypes),
		DeliveryType: rng.PickString(p.tables.DeliveryTypes),
		Status:       models.DeliveryStatusDelivered,
		DeliveryFee:  fee,
		CourierFee:   CourierFee(fee),
	}

	city := p.faker.City(rng)
	d.Address = models.DeliveryAddress{
		Street:       p.faker.Street(rng),
		Number:       strconv.Itoa(rng.IntRange(1, 9999)),
		Neighborhood: p.faker.District(rng),
		City:         city.City,
		State:        city.State,
		PostalCode:   p.faker.PostalCode(city, rng),
		Latitude: clamp(config.DeliveryLatBase+rng.Float64Range(config.DeliveryLatJitterMin, config.DeliveryLatJitterMax),
			config.LatitudeMin, config.LatitudeMax),
		Longitude: clamp(config.DeliveryLongBase+rng.Float64Range(-config.DeliveryLongJitter, config.DeliveryLongJitter),
			config.LongitudeMin, config.LongitudeMax),
	}
	if rng.Probability(config.ComplementProbability) {
		c := rng.PickString(p.tables.Complements)
		d.Address.Complement = &c
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
