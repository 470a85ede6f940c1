package models

import (
	"time"

	"github.com/willfong/restaurant-datagen/internal/utils"
)

// ChannelType separates counter sales from delivery platforms
type ChannelType string

const (
	ChannelInPerson ChannelType = "P"
	ChannelDelivery ChannelType = "D"
)

// CategoryType marks a category as holding products or add-on items
type CategoryType string

const (
	CategoryProduct CategoryType = "P"
	CategoryItem    CategoryType = "I"
)

// Brand is the single top-level brand all data hangs off
type Brand struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SubBrand is a restaurant concept under the brand
type SubBrand struct {
	ID      int64  `db:"id" json:"id"`
	BrandID int64  `db:"brand_id" json:"brand_id"`
	Name    string `db:"name" json:"name"`
}

// Channel is a sales medium with its selection weight and nominal commission
type Channel struct {
	ID          int64       `db:"id" json:"id"`
	BrandID     int64       `db:"brand_id" json:"brand_id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	Type        ChannelType `db:"type" json:"type"`

	// Generation-only attributes, not persisted
	Weight     float64 `db:"-" json:"-"`
	Commission float64 `db:"-" json:"-"` // percent, 0 means no commission
}

// IsDelivery reports whether sales on this channel are delivered
func (c *Channel) IsDelivery() bool {
	return c.Type == ChannelDelivery
}

// PaymentType is an entry of the payment-method catalog
type PaymentType struct {
	ID          int64  `db:"id" json:"id"`
	BrandID     int64  `db:"brand_id" json:"brand_id"`
	Description string `db:"description" json:"description"`
}

// Supplier provides ingredients; every product cost series names one
type Supplier struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Contact   string    `db:"contact" json:"contact"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Store is a physical restaurant location
type Store struct {
	ID            int64     `db:"id" json:"id"`
	BrandID       int64     `db:"brand_id" json:"brand_id"`
	SubBrandID    int64     `db:"sub_brand_id" json:"sub_brand_id"`
	Name          string    `db:"name" json:"name"`
	City          string    `db:"city" json:"city"`
	State         string    `db:"state" json:"state"`
	District      string    `db:"district" json:"district"`
	AddressStreet string    `db:"address_street" json:"address_street"`
	AddressNumber int       `db:"address_number" json:"address_number"`
	Latitude      float64   `db:"latitude" json:"latitude"`
	Longitude     float64   `db:"longitude" json:"longitude"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	IsOwn         bool      `db:"is_own" json:"is_own"`
	CreationDate  time.Time `db:"creation_date" json:"creation_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Category groups products (type P) or items (type I)
type Category struct {
	ID      int64        `db:"id" json:"id"`
	BrandID int64        `db:"brand_id" json:"brand_id"`
	Name    string       `db:"name" json:"name"`
	Type    CategoryType `db:"type" json:"type"`
}

// Product is a sellable menu entry
type Product struct {
	ID         int64  `db:"id" json:"id"`
	BrandID    int64  `db:"brand_id" json:"brand_id"`
	SubBrandID int64  `db:"sub_brand_id" json:"sub_brand_id"`
	CategoryID int64  `db:"category_id" json:"category_id"`
	Name       string `db:"name" json:"name"`
	PosUUID    string `db:"pos_uuid" json:"pos_uuid"`

	// Generation-only attributes, not persisted
	Category     string      `db:"-" json:"-"`
	BasePrice    utils.Money `db:"-" json:"-"`
	Popularity   float64     `db:"-" json:"-"` // Beta(2,5) weight, fixed at creation
	Customizable bool        `db:"-" json:"-"`
	CostPattern  CostPattern `db:"-" json:"-"`
}

// Item is an add-on that can be attached to a product line
type Item struct {
	ID         int64  `db:"id" json:"id"`
	BrandID    int64  `db:"brand_id" json:"brand_id"`
	SubBrandID int64  `db:"sub_brand_id" json:"sub_brand_id"`
	CategoryID int64  `db:"category_id" json:"category_id"`
	Name       string `db:"name" json:"name"`
	PosUUID    string `db:"pos_uuid" json:"pos_uuid"`

	Price utils.Money `db:"-" json:"-"`
}

// OptionGroup tags an item customization (e.g. "Remover")
type OptionGroup struct {
	ID      int64  `db:"id" json:"id"`
	BrandID int64  `db:"brand_id" json:"brand_id"`
	Name    string `db:"name" json:"name"`
}
