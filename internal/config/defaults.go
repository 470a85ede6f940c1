// Package config contains compile-time defaults for the data generator.
// Edit these values and recompile to tune behavior.
package config

import "time"

// =============================================================================
// RUN DEFAULTS
// =============================================================================

// Reference data volumes
const (
	DefaultStores    = 50
	DefaultProducts  = 500
	DefaultItems     = 200
	DefaultCustomers = 10000
	DefaultSuppliers = 5
	DefaultMonths    = 6
)

// Horizon and batching
const (
	// DaysPerMonth is the month length used for horizons and cost periods
	DaysPerMonth = 30

	// DefaultBatchSize is sales per persistence transaction
	DefaultBatchSize = 500

	// CustomerChunkSize is customers per bulk insert during bootstrap
	CustomerChunkSize = 1000

	// RecordChunkSize is validity-range records per transaction
	RecordChunkSize = 1000

	// LookaheadDaysPerWorker bounds synthesized days waiting for the writer
	LookaheadDaysPerWorker = 2
)

// =============================================================================
// TEMPORAL DEMAND
// =============================================================================

// Daily volume before weekday and anomaly multipliers
const (
	DemandMean   = 2700.0
	DemandStdDev = 400.0
)

// Anomaly windows, chosen once per run relative to the horizon start
const (
	// DipMultiplier scales the seven-day demand dip
	DipMultiplier    = 0.7
	DipLengthDays    = 7
	DipOffsetMinDays = 30
	DipOffsetMaxDays = 60

	// PromoMultiplier scales the single promotion day
	PromoMultiplier    = 3.0
	PromoOffsetMinDays = 90
	PromoOffsetMaxDays = 120
)

// =============================================================================
// SELECTION
// =============================================================================

const (
	// CustomerAttachProbability is the chance a sale references a known customer
	CustomerAttachProbability = 0.7

	// ProductCountRate is the exponential rate for products per sale
	ProductCountRate   = 0.5
	MaxProductsPerSale = 5
	MinLineQuantity    = 1
	MaxLineQuantity    = 3

	// Popularity weights are Beta(alpha, beta) draws fixed at product creation
	PopularityAlpha = 2.0
	PopularityBeta  = 5.0

	// CustomizableProbability is the share of products that accept items
	CustomizableProbability = 0.6

	// CustomizationProbability is the chance an eligible line gets items
	CustomizationProbability = 0.6
	MinItemsPerLine          = 1
	MaxItemsPerLine          = 4

	// OptionGroupProbability is the chance an attached item is tagged
	OptionGroupProbability = 0.5
)

// =============================================================================
// PRICING
// =============================================================================

const (
	DiscountProbability = 0.2
	DiscountMinRate     = 0.05
	DiscountMaxRate     = 0.30

	IncreaseProbability = 0.05
	IncreaseMinRate     = 0.02
	IncreaseMaxRate     = 0.10

	ServiceTaxProbability = 0.3
	ServiceTaxPercent     = 10.0

	// Status weights (relative)
	CompletedWeight = 95
	CancelledWeight = 5

	// SinglePaymentProbability is the chance a completed sale has one payment
	SinglePaymentProbability = 0.85
	SplitMinRatio            = 0.3
	SplitMaxRatio            = 0.7

	// SplitFirstPaymentTypes is how many leading catalog entries the first
	// of two split payments may use
	SplitFirstPaymentTypes = 3
)

// Operational timings in seconds
const (
	ProductionSecondsMin = 300
	ProductionSecondsMax = 2400
	DeliverySecondsMin   = 600
	DeliverySecondsMax   = 3600

	PeopleQuantityMin = 1
	PeopleQuantityMax = 8
)

// =============================================================================
// DELIVERY
// =============================================================================

const (
	// CourierFeeRatio is the courier's share of the delivery fee
	CourierFeeRatio = 0.6

	ComplementProbability = 0.5

	DeliveryLatBase      = -23.5
	DeliveryLatJitterMin = -10.0
	DeliveryLatJitterMax = 5.0
	DeliveryLongBase     = -46.6
	DeliveryLongJitter   = 10.0

	// National bounding box for delivery coordinates
	LatitudeMin  = -33.0
	LatitudeMax  = -5.0
	LongitudeMin = -74.0
	LongitudeMax = -34.0
)

// =============================================================================
// REFERENCE DATA
// =============================================================================

const (
	BrandName = "Nola God Level Brand"

	// Prices in centavos
	ProductPriceMin = 1500
	ProductPriceMax = 12000
	ItemPriceMin    = 200
	ItemPriceMax    = 1500

	StoreCityPool          = 20
	StoreActiveProbability = 0.9
	StoreOwnProbability    = 0.3
	StoreLatJitter         = 2.0
	StoreLongJitter        = 3.0
	StoreNumberMin         = 10
	StoreNumberMax         = 9999
	StoreCreatedMinDays    = 180
	StoreCreatedMaxDays    = 720

	SupplierCreatedMinDays = 365
	SupplierCreatedMaxDays = 730

	CustomerMinAge             = 18
	CustomerMaxAge             = 75
	CustomerCreatedMaxDays     = 720
	PromotionsEmailProbability = 1.0 / 3.0
	AgreeTermsProbability      = 0.5
)

// =============================================================================
// VALIDITY RANGES
// =============================================================================

const (
	// Initial product cost as a share of the sale price
	BaseCostMinRatio = 0.30
	BaseCostMaxRatio = 0.40

	CostNoteProbability = 0.1

	// ExpenseNoise is the +/- monthly variation around a store's base expense
	ExpenseNoise = 0.15

	FixedCostStartMinDays   = 180
	FixedCostStartMaxDays   = 730
	FixedCostEndProbability = 0.1
	FixedCostTermDays       = 365

	CommissionHistoryDays = 365
	CommissionCutoverDays = 90
	CommissionJitter      = 2.0

	PreviousRateNote = "Taxa anterior"
	CurrentRateNote  = "Taxa atual"
)

// =============================================================================
// DATABASE DEFAULTS
// =============================================================================

const (
	// DBMaxOpenConns is maximum open connections in the pool
	DBMaxOpenConns = 10

	// DBMaxIdleConns is maximum idle connections in the pool
	DBMaxIdleConns = 5

	// DBConnMaxLifetime is how long a connection can be reused
	DBConnMaxLifetime = 5 * time.Minute

	// DBConnMaxIdleTime is how long an idle connection is kept
	DBConnMaxIdleTime = 1 * time.Minute
)

// =============================================================================
// METRICS
// =============================================================================

const (
	// MetricsShutdownTimeout bounds the /metrics server shutdown
	MetricsShutdownTimeout = 5 * time.Second
)
