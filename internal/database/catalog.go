package database

// Table definitions, in foreign-key order
var (
	Brands = Table{Name: "brands", Columns: []string{"name"}}

	SubBrands = Table{Name: "sub_brands", Columns: []string{"brand_id", "name"}}

	Channels = Table{Name: "channels", Columns: []string{"brand_id", "name", "description", "type"}}

	PaymentTypes = Table{Name: "payment_types", Columns: []string{"brand_id", "description"}}

	Suppliers = Table{Name: "suppliers", Columns: []string{
		"name", "contact", "email", "phone", "created_at", "updated_at",
	}}

	Stores = Table{Name: "stores", Columns: []string{
		"brand_id", "sub_brand_id", "name", "city", "state", "district",
		"address_street", "address_number", "latitude", "longitude",
		"is_active", "is_own", "creation_date", "created_at",
	}}

	Categories = Table{Name: "categories", Columns: []string{"brand_id", "name", "type"}}

	Products = Table{Name: "products", Columns: []string{
		"brand_id", "sub_brand_id", "category_id", "name", "pos_uuid",
	}}

	Items = Table{Name: "items", Columns: []string{
		"brand_id", "sub_brand_id", "category_id", "name", "pos_uuid",
	}}

	OptionGroups = Table{Name: "option_groups", Columns: []string{"brand_id", "name"}}

	Customers = Table{Name: "customers", Columns: []string{
		"customer_name", "email", "phone_number", "cpf", "birth_date", "gender",
		"agree_terms", "receive_promotions_email", "registration_origin", "created_at",
	}}

	Sales = Table{Name: "sales", RefColumn: "client_ref", Columns: []string{
		"client_ref", "store_id", "customer_id", "channel_id", "customer_name", "created_at",
		"sale_status_desc", "total_amount_items", "total_discount", "total_increase",
		"delivery_fee", "service_tax_fee", "total_amount", "value_paid",
		"production_seconds", "delivery_seconds", "discount_reason", "people_quantity", "origin",
	}}

	ProductSales = Table{Name: "product_sales", RefColumn: "client_ref", Columns: []string{
		"client_ref", "sale_id", "product_id", "quantity", "base_price", "total_price",
	}}

	ItemProductSales = Table{Name: "item_product_sales", Columns: []string{
		"product_sale_id", "item_id", "option_group_id", "quantity",
		"additional_price", "price", "amount",
	}}

	DeliverySales = Table{Name: "delivery_sales", RefColumn: "client_ref", Columns: []string{
		"client_ref", "sale_id", "courier_name", "courier_phone", "courier_type",
		"delivery_type", "status", "delivery_fee", "courier_fee",
	}}

	DeliveryAddresses = Table{Name: "delivery_addresses", Columns: []string{
		"sale_id", "delivery_sale_id", "street", "number", "complement", "neighborhood",
		"city", "state", "postal_code", "latitude", "longitude",
	}}

	Payments = Table{Name: "payments", Columns: []string{"sale_id", "payment_type_id", "value"}}

	ProductCosts = Table{Name: "product_costs", Columns: []string{
		"product_id", "cost", "valid_from", "valid_until", "supplier_id", "notes",
		"created_at", "updated_at",
	}}

	OperatingExpenses = Table{Name: "operating_expenses", Columns: []string{
		"store_id", "category", "amount", "period", "description", "created_at", "updated_at",
	}}

	FixedCosts = Table{Name: "fixed_costs", Columns: []string{
		"store_id", "name", "amount", "frequency", "start_date", "end_date", "description",
		"created_at", "updated_at",
	}}

	ChannelCommissions = Table{Name: "channel_commissions", Columns: []string{
		"channel_id", "commission_rate", "valid_from", "valid_until", "notes",
		"created_at", "updated_at",
	}}
)

// AllTables lists every table in foreign-key order
func AllTables() []Table {
	return []Table{
		Brands, SubBrands, Channels, PaymentTypes, Suppliers, Stores, Categories,
		Products, Items, OptionGroups, Customers,
		Sales, ProductSales, ItemProductSales, DeliverySales, DeliveryAddresses, Payments,
		ProductCosts, OperatingExpenses, FixedCosts, ChannelCommissions,
	}
}

// lookupTables are the small catalog tables that support Lookup in stores
// that do not query a database
var lookupTables = map[string]bool{
	Brands.Name:       true,
	SubBrands.Name:    true,
	Channels.Name:     true,
	PaymentTypes.Name: true,
	Categories.Name:   true,
	OptionGroups.Name: true,
}
