package domain

// A Product is one stocked item of the shop inventory.
//
// Barcode is the identity key: the inventory holds at most one product
// per barcode value. ItemName is a display attribute and is not unique.
// Quantity is fractional to support weight-based items.
type Product struct {
	ItemName        string
	Quantity        float64
	OriginalPrice   float64
	DiscountedPrice float64
	Barcode         int64
}

// ProductFields carries the overwrite values for an existing product.
// The upsert path replaces quantity, it never adds to it.
type ProductFields struct {
	ItemName        string
	Quantity        float64
	OriginalPrice   float64
	DiscountedPrice float64
}

// A StockDelta is a signed quantity adjustment for one product.
type StockDelta struct {
	Barcode  int64
	ItemName string
	Delta    float64
}
