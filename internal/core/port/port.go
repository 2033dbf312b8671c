package port

import (
	"context"

	"github.com/niksmo/retail-pos/internal/core/domain"
)

// Inbound ports: what the transport layer asks the core to do.

type UpsertProductData struct {
	ItemName        string
	Quantity        float64
	OriginalPrice   float64
	DiscountedPrice float64
	Barcode         string
}

type ProductUpserter interface {
	UpsertProduct(ctx context.Context, v UpsertProductData) (p domain.Product, created bool, err error)
}

type ProductProvider interface {
	LookupBarcode(ctx context.Context, barcode string) (domain.Product, error)
	SearchProducts(ctx context.Context, term string) ([]domain.Product, error)
	ListInventory(ctx context.Context) ([]domain.Product, error)
}

type BarcodeIssuer interface {
	IssueBarcode(ctx context.Context) (string, error)
}

type CheckoutData struct {
	CustomerPhone string
	CustomerName  string
	Cart          []domain.CartLine
	TotalAmount   float64
	OrderTime     int64 // unix seconds, zero means now
}

type CheckoutProcessor interface {
	Checkout(ctx context.Context, v CheckoutData) (orderID int64, err error)
}

type OrderHistoryProvider interface {
	SearchOrders(ctx context.Context, term string) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
}

type CustomerStatsProvider interface {
	CustomerStats(ctx context.Context, phone string) (domain.CustomerStats, error)
}

// Outbound ports: what the core expects from adapters.

// InventoryRepository abstracts the authoritative product aggregate.
//
// ApplyDeltas must adjust all quantities atomically: either every delta
// commits, or none does, and no reader ever observes a partial batch or
// a negative quantity.
type InventoryRepository interface {
	FindByBarcode(ctx context.Context, barcode int64) (domain.Product, error)
	FindByName(ctx context.Context, itemName string) (domain.Product, error)
	SearchByName(ctx context.Context, term string, limit int) ([]domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Insert(ctx context.Context, p domain.Product) error
	SetFields(ctx context.Context, barcode int64, f domain.ProductFields) (domain.Product, error)
	ApplyDeltas(ctx context.Context, ds []domain.StockDelta) error
}

// OrderRepository is the append-only order history.
type OrderRepository interface {
	Append(ctx context.Context, o domain.Order) (int64, error)
	Search(ctx context.Context, term string) ([]domain.Order, error)
	All(ctx context.Context) ([]domain.Order, error)
}

// BarcodeSource yields candidate barcodes. Uniqueness against the
// inventory is the caller's job.
type BarcodeSource interface {
	NewCode() string
}

type OrderEventsProducer interface {
	ProduceOrder(ctx context.Context, o domain.Order) error
}
