package domain

import "time"

// A CartLine is one desired purchase position of a checkout request.
// Products are matched by exact ItemName on this path.
type CartLine struct {
	ProductName string
	Quantity    float64
	UnitPrice   float64
}

// An OrderLine is an immutable snapshot of a sold position. Name,
// quantity and price are copied at sale time, never referenced live.
type OrderLine struct {
	ItemName string
	Quantity float64
	Price    float64
}

// An Order is the permanent record of one completed checkout.
// TotalAmount is caller-supplied and not recomputed.
type Order struct {
	ID            int64
	CustomerPhone string
	CustomerName  string
	Products      []OrderLine
	OrderTime     time.Time
	TotalAmount   float64
}

// CustomerStats aggregates the purchase history of one customer,
// maintained by the sales-stats stream processor.
type CustomerStats struct {
	CustomerPhone string
	Orders        int64
	TotalAmount   float64
}
