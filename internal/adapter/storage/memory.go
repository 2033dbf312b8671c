package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/niksmo/retail-pos/internal/core/port"
)

var _ port.InventoryRepository = (*MemoryInventory)(nil)

// MemoryInventory is the in-memory product aggregate. A single RWMutex
// makes every mutation, including the ApplyDeltas batch, atomic with
// respect to concurrent readers and writers.
type MemoryInventory struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{products: make(map[int64]domain.Product)}
}

func (m *MemoryInventory) FindByBarcode(
	_ context.Context, barcode int64,
) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[barcode]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *MemoryInventory) FindByName(
	_ context.Context, itemName string,
) (domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.ItemName == itemName {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

func (m *MemoryInventory) SearchByName(
	_ context.Context, term string, limit int,
) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lower := strings.ToLower(term)
	var out []domain.Product
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.ItemName), lower) {
			out = append(out, p)
		}
	}
	sortProducts(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryInventory) List(_ context.Context) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sortProducts(out)
	return out, nil
}

func (m *MemoryInventory) Insert(_ context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[p.Barcode]; ok {
		return domain.ErrDuplicateBarcode
	}
	m.products[p.Barcode] = p
	return nil
}

func (m *MemoryInventory) SetFields(
	_ context.Context, barcode int64, f domain.ProductFields,
) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[barcode]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	p.ItemName = f.ItemName
	p.Quantity = f.Quantity
	p.OriginalPrice = f.OriginalPrice
	p.DiscountedPrice = f.DiscountedPrice
	m.products[barcode] = p
	return p, nil
}

// ApplyDeltas holds the write lock for the whole batch: all deltas are
// checked first, then applied, so concurrent batches serialize and a
// rejected batch leaves every quantity untouched.
func (m *MemoryInventory) ApplyDeltas(
	_ context.Context, ds []domain.StockDelta,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[int64]float64, len(ds))
	for _, d := range ds {
		p, ok := m.products[d.Barcode]
		if !ok {
			return domain.ProductNotFoundError{ItemName: d.ItemName}
		}
		q, staged := next[d.Barcode]
		if !staged {
			q = p.Quantity
		}
		q += d.Delta
		if q < 0 {
			return domain.InsufficientStockError{
				ItemName:  d.ItemName,
				Available: p.Quantity,
				Requested: -d.Delta,
			}
		}
		next[d.Barcode] = q
	}

	for barcode, q := range next {
		p := m.products[barcode]
		p.Quantity = q
		m.products[barcode] = p
	}
	return nil
}

func sortProducts(ps []domain.Product) {
	sort.Slice(ps, func(i, j int) bool {
		return ps[i].ItemName < ps[j].ItemName
	})
}

var _ port.OrderRepository = (*MemoryOrders)(nil)

// MemoryOrders is the in-memory append-only order history.
type MemoryOrders struct {
	mu     sync.RWMutex
	nextID int64
	orders []domain.Order
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{nextID: 1}
}

func (m *MemoryOrders) Append(
	_ context.Context, o domain.Order,
) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o.ID = m.nextID
	m.nextID++
	o.Products = append([]domain.OrderLine(nil), o.Products...)
	m.orders = append(m.orders, o)
	return o.ID, nil
}

func (m *MemoryOrders) Search(
	_ context.Context, term string,
) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lower := strings.ToLower(term)
	var out []domain.Order
	for _, o := range m.orders {
		if strings.Contains(strings.ToLower(o.CustomerName), lower) ||
			strings.Contains(o.CustomerPhone, term) {
			out = append(out, o)
		}
	}
	sortOrdersDesc(out)
	return out, nil
}

func (m *MemoryOrders) All(_ context.Context) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := append([]domain.Order(nil), m.orders...)
	sortOrdersDesc(out)
	return out, nil
}

func sortOrdersDesc(os []domain.Order) {
	sort.SliceStable(os, func(i, j int) bool {
		return os[i].OrderTime.After(os[j].OrderTime)
	})
}

// Len reports the number of stored orders, handy for asserting that a
// failed checkout recorded nothing.
func (m *MemoryOrders) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}
