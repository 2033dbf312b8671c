package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/niksmo/retail-pos/internal/core/port"
)

var _ port.CheckoutProcessor = (*CheckoutService)(nil)

// CheckoutService converts a cart into stock decrements plus a permanent
// order record. The whole cart is one unit of work: every line must
// resolve and every decrement must fit, or nothing changes at all.
type CheckoutService struct {
	inventory port.InventoryRepository
	orders    port.OrderRepository
	events    port.OrderEventsProducer
	now       func() time.Time
}

func NewCheckoutService(
	inventory port.InventoryRepository,
	orders port.OrderRepository,
	events port.OrderEventsProducer,
) CheckoutService {
	return CheckoutService{inventory, orders, events, time.Now}
}

// Checkout runs the sale:
//
//  1. validate the request shape, nothing touched on failure;
//  2. resolve every cart line by exact item name to its barcode;
//  3. decrement all quantities in one atomic batch, guarded by
//     "only if enough stock" inside the storage transaction;
//  4. append the immutable order record (decrement-then-record,
//     a sale is never recorded unless the stock was reserved);
//  5. publish the order event, best effort.
func (s CheckoutService) Checkout(
	ctx context.Context, v port.CheckoutData,
) (int64, error) {
	const op = "CheckoutService.Checkout"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := validateCheckout(v); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	deltas, err := s.resolveCart(ctx, v.Cart)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.inventory.ApplyDeltas(ctx, deltas); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	order := s.makeOrder(v)
	orderID, err := s.orders.Append(ctx, order)
	if err != nil {
		// stock is already durably decremented; surface the fault,
		// the caller retries against the order history, not the sale
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	order.ID = orderID

	log.Info("checkout completed",
		"orderID", orderID,
		"lines", len(v.Cart),
		"total", v.TotalAmount,
	)

	s.publishOrder(ctx, order)

	return orderID, nil
}

// resolveCart maps item names to barcodes. Matching by name is the
// inherited contract of the checkout path; the decrement itself is
// keyed by barcode.
func (s CheckoutService) resolveCart(
	ctx context.Context, cart []domain.CartLine,
) ([]domain.StockDelta, error) {
	deltas := make([]domain.StockDelta, 0, len(cart))
	for _, line := range cart {
		p, err := s.inventory.FindByName(ctx, line.ProductName)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return nil, domain.ProductNotFoundError{
					ItemName: line.ProductName,
				}
			}
			return nil, err
		}
		deltas = append(deltas, domain.StockDelta{
			Barcode:  p.Barcode,
			ItemName: p.ItemName,
			Delta:    -line.Quantity,
		})
	}
	return deltas, nil
}

func (s CheckoutService) makeOrder(v port.CheckoutData) domain.Order {
	lines := make([]domain.OrderLine, len(v.Cart))
	for i, c := range v.Cart {
		lines[i] = domain.OrderLine{
			ItemName: c.ProductName,
			Quantity: c.Quantity,
			Price:    c.UnitPrice,
		}
	}

	orderTime := s.now().UTC()
	if v.OrderTime != 0 {
		orderTime = time.Unix(v.OrderTime, 0).UTC()
	}

	return domain.Order{
		CustomerPhone: v.CustomerPhone,
		CustomerName:  v.CustomerName,
		Products:      lines,
		OrderTime:     orderTime,
		TotalAmount:   v.TotalAmount,
	}
}

// publishOrder feeds the analytics stream. The sale is already durable,
// a broker fault must not fail the checkout.
func (s CheckoutService) publishOrder(ctx context.Context, o domain.Order) {
	const op = "CheckoutService.publishOrder"

	if s.events == nil {
		return
	}
	if err := s.events.ProduceOrder(ctx, o); err != nil {
		slog.Error("failed to produce order event",
			"op", op, "orderID", o.ID, "err", err)
	}
}

func validateCheckout(v port.CheckoutData) error {
	if strings.TrimSpace(v.CustomerPhone) == "" {
		return domain.ValidationError{
			Field: "customerPhone", Reason: "must not be empty",
		}
	}
	if len(v.Cart) == 0 {
		return domain.ValidationError{
			Field: "items", Reason: "cart must not be empty",
		}
	}
	for _, line := range v.Cart {
		if strings.TrimSpace(line.ProductName) == "" {
			return domain.ValidationError{
				Field: "productName", Reason: "must not be empty",
			}
		}
		if line.Quantity <= 0 {
			return domain.ValidationError{
				Field:  "quantity",
				Reason: fmt.Sprintf("must be positive for %q", line.ProductName),
			}
		}
		if line.UnitPrice < 0 {
			return domain.ValidationError{
				Field:  "unitPrice",
				Reason: fmt.Sprintf("must not be negative for %q", line.ProductName),
			}
		}
	}
	if v.TotalAmount < 0 {
		return domain.ValidationError{
			Field: "totalAmount", Reason: "must not be negative",
		}
	}
	return nil
}
