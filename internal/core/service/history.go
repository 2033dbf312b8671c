package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/niksmo/retail-pos/internal/core/port"
)

var _ port.OrderHistoryProvider = (*HistoryService)(nil)

// HistoryService reads the append-only order history.
type HistoryService struct {
	orders port.OrderRepository
}

func NewHistoryService(orders port.OrderRepository) HistoryService {
	return HistoryService{orders}
}

// SearchOrders matches the term against customer phone or name,
// case-insensitive substring, newest orders first.
func (s HistoryService) SearchOrders(
	ctx context.Context, term string,
) ([]domain.Order, error) {
	const op = "HistoryService.SearchOrders"

	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%s: %w", op, domain.ValidationError{
			Field: "search", Reason: "must not be empty",
		})
	}

	os, err := s.orders.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return os, nil
}

func (s HistoryService) AllOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "HistoryService.AllOrders"

	os, err := s.orders.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return os, nil
}
