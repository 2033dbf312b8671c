package kafka

import (
	"context"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/niksmo/retail-pos/internal/core/port"
)

var _ port.CustomerStatsProvider = (*SalesStatsView)(nil)

// A SalesStatsView reads the sales-stats group table built by
// [SalesStatsProcessor].
type SalesStatsView struct {
	gv *goka.View
}

func NewSalesStatsView(
	seedBrokers []string, group string,
) (SalesStatsView, error) {
	const op = "NewSalesStatsView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		SalesStatsCodec{},
	)
	if err != nil {
		return SalesStatsView{}, opErr(err, op)
	}

	return SalesStatsView{gv}, nil
}

func (v SalesStatsView) Run(ctx context.Context) {
	const op = "SalesStatsView.Run"
	log := slog.With("op", op)

	if err := v.gv.Run(ctx); err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// CustomerStats returns the aggregated purchase history for the phone.
// An unknown customer yields zero stats, not an error.
func (v SalesStatsView) CustomerStats(
	_ context.Context, phone string,
) (domain.CustomerStats, error) {
	const op = "SalesStatsView.CustomerStats"

	stats := domain.CustomerStats{CustomerPhone: phone}

	raw, err := v.gv.Get(phone)
	if err != nil {
		return domain.CustomerStats{}, opErr(err, op)
	}
	if raw == nil {
		return stats, nil
	}

	sv, ok := raw.(SalesStatsValue)
	if !ok {
		return domain.CustomerStats{}, opErr(ErrInvalidValueType, op)
	}

	stats.Orders = sv.Orders
	stats.TotalAmount = sv.TotalAmount
	return stats, nil
}
