package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/retail-pos/pkg/schema"
)

// An orderEventCodec decodes [schema.OrderV1] stream values.
type orderEventCodec struct {
	serde Serde
}

func newOrderEventCodec(s Serde) orderEventCodec {
	return orderEventCodec{s}
}

func (c orderEventCodec) Encode(v any) ([]byte, error) {
	const op = "orderEventCodec.Encode"
	if _, ok := v.(schema.OrderV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c orderEventCodec) Decode(data []byte) (any, error) {
	const op = "orderEventCodec.Decode"
	var s schema.OrderV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A SalesStatsValue is the per-customer group table entry.
type SalesStatsValue struct {
	Orders      int64   `json:"orders"`
	TotalAmount float64 `json:"total_amount"`
}

type SalesStatsCodec struct{}

func (SalesStatsCodec) Encode(v any) ([]byte, error) {
	const op = "SalesStatsCodec.Encode"
	sv, ok := v.(SalesStatsValue)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return json.Marshal(sv)
}

func (SalesStatsCodec) Decode(data []byte) (any, error) {
	const op = "SalesStatsCodec.Decode"
	var sv SalesStatsValue
	if err := json.Unmarshal(data, &sv); err != nil {
		return nil, opErr(err, op)
	}
	return sv, nil
}

// A SalesStatsProcessor folds the orders stream into a per-customer
// table of order count and lifetime amount.
type SalesStatsProcessor struct {
	gp *goka.Processor
}

func NewSalesStatsProcessor(
	seedBrokers []string, stream string, group string, orderSerde Serde,
) (SalesStatsProcessor, error) {
	const op = "NewSalesStatsProcessor"
	p := SalesStatsProcessor{}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(goka.Stream(stream), newOrderEventCodec(orderSerde), p.processFn),
		goka.Persist(SalesStatsCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return SalesStatsProcessor{}, opErr(err, op)
	}

	return SalesStatsProcessor{gp}, nil
}

func (p SalesStatsProcessor) Run(ctx context.Context) {
	const op = "SalesStatsProcessor.Run"
	log := slog.With("op", op)

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p SalesStatsProcessor) Close() {
	const op = "SalesStatsProcessor.Close"
	log := slog.With("op", op)

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

func (SalesStatsProcessor) processFn(ctx goka.Context, msg any) {
	order, ok := msg.(schema.OrderV1)
	if !ok {
		return
	}

	var stats SalesStatsValue
	if v := ctx.Value(); v != nil {
		stats = v.(SalesStatsValue)
	}

	stats.Orders++
	stats.TotalAmount += order.TotalAmount
	ctx.SetValue(stats)
}
