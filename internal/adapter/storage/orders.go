package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/niksmo/retail-pos/internal/core/port"
)

var _ port.OrderRepository = (*OrderRepository)(nil)

// OrderRepository is the append-only order history. Orders and their
// line snapshots are written in one transaction and never updated.
type OrderRepository struct {
	sqldb sqldb
}

func NewOrderRepository(sqldb sqldb) OrderRepository {
	return OrderRepository{sqldb}
}

func (r OrderRepository) Append(
	ctx context.Context, o domain.Order,
) (orderID int64, appendErr error) {
	const op = "OrderRepository.Append"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr(op, err)
	}

	defer func() {
		if appendErr == nil {
			if err := tx.Commit(); err != nil {
				appendErr = storageErr(op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	orderQuery := `
		INSERT INTO orders (
			customer_phone, customer_name, order_time, total_amount
		)
		VALUES ($1, $2, $3, $4)
		RETURNING id;`

	err = tx.QueryRowContext(ctx, orderQuery,
		o.CustomerPhone, o.CustomerName, o.OrderTime, o.TotalAmount,
	).Scan(&orderID)
	if err != nil {
		return 0, storageErr(op, err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, pos, item_name, quantity, price)
		VALUES ($1, $2, $3, $4, $5);`

	stmt, err := tx.PrepareContext(ctx, itemQuery)
	if err != nil {
		return 0, storageErr(op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for i, line := range o.Products {
		_, err := stmt.ExecContext(ctx,
			orderID, i, line.ItemName, line.Quantity, line.Price,
		)
		if err != nil {
			return 0, storageErr(op, err)
		}
	}

	return orderID, nil
}

func (r OrderRepository) Search(
	ctx context.Context, term string,
) ([]domain.Order, error) {
	const op = "OrderRepository.Search"

	query := `
		SELECT id, customer_phone, customer_name, order_time, total_amount
		FROM orders
		WHERE customer_name ILIKE '%' || $1 || '%'
			OR customer_phone LIKE '%' || $1 || '%'
		ORDER BY order_time DESC;`

	return r.queryOrders(ctx, op, query, term)
}

func (r OrderRepository) All(ctx context.Context) ([]domain.Order, error) {
	const op = "OrderRepository.All"

	query := `
		SELECT id, customer_phone, customer_name, order_time, total_amount
		FROM orders
		ORDER BY order_time DESC;`

	return r.queryOrders(ctx, op, query)
}

func (r OrderRepository) queryOrders(
	ctx context.Context, op, query string, args ...any,
) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var (
		os  []domain.Order
		ids []int64
	)
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(
			&o.ID, &o.CustomerPhone, &o.CustomerName,
			&o.OrderTime, &o.TotalAmount,
		)
		if err != nil {
			return nil, storageErr(op, err)
		}
		os = append(os, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}

	if len(os) == 0 {
		return os, nil
	}

	if err := r.attachItems(ctx, op, os, ids); err != nil {
		return nil, err
	}
	return os, nil
}

func (r OrderRepository) attachItems(
	ctx context.Context, op string, os []domain.Order, ids []int64,
) error {
	query := `
		SELECT order_id, item_name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, pos;`

	rows, err := r.sqldb.QueryContext(ctx, query, ids)
	if err != nil {
		return storageErr(op, err)
	}
	defer rows.Close()

	byID := make(map[int64]*domain.Order, len(os))
	for i := range os {
		byID[os[i].ID] = &os[i]
	}

	for rows.Next() {
		var (
			orderID int64
			line    domain.OrderLine
		)
		err := rows.Scan(&orderID, &line.ItemName, &line.Quantity, &line.Price)
		if err != nil {
			return storageErr(op, err)
		}
		if o, ok := byID[orderID]; ok {
			o.Products = append(o.Products, line)
		}
	}
	return rows.Err()
}
