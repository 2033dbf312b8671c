package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/niksmo/retail-pos/internal/core/port"
)

var _ port.InventoryRepository = (*InventoryRepository)(nil)

const productColumns = `
	barcode, item_name, quantity, original_price, discounted_price`

// InventoryRepository is the PostgreSQL-backed product aggregate.
// The barcode uniqueness and quantity >= 0 invariants are enforced by
// the schema itself (primary key, CHECK constraint); the conditional
// UPDATE in ApplyDeltas keeps concurrent checkouts from overdrawing.
type InventoryRepository struct {
	sqldb sqldb
}

func NewInventoryRepository(sqldb sqldb) InventoryRepository {
	return InventoryRepository{sqldb}
}

func (r InventoryRepository) FindByBarcode(
	ctx context.Context, barcode int64,
) (domain.Product, error) {
	const op = "InventoryRepository.FindByBarcode"

	query := `SELECT` + productColumns + `
		FROM inventory WHERE barcode = $1;`

	return r.scanProduct(ctx, op, query, barcode)
}

func (r InventoryRepository) FindByName(
	ctx context.Context, itemName string,
) (domain.Product, error) {
	const op = "InventoryRepository.FindByName"

	query := `SELECT` + productColumns + `
		FROM inventory WHERE item_name = $1 LIMIT 1;`

	return r.scanProduct(ctx, op, query, itemName)
}

func (r InventoryRepository) scanProduct(
	ctx context.Context, op, query string, arg any,
) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	var p domain.Product
	err := r.sqldb.QueryRowContext(ctx, query, arg).Scan(
		&p.Barcode, &p.ItemName, &p.Quantity,
		&p.OriginalPrice, &p.DiscountedPrice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf(
				"%s: %w", op, domain.ErrProductNotFound,
			)
		}
		return domain.Product{}, storageErr(op, err)
	}
	return p, nil
}

func (r InventoryRepository) SearchByName(
	ctx context.Context, term string, limit int,
) ([]domain.Product, error) {
	const op = "InventoryRepository.SearchByName"

	query := `SELECT` + productColumns + `
		FROM inventory
		WHERE item_name ILIKE '%' || $1 || '%'
		ORDER BY item_name ASC
		LIMIT $2;`

	return r.queryProducts(ctx, op, query, term, limit)
}

func (r InventoryRepository) List(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "InventoryRepository.List"

	query := `SELECT` + productColumns + `
		FROM inventory ORDER BY item_name ASC;`

	return r.queryProducts(ctx, op, query)
}

func (r InventoryRepository) queryProducts(
	ctx context.Context, op, query string, args ...any,
) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		var p domain.Product
		err := rows.Scan(
			&p.Barcode, &p.ItemName, &p.Quantity,
			&p.OriginalPrice, &p.DiscountedPrice,
		)
		if err != nil {
			return nil, storageErr(op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return ps, nil
}

func (r InventoryRepository) Insert(
	ctx context.Context, p domain.Product,
) error {
	const op = "InventoryRepository.Insert"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO inventory (
			barcode, item_name, quantity, original_price, discounted_price
		)
		VALUES ($1, $2, $3, $4, $5);`

	_, err := r.sqldb.ExecContext(ctx, query,
		p.Barcode, p.ItemName, p.Quantity,
		p.OriginalPrice, p.DiscountedPrice,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicateBarcode)
		}
		return storageErr(op, err)
	}
	return nil
}

func (r InventoryRepository) SetFields(
	ctx context.Context, barcode int64, f domain.ProductFields,
) (domain.Product, error) {
	const op = "InventoryRepository.SetFields"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		UPDATE inventory SET
			item_name = $2,
			quantity = $3,
			original_price = $4,
			discounted_price = $5
		WHERE barcode = $1
		RETURNING` + productColumns + `;`

	var p domain.Product
	err := r.sqldb.QueryRowContext(ctx, query,
		barcode, f.ItemName, f.Quantity, f.OriginalPrice, f.DiscountedPrice,
	).Scan(
		&p.Barcode, &p.ItemName, &p.Quantity,
		&p.OriginalPrice, &p.DiscountedPrice,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf(
				"%s: %w", op, domain.ErrProductNotFound,
			)
		}
		return domain.Product{}, storageErr(op, err)
	}
	return p, nil
}

// ApplyDeltas adjusts the stock of every listed product inside one
// transaction. Each row is guarded by the condition
// "quantity + delta >= 0" evaluated by the database, so two concurrent
// checkouts can never both pass validation and overdraw the same item.
func (r InventoryRepository) ApplyDeltas(
	ctx context.Context, ds []domain.StockDelta,
) (applyErr error) {
	const op = "InventoryRepository.ApplyDeltas"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(op, err)
	}

	defer func() {
		if applyErr == nil {
			if err := tx.Commit(); err != nil {
				applyErr = storageErr(op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		UPDATE inventory
		SET quantity = quantity + $2
		WHERE barcode = $1 AND quantity + $2 >= 0;`

	for _, d := range ds {
		res, err := tx.ExecContext(ctx, query, d.Barcode, d.Delta)
		if err != nil {
			return storageErr(op, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return storageErr(op, err)
		}
		if n == 0 {
			return r.explainRejectedDelta(ctx, tx, op, d)
		}
	}

	return nil
}

// explainRejectedDelta distinguishes a missing product from
// insufficient stock after a guarded update touched no row.
func (r InventoryRepository) explainRejectedDelta(
	ctx context.Context, tx *sql.Tx, op string, d domain.StockDelta,
) error {
	var available float64
	err := tx.QueryRowContext(ctx,
		`SELECT quantity FROM inventory WHERE barcode = $1;`, d.Barcode,
	).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, domain.ProductNotFoundError{
				ItemName: d.ItemName,
			})
		}
		return storageErr(op, err)
	}

	return fmt.Errorf("%s: %w", op, domain.InsufficientStockError{
		ItemName:  d.ItemName,
		Available: available,
		Requested: -d.Delta,
	})
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}
