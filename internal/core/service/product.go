package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/niksmo/retail-pos/internal/core/port"
	"github.com/niksmo/retail-pos/pkg/retry"
)

var _ port.ProductUpserter = (*ProductService)(nil)
var _ port.ProductProvider = (*ProductService)(nil)
var _ port.BarcodeIssuer = (*ProductService)(nil)

const (
	searchMinTermLen = 2
	searchLimit      = 6
	issueMaxAttempts = 5
)

var errBarcodeCollision = errors.New("generated barcode already in use")

// ProductService maintains the inventory: barcode-keyed upserts,
// lookups and fresh barcode issuing.
type ProductService struct {
	inventory port.InventoryRepository
	barcodes  port.BarcodeSource
}

func NewProductService(
	inventory port.InventoryRepository, barcodes port.BarcodeSource,
) ProductService {
	return ProductService{inventory, barcodes}
}

// UpsertProduct inserts a new product or fully overwrites the one
// sharing the given barcode. Quantity is replaced, never accumulated.
// Validation happens before any write.
func (s ProductService) UpsertProduct(
	ctx context.Context, v port.UpsertProductData,
) (domain.Product, bool, error) {
	const op = "ProductService.UpsertProduct"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Product{}, false, fmt.Errorf("%s: %w", op, err)
	}

	barcode, err := s.validateUpsert(v)
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("%s: %w", op, err)
	}

	fields := domain.ProductFields{
		ItemName:        v.ItemName,
		Quantity:        v.Quantity,
		OriginalPrice:   v.OriginalPrice,
		DiscountedPrice: v.DiscountedPrice,
	}

	_, err = s.inventory.FindByBarcode(ctx, barcode)
	switch {
	case err == nil:
		p, err := s.inventory.SetFields(ctx, barcode, fields)
		if err != nil {
			// the product vanished between lookup and overwrite:
			// upsert semantics apply regardless, fall back to insert
			if errors.Is(err, domain.ErrProductNotFound) {
				return s.insert(ctx, op, barcode, fields)
			}
			return domain.Product{}, false, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("product updated", "barcode", barcode)
		return p, false, nil
	case errors.Is(err, domain.ErrProductNotFound):
		return s.insert(ctx, op, barcode, fields)
	default:
		return domain.Product{}, false, fmt.Errorf("%s: %w", op, err)
	}
}

func (s ProductService) insert(
	ctx context.Context, op string, barcode int64, f domain.ProductFields,
) (domain.Product, bool, error) {
	p := domain.Product{
		ItemName:        f.ItemName,
		Quantity:        f.Quantity,
		OriginalPrice:   f.OriginalPrice,
		DiscountedPrice: f.DiscountedPrice,
		Barcode:         barcode,
	}
	if err := s.inventory.Insert(ctx, p); err != nil {
		return domain.Product{}, false, fmt.Errorf("%s: %w", op, err)
	}
	slog.Info("product inserted", "op", op, "barcode", barcode)
	return p, true, nil
}

func (s ProductService) validateUpsert(
	v port.UpsertProductData,
) (int64, error) {
	if strings.TrimSpace(v.ItemName) == "" {
		return 0, domain.ValidationError{
			Field: "itemName", Reason: "must not be empty",
		}
	}
	if v.Quantity < 0 {
		return 0, domain.ValidationError{
			Field: "quantity", Reason: "must not be negative",
		}
	}
	if v.OriginalPrice < 0 {
		return 0, domain.ValidationError{
			Field: "originalPrice", Reason: "must not be negative",
		}
	}
	if v.DiscountedPrice < 0 {
		return 0, domain.ValidationError{
			Field: "discountedPrice", Reason: "must not be negative",
		}
	}
	return parseBarcode(v.Barcode)
}

// LookupBarcode resolves a scanned barcode to the product snapshot.
func (s ProductService) LookupBarcode(
	ctx context.Context, barcode string,
) (domain.Product, error) {
	const op = "ProductService.LookupBarcode"

	code, err := parseBarcode(barcode)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.inventory.FindByBarcode(ctx, code)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// SearchProducts finds up to 6 products whose name contains the term,
// case-insensitive. Terms shorter than 2 characters are rejected.
func (s ProductService) SearchProducts(
	ctx context.Context, term string,
) ([]domain.Product, error) {
	const op = "ProductService.SearchProducts"

	if len(strings.TrimSpace(term)) < searchMinTermLen {
		return nil, fmt.Errorf("%s: %w", op, domain.ValidationError{
			Field: "name", Reason: "must be at least 2 characters long",
		})
	}

	ps, err := s.inventory.SearchByName(ctx, term, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s ProductService) ListInventory(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "ProductService.ListInventory"

	ps, err := s.inventory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// IssueBarcode generates an EAN-13 code not yet present in the
// inventory. Generation retries on collision, bounded attempts.
func (s ProductService) IssueBarcode(ctx context.Context) (string, error) {
	const op = "ProductService.IssueBarcode"
	log := slog.With("op", op)

	retryCfg := retry.RetryConfig{
		MaxAttempts: issueMaxAttempts,
		ShouldRetry: func(err error) bool {
			return errors.Is(err, errBarcodeCollision)
		},
	}

	code, err := retry.DoWithResult(ctx, retryCfg, func() (string, error) {
		code := s.barcodes.NewCode()
		numeric, err := parseBarcode(code)
		if err != nil {
			return "", err
		}

		_, err = s.inventory.FindByBarcode(ctx, numeric)
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			return code, nil
		case err == nil:
			log.Warn("barcode collision, regenerating", "barcode", code)
			return "", errBarcodeCollision
		default:
			return "", err
		}
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return code, nil
}

func parseBarcode(s string) (int64, error) {
	code, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || code <= 0 {
		return 0, domain.ValidationError{
			Field: "barcode", Reason: "must be a positive number",
		}
	}
	return code, nil
}
