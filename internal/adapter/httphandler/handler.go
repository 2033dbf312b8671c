package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/retail-pos/internal/core/domain"
)

const (
	kindValidation        = "ValidationError"
	kindProductNotFound   = "ProductNotFoundError"
	kindInsufficientStock = "InsufficientStockError"
	kindDuplicateBarcode  = "DuplicateBarcodeError"
	kindStorage           = "StorageError"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "err", err)
	}
}

// writeDomainErr maps the core error taxonomy to a machine-readable
// payload and status code.
func writeDomainErr(w http.ResponseWriter, err error) {
	var (
		validationErr domain.ValidationError
		notFoundErr   domain.ProductNotFoundError
		stockErr      domain.InsufficientStockError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			ErrorKind: kindValidation,
			Message:   validationErr.Error(),
			Details:   map[string]string{"field": validationErr.Field},
		})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			ErrorKind: kindProductNotFound,
			Message:   notFoundErr.Error(),
			Details:   map[string]string{"itemName": notFoundErr.ItemName},
		})
	case errors.Is(err, domain.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			ErrorKind: kindProductNotFound,
			Message:   "product not found",
		})
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			ErrorKind: kindInsufficientStock,
			Message:   stockErr.Error(),
			Details: map[string]any{
				"itemName":  stockErr.ItemName,
				"available": stockErr.Available,
				"requested": stockErr.Requested,
			},
		})
	case errors.Is(err, domain.ErrDuplicateBarcode):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			ErrorKind: kindDuplicateBarcode,
			Message:   "product with this barcode already exists",
		})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			ErrorKind: kindStorage,
			Message:   "internal error, safe to retry",
		})
	}
}

func toProductResponse(p domain.Product) Product {
	return Product{
		ItemName:        p.ItemName,
		Quantity:        p.Quantity,
		OriginalPrice:   p.OriginalPrice,
		DiscountedPrice: p.DiscountedPrice,
		Barcode:         p.Barcode,
	}
}

func toProductsResponse(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = toProductResponse(p)
	}
	return out
}

func toOrdersResponse(os []domain.Order) []Order {
	out := make([]Order, len(os))
	for i, o := range os {
		lines := make([]OrderLine, len(o.Products))
		for j, l := range o.Products {
			lines[j] = OrderLine{
				ItemName: l.ItemName,
				Quantity: l.Quantity,
				Price:    l.Price,
			}
		}
		out[i] = Order{
			ID:            o.ID,
			CustomerPhone: o.CustomerPhone,
			CustomerName:  o.CustomerName,
			Products:      lines,
			OrderTime:     o.OrderTime.Format(time.RFC3339),
			TotalAmount:   o.TotalAmount,
		}
	}
	return out
}
