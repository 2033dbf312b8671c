package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niksmo/retail-pos/internal/core/domain"
	"github.com/niksmo/retail-pos/internal/core/port"
)

// POST v1/checkout JSON cart (200 OK, 400, 404, 409)

type CheckoutHandler struct {
	processor port.CheckoutProcessor
}

func RegisterCheckout(mux *http.ServeMux, processor port.CheckoutProcessor) {
	h := CheckoutHandler{processor}
	mux.HandleFunc("POST /v1/checkout", h.PostCheckout)
}

func (h CheckoutHandler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.PostCheckout"
	log := slog.With("op", op)

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	cart := make([]domain.CartLine, len(req.Items))
	for i, item := range req.Items {
		cart[i] = domain.CartLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	orderID, err := h.processor.Checkout(r.Context(), port.CheckoutData{
		CustomerPhone: req.CustomerPhone,
		CustomerName:  req.CustomerName,
		Cart:          cart,
		TotalAmount:   req.TotalAmount,
		OrderTime:     req.OrderDate,
	})
	if err != nil {
		log.Warn("checkout rejected", "err", err)
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CheckoutResponse{OrderID: orderID})
}
