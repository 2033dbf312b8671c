package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/retail-pos/internal/core/port"
)

// GET v1/orders (200 OK)
// GET v1/orders/search?q= (200 OK, 400 Bad request)
// GET v1/customers/stats?phone= (200 OK)

type OrdersHandler struct {
	history port.OrderHistoryProvider
	stats   port.CustomerStatsProvider
}

func RegisterOrders(
	mux *http.ServeMux,
	history port.OrderHistoryProvider,
	stats port.CustomerStatsProvider,
) {
	h := OrdersHandler{history, stats}
	mux.HandleFunc("GET /v1/orders", h.GetOrders)
	mux.HandleFunc("GET /v1/orders/search", h.SearchOrders)
	mux.HandleFunc("GET /v1/customers/stats", h.GetCustomerStats)
}

func (h OrdersHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrders"
	log := slog.With("op", op)

	os, err := h.history.AllOrders(r.Context())
	if err != nil {
		log.Error("failed to load order history", "err", err)
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrdersResponse(os))
}

func (h OrdersHandler) SearchOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.SearchOrders"
	log := slog.With("op", op)

	term := r.URL.Query().Get("q")
	os, err := h.history.SearchOrders(r.Context(), term)
	if err != nil {
		log.Warn("failed to search orders", "term", term, "err", err)
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrdersResponse(os))
}

func (h OrdersHandler) GetCustomerStats(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetCustomerStats"
	log := slog.With("op", op)

	if h.stats == nil {
		http.Error(w, "stats view is disabled", http.StatusServiceUnavailable)
		return
	}

	phone := r.URL.Query().Get("phone")
	stats, err := h.stats.CustomerStats(r.Context(), phone)
	if err != nil {
		log.Error("failed to read customer stats", "phone", phone, "err", err)
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CustomerStats{
		CustomerPhone: stats.CustomerPhone,
		Orders:        stats.Orders,
		TotalAmount:   stats.TotalAmount,
	})
}
