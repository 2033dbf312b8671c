package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/niksmo/retail-pos/internal/core/port"
)

// POST v1/products JSON upsert (201 Created, 200 OK, 400 Bad request)
// GET  v1/products (200 OK)
// GET  v1/products/search?name= (200 OK, 400 Bad request)
// POST v1/barcode/scan JSON {"barcode" string} (200 OK, 404 Not found)
// POST v1/barcode/generate (200 OK)

type ProductsHandler struct {
	upserter port.ProductUpserter
	provider port.ProductProvider
	issuer   port.BarcodeIssuer
}

func RegisterProducts(
	mux *http.ServeMux,
	upserter port.ProductUpserter,
	provider port.ProductProvider,
	issuer port.BarcodeIssuer,
) {
	h := ProductsHandler{upserter, provider, issuer}
	mux.HandleFunc("POST /v1/products", h.PostProduct)
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/search", h.SearchProducts)
	mux.HandleFunc("POST /v1/barcode/scan", h.ScanBarcode)
	mux.HandleFunc("POST /v1/barcode/generate", h.GenerateBarcode)
}

func (h ProductsHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.PostProduct"
	log := slog.With("op", op)

	var req UpsertProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, created, err := h.upserter.UpsertProduct(r.Context(), port.UpsertProductData{
		ItemName:        req.ItemName,
		Quantity:        req.Quantity,
		OriginalPrice:   req.OriginalPrice,
		DiscountedPrice: req.DiscountedPrice,
		Barcode:         req.Barcode,
	})
	if err != nil {
		log.Warn("failed to upsert product", "err", err)
		writeDomainErr(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, toProductResponse(p))
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"
	log := slog.With("op", op)

	ps, err := h.provider.ListInventory(r.Context())
	if err != nil {
		log.Error("failed to list inventory", "err", err)
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductsResponse(ps))
}

func (h ProductsHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.SearchProducts"
	log := slog.With("op", op)

	term := r.URL.Query().Get("name")
	ps, err := h.provider.SearchProducts(r.Context(), term)
	if err != nil {
		log.Warn("failed to search products", "term", term, "err", err)
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductsResponse(ps))
}

func (h ProductsHandler) ScanBarcode(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ScanBarcode"
	log := slog.With("op", op)

	var req BarcodeLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.provider.LookupBarcode(r.Context(), req.Barcode)
	if err != nil {
		log.Warn("barcode lookup missed", "barcode", req.Barcode, "err", err)
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h ProductsHandler) GenerateBarcode(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GenerateBarcode"
	log := slog.With("op", op)

	code, err := h.issuer.IssueBarcode(r.Context())
	if err != nil {
		log.Error("failed to issue barcode", "err", err)
		writeDomainErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BarcodeResponse{Barcode: code})
}
