package web

import (
	"net/http"

	"refillpos/internal/app"

	"github.com/shopspring/decimal"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string          `json:"name"`
		UnitPrice decimal.Decimal `json:"unit_price"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	if req.UnitPrice.IsNegative() {
		writeError(w, r, "unit_price cannot be negative", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), app.ProductRequest{
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		UserID:    actingUserID(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Name      *string          `json:"name"`
		UnitPrice *decimal.Decimal `json:"unit_price"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		writeError(w, r, "unit_price cannot be negative", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), id, app.ProductPatch{
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		UserID:    actingUserID(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getPriceHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	history, err := h.svc.GetPriceHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, history)
}
