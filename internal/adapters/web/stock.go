package web

import (
	"net/http"
	"strconv"

	"refillpos/internal/app"

	"github.com/shopspring/decimal"
)

func (h *Handler) listSources(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListSources(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) addSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string          `json:"name"`
		Unit     string          `json:"unit"`
		Quantity decimal.Decimal `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, "name is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	if req.Quantity.IsNegative() {
		writeError(w, r, "quantity cannot be negative", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	source, err := h.svc.AddSource(r.Context(), app.SourceRequest{
		Name:     req.Name,
		Unit:     req.Unit,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, source)
}

func (h *Handler) updateSource(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Name     *string          `json:"name"`
		Unit     *string          `json:"unit"`
		Quantity *decimal.Decimal `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity != nil && req.Quantity.IsNegative() {
		writeError(w, r, "quantity cannot be negative", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	source, err := h.svc.UpdateSource(r.Context(), id, app.SourcePatch{
		Name:     req.Name,
		Unit:     req.Unit,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, source)
}

func (h *Handler) deleteSource(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSource(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// adjustSource handles POST /api/sources/{id}/adjust — counter corrections
// and refills, with a required reason for the audit trail.
func (h *Handler) adjustSource(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeAdjust(w, r)
	if !ok {
		return
	}

	result, err := h.svc.AdjustSource(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInventory(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) setInventory(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r, "productID")
	if !ok {
		return
	}
	var req struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity.IsNegative() {
		writeError(w, r, "quantity cannot be negative", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	record, err := h.svc.SetInventory(r.Context(), productID, app.InventoryRequest{Quantity: req.Quantity})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, record)
}

func (h *Handler) deleteInventory(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r, "productID")
	if !ok {
		return
	}
	if err := h.svc.DeleteInventory(r.Context(), productID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adjustInventory(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r, "productID")
	if !ok {
		return
	}
	req, ok := decodeAdjust(w, r)
	if !ok {
		return
	}

	result, err := h.svc.AdjustInventory(r.Context(), productID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) listProductSources(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListProductSources(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) setProductSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int             `json:"product_id"`
		SourceID  int             `json:"source_id"`
		Factor    decimal.Decimal `json:"factor"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 || req.SourceID <= 0 {
		writeError(w, r, "product_id and source_id are required", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	if !req.Factor.IsPositive() {
		writeError(w, r, "factor must be > 0", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	mapping, err := h.svc.SetProductSource(r.Context(), app.MappingRequest{
		ProductID: req.ProductID,
		SourceID:  req.SourceID,
		Factor:    req.Factor,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, mapping)
}

func (h *Handler) deleteProductSource(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r, "productID")
	if !ok {
		return
	}
	if err := h.svc.DeleteProductSource(r.Context(), productID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listMovements handles GET /api/movements?limit=N&kind=source|inventory&ref_id=N.
func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, "invalid limit", "VALIDATION_ERROR", http.StatusBadRequest)
			return
		}
		limit = n
	}

	kind := q.Get("kind")
	if kind != "" && kind != "source" && kind != "inventory" {
		writeError(w, r, "kind must be source or inventory", "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}

	var refID *int
	if raw := q.Get("ref_id"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, "invalid ref_id", "VALIDATION_ERROR", http.StatusBadRequest)
			return
		}
		refID = &n
	}

	result, err := h.svc.ListMovements(r.Context(), limit, kind, refID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// decodeAdjust decodes the shared adjustment payload for sources and inventory.
func decodeAdjust(w http.ResponseWriter, r *http.Request) (app.AdjustRequest, bool) {
	var req struct {
		Delta  decimal.Decimal `json:"delta"`
		Reason string          `json:"reason"`
	}
	if !decodeJSON(w, r, &req) {
		return app.AdjustRequest{}, false
	}
	if req.Delta.IsZero() {
		writeError(w, r, "delta must be non-zero", "VALIDATION_ERROR", http.StatusBadRequest)
		return app.AdjustRequest{}, false
	}
	if req.Reason == "" {
		writeError(w, r, "reason is required", "VALIDATION_ERROR", http.StatusBadRequest)
		return app.AdjustRequest{}, false
	}
	return app.AdjustRequest{
		Delta:  req.Delta,
		Reason: req.Reason,
		UserID: actingUserID(r),
	}, true
}
