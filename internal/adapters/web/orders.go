package web

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"refillpos/internal/app"
	"refillpos/internal/core"

	"github.com/shopspring/decimal"
)

// recordOrder handles POST /api/orders — the point-of-sale endpoint.
func (h *Handler) recordOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID       int             `json:"product_id"`
		Quantity        decimal.Decimal `json:"quantity"`
		PaymentMethod   string          `json:"payment_method"`
		OrderDate       string          `json:"order_date"`
		ClientTimestamp string          `json:"client_timestamp"`
		UseContainer    bool            `json:"use_container"`
		ContainerCount  *int            `json:"container_count"`
		ContainerPrice  decimal.Decimal `json:"container_price"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.svc.RecordOrder(r.Context(), app.RecordOrderRequest{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		PaymentMethod:   req.PaymentMethod,
		OrderDate:       req.OrderDate,
		ClientTimestamp: req.ClientTimestamp,
		CreatedBy:       actingUserID(r),
		UseContainer:    req.UseContainer,
		ContainerCount:  req.ContainerCount,
		ContainerPrice:  req.ContainerPrice,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, order)
}

// listOrders handles GET /api/orders?date=YYYY-MM-DD&user_id=N.
// Non-admin callers only ever see their own orders, whatever they ask for.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var userID *int
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			writeError(w, r, "invalid user_id", "VALIDATION_ERROR", http.StatusBadRequest)
			return
		}
		userID = &id
	}
	if claims := authFromContext(r.Context()); claims != nil && claims.Role != core.RoleAdmin {
		userID = &claims.UserID
	}

	result, err := h.svc.ListOrders(r.Context(), r.URL.Query().Get("date"), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

// dailySummary handles GET /api/reports/daily-summary?date=YYYY-MM-DD.
func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.DailySummary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// exportArchive handles GET /api/export — streams a ZIP of CSV table dumps.
func (h *Handler) exportArchive(w http.ResponseWriter, r *http.Request) {
	archive, err := h.svc.ExportArchive(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("refillpos-export-%s.zip", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	_, _ = w.Write(archive)
}

// debugSnapshot handles GET /api/debug/db — a JSON dump of all tables.
func (h *Handler) debugSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.DatabaseSnapshot(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, snapshot)
}

// debugLogs handles GET /api/debug/logs?limit=N — recent API audit rows.
func (h *Handler) debugLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, "invalid limit", "VALIDATION_ERROR", http.StatusBadRequest)
			return
		}
		limit = n
	}

	logs, err := h.svc.RecentAPILogs(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"logs": logs})
}
