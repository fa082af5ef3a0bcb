package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"refillpos/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes. The pool is
// used only by the audit middleware; all business access goes through svc.
func NewHandler(svc app.ApplicationService, pool *pgxpool.Pool, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health (public) ───────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Auth (public) ─────────────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/guest", h.guestLogin)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected API (401 JSON if unauthenticated) ──────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(AuditLog(pool))
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// Catalog
		r.Get("/api/products", h.listProducts)
		r.Get("/api/products/{id}", h.getProduct)
		r.Get("/api/products/{id}/price-history", h.getPriceHistory)

		// Orders
		r.Post("/api/orders", h.recordOrder)
		r.Get("/api/orders", h.listOrders)
		r.Get("/api/orders/{id}", h.getOrder)

		// Stock (read + counter adjustments)
		r.Get("/api/sources", h.listSources)
		r.Post("/api/sources/{id}/adjust", h.adjustSource)
		r.Get("/api/inventory", h.listInventory)
		r.Post("/api/inventory/{productID}/adjust", h.adjustInventory)
		r.Get("/api/product-sources", h.listProductSources)
		r.Get("/api/movements", h.listMovements)

		// Reports
		r.Get("/api/reports/daily-summary", h.dailySummary)

		// ── Admin-only management ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)

			r.Post("/api/products", h.createProduct)
			r.Patch("/api/products/{id}", h.updateProduct)
			r.Delete("/api/products/{id}", h.deleteProduct)

			r.Post("/api/sources", h.addSource)
			r.Patch("/api/sources/{id}", h.updateSource)
			r.Delete("/api/sources/{id}", h.deleteSource)

			r.Put("/api/inventory/{productID}", h.setInventory)
			r.Delete("/api/inventory/{productID}", h.deleteInventory)

			r.Put("/api/product-sources", h.setProductSource)
			r.Delete("/api/product-sources/{productID}", h.deleteProductSource)

			r.Get("/api/export", h.exportArchive)
			r.Get("/api/debug/db", h.debugSnapshot)
			r.Get("/api/debug/logs", h.debugLogs)
		})
	})

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, "invalid JSON body", "VALIDATION_ERROR", http.StatusBadRequest)
		return false
	}
	return true
}

// urlID parses a numeric URL parameter, writing a 400 on failure.
func urlID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid "+name, "VALIDATION_ERROR", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// actingUserID returns the authenticated user's id for audit fields, or nil.
func actingUserID(r *http.Request) *int {
	if claims := authFromContext(r.Context()); claims != nil {
		return &claims.UserID
	}
	return nil
}
