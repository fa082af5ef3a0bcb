package web

import (
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog records every API call into api_logs: who did what, when, and how
// it ended. The insert happens after the response is written so a slow audit
// write never delays the client; a failed insert is logged and swallowed
// because the audit trail must not take the store down with it.
func AuditLog(pool *pgxpool.Pool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			var userID *int
			if claims := authFromContext(r.Context()); claims != nil {
				userID = &claims.UserID
			}

			_, err := pool.Exec(r.Context(), `
				INSERT INTO api_logs (method, path, status, user_id, duration_ms, ip, timestamp)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, r.Method, r.URL.Path, rec.status, userID,
				time.Since(start).Milliseconds(), r.RemoteAddr, time.Now().UTC())
			if err != nil {
				log.Printf("api_logs insert failed: %v", err)
			}
		})
	}
}
