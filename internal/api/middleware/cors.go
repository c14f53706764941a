package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/newthinker/chatrelay/internal/metrics"
)

// CORS returns middleware allowing cross-origin calls from any origin.
// Preflight requests are answered directly.
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", APIKeyHeader},
		ExposedHeaders: []string{metrics.RequestIDHeader},
		MaxAge:         600,
	})
}
