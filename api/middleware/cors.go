package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/shopstack/storefront-gateway/pkg/config"
)

// CORS returns middleware applying the configured allowed-origin policy.
// Storefront frontends are browser apps on other origins; a misconfigured
// list here shows up client-side as an opaque network error.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
