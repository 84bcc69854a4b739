package controllers

import (
	"context"
	"net/http"

	"github.com/shopstack/storefront-gateway/api/responses"
	"github.com/shopstack/storefront-gateway/pkg/config"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

// Pinger is any dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type subscriberCounter interface {
	SubscriberCount() int
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopStack-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the backend connection and the session
// cache. A degraded cache does not fail readiness; the gateway can serve
// without it.
func HealthReady(cfg *config.Config, logg *logger.Logger, backend Pinger, cache Pinger, events subscriberCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ShopStack-Env", cfg.App.Env)

		checks := map[string]string{"backend": "ok", "cache": "ok"}
		healthy := true

		if backend != nil {
			if err := backend.Ping(r.Context()); err != nil {
				checks["backend"] = err.Error()
				healthy = false
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				checks["cache"] = err.Error()
				if logg != nil {
					logg.Warn(r.Context(), "session cache unreachable")
				}
			}
		}

		subscribers := 0
		if events != nil {
			subscribers = events.SubscriberCount()
		}

		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status":      "degraded",
				"checks":      checks,
				"subscribers": subscribers,
			})
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"status":      "ready",
			"checks":      checks,
			"subscribers": subscribers,
		})
	}
}
