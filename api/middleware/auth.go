package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopstack/storefront-gateway/api/responses"
	"github.com/shopstack/storefront-gateway/internal/session"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

// userCacheTTL bounds how long a cached user record outlives its last use.
// The backend still authenticates every proxied call, so a stale cache entry
// can only mis-render, never mis-authorize.
const userCacheTTL = 30 * time.Minute

// Auth extracts the bearer token, builds the session from the cached user
// record (falling back to the token's own claims) and seeds the request
// context. The token signature is NOT verified here; the backend rejects
// forged tokens on the first proxied call.
func Auth(store session.Store, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			sess, err := session.FromToken(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			if store != nil {
				cached, cacheErr := store.Get(r.Context(), token)
				switch {
				case cacheErr == nil:
					sess.User = cached
				case errors.Is(cacheErr, session.ErrNotCached):
					// First sight of this token; cache the claims-derived
					// user so later requests skip the parse.
					_ = store.Set(r.Context(), token, sess.User, userCacheTTL)
				default:
					if logg != nil {
						logg.Warn(logg.WithField(r.Context(), "error", cacheErr.Error()), "session cache unavailable")
					}
				}
			}

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    sess.User.ID,
					"actor_role": sess.User.Role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
