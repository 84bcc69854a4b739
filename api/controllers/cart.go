package controllers

import (
	"context"
	"net/http"

	"github.com/shopstack/storefront-gateway/api/middleware"
	"github.com/shopstack/storefront-gateway/api/responses"
	cartsvc "github.com/shopstack/storefront-gateway/internal/cart"
	"github.com/shopstack/storefront-gateway/internal/session"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

type cartService interface {
	Snapshot(ctx context.Context, sess session.Session) (cartsvc.Snapshot, error)
}

// CartFetch returns the caller's cart with derived totals.
func CartFetch(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		snapshot, err := svc.Snapshot(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
