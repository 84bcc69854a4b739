package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shopstack/storefront-gateway/api/middleware"
	"github.com/shopstack/storefront-gateway/api/responses"
	"github.com/shopstack/storefront-gateway/api/validators"
	ordersvc "github.com/shopstack/storefront-gateway/internal/orders"
	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/internal/status"
	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
	"github.com/shopstack/storefront-gateway/pkg/pagination"
)

type ordersService interface {
	List(ctx context.Context, sess session.Session, params upstream.OrderListParams) ([]ordersvc.View, error)
	Get(ctx context.Context, sess session.Session, orderID string) (ordersvc.View, error)
	Transitions(ctx context.Context, sess session.Session, orderID string) (ordersvc.View, map[enums.OrderStatus]status.Badge, error)
	UpdateStatus(ctx context.Context, sess session.Session, orderID string, next enums.OrderStatus) (ordersvc.View, error)
	Cancel(ctx context.Context, sess session.Session, orderID string) error
}

// OrdersList returns the caller's orders, optionally filtered by status.
func OrdersList(svc ordersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		skip, err := validators.ParseQueryInt(r, "skip", 0, 0, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page := pagination.Normalize(pagination.Params{Skip: skip, Limit: limit})

		params := upstream.OrderListParams{Skip: page.Skip, Limit: page.Limit}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, parseErr := enums.ParseOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "unknown status filter"))
				return
			}
			params.Status = parsed
		}

		sess := middleware.SessionFromContext(r.Context())
		views, err := svc.List(r.Context(), sess, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"orders": views,
			"skip":   page.Skip,
			"limit":  page.Limit,
		})
	}
}

// OrderDetail returns one order decorated for display.
func OrderDetail(svc ordersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		view, err := svc.Get(r.Context(), sess, chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// OrderTransitions lists the moves the caller may make on an order.
func OrderTransitions(svc ordersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		view, badges, err := svc.Transitions(r.Context(), sess, chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"current":     view.Order.Status,
			"badge":       view.Badge,
			"transitions": view.Transitions,
			"badges":      badges,
		})
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderUpdateStatus moves an order to a new status, gated by the caller's role.
func OrderUpdateStatus(svc ordersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		view, err := svc.UpdateStatus(r.Context(), sess, chi.URLParam(r, "orderId"), enums.OrderStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// OrderCancel is the customer-facing cancellation endpoint.
func OrderCancel(svc ordersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		if err := svc.Cancel(r.Context(), sess, chi.URLParam(r, "orderId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cancelled"})
	}
}
