package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shopstack/storefront-gateway/api/middleware"
	"github.com/shopstack/storefront-gateway/api/responses"
	"github.com/shopstack/storefront-gateway/api/validators"
	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
	"github.com/shopstack/storefront-gateway/pkg/pagination"
)

type invoicesService interface {
	List(ctx context.Context, sess session.Session, params upstream.InvoiceListParams) ([]upstream.Invoice, error)
	Create(ctx context.Context, sess session.Session, req upstream.CreateInvoiceRequest) (upstream.Invoice, error)
	UpdateStatus(ctx context.Context, sess session.Session, invoiceID string, next enums.InvoiceStatus) (upstream.Invoice, error)
	PDF(ctx context.Context, sess session.Session, invoiceID string) (upstream.InvoicePDF, error)
}

// InvoicesList returns the dashboard invoice listing.
func InvoicesList(svc invoicesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoices service unavailable"))
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

		params := upstream.InvoiceListParams{Skip: page.Skip, Limit: page.Limit}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			params.Status = enums.InvoiceStatus(raw)
		}

		sess := middleware.SessionFromContext(r.Context())
		invoices, err := svc.List(r.Context(), sess, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"invoices": invoices,
			"skip":     page.Skip,
			"limit":    page.Limit,
		})
	}
}

type createInvoiceRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	DueDays int    `json:"due_days" validate:"omitempty,min=1,max=365"`
}

// InvoiceCreate issues an invoice for an order.
func InvoiceCreate(svc invoicesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoices service unavailable"))
			return
		}

		var payload createInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		invoice, err := svc.Create(r.Context(), sess, upstream.CreateInvoiceRequest{
			OrderID: payload.OrderID,
			DueDays: payload.DueDays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

type invoiceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// InvoiceUpdateStatus moves an invoice through its lifecycle.
func InvoiceUpdateStatus(svc invoicesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoices service unavailable"))
			return
		}

		var payload invoiceStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		invoice, err := svc.UpdateStatus(r.Context(), sess, chi.URLParam(r, "invoiceId"), enums.InvoiceStatus(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

// InvoicePDF streams the rendered invoice document.
func InvoicePDF(svc invoicesService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoices service unavailable"))
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		pdf, err := svc.PDF(r.Context(), sess, chi.URLParam(r, "invoiceId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+pdf.Filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf.Content)
	}
}
