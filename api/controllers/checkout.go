package controllers

import (
	"context"
	"net/http"

	"github.com/shopstack/storefront-gateway/api/middleware"
	"github.com/shopstack/storefront-gateway/api/responses"
	"github.com/shopstack/storefront-gateway/api/validators"
	checkoutsvc "github.com/shopstack/storefront-gateway/internal/checkout"
	"github.com/shopstack/storefront-gateway/internal/payments"
	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

type checkoutService interface {
	Checkout(ctx context.Context, sess session.Session, req checkoutsvc.Request) (checkoutsvc.Outcome, error)
}

type checkoutRequest struct {
	Shipping struct {
		FullName   string `json:"full_name" validate:"required"`
		Email      string `json:"email" validate:"required,email"`
		Phone      string `json:"phone" validate:"required"`
		Address    string `json:"address" validate:"required"`
		City       string `json:"city"`
		State      string `json:"state"`
		PostalCode string `json:"postal_code"`
	} `json:"shipping"`
	BillingAddress string `json:"billing_address"`
	Notes          string `json:"notes"`
	Payment        struct {
		Method  string           `json:"method" validate:"required"`
		Details payments.Details `json:"details"`
		Notes   string           `json:"notes"`
	} `json:"payment"`
}

// Checkout runs one checkout attempt against the caller's current cart.
func Checkout(svc checkoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Payment.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		sess := middleware.SessionFromContext(r.Context())
		outcome, err := svc.Checkout(r.Context(), sess, checkoutsvc.Request{
			Shipping: checkoutsvc.ShippingInfo{
				FullName:   validators.SanitizeString(payload.Shipping.FullName, 200),
				Email:      validators.SanitizeString(payload.Shipping.Email, 200),
				Phone:      validators.SanitizeString(payload.Shipping.Phone, 40),
				Address:    validators.SanitizeString(payload.Shipping.Address, 500),
				City:       validators.SanitizeString(payload.Shipping.City, 100),
				State:      validators.SanitizeString(payload.Shipping.State, 100),
				PostalCode: validators.SanitizeString(payload.Shipping.PostalCode, 20),
			},
			BillingAddress: validators.SanitizeString(payload.BillingAddress, 500),
			Notes:          validators.SanitizeString(payload.Notes, 1000),
			Payment: checkoutsvc.PaymentChoice{
				Method:  method,
				Details: payload.Payment.Details,
				Notes:   validators.SanitizeString(payload.Payment.Notes, 500),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, outcome)
	}
}
