package controllers

import (
	"net/http"

	"github.com/shopstack/storefront-gateway/api/responses"
	"github.com/shopstack/storefront-gateway/internal/payments"
)

// PaymentMethods returns the selectable payment options for checkout.
func PaymentMethods() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"methods": payments.Methods()})
	}
}
