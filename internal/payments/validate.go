package payments

import (
	"strings"

	"go.uber.org/multierr"

	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
)

// Details carries the method-specific fields the checkout form collects. Only
// the fields for the selected method are inspected.
type Details struct {
	CardHolder  string `json:"card_holder,omitempty"`
	CardNumber  string `json:"card_number,omitempty"`
	CardExpiry  string `json:"card_expiry,omitempty"`
	CardCVC     string `json:"card_cvc,omitempty"`
	PayPalEmail string `json:"paypal_email,omitempty"`
	PaymentType string `json:"payment_type,omitempty"`
}

// ValidateDetails checks that the selected method has its required fields.
// All missing fields are reported together rather than failing one at a time.
func ValidateDetails(method enums.PaymentMethod, details Details) error {
	var errs error

	require := func(value, message string) {
		if strings.TrimSpace(value) == "" {
			errs = multierr.Append(errs, pkgerrors.New(pkgerrors.CodeValidation, message))
		}
	}

	switch method {
	case enums.PaymentMethodCard:
		require(details.CardHolder, "card holder name is required")
		require(details.CardNumber, "card number is required")
		require(details.CardExpiry, "card expiry is required")
		require(details.CardCVC, "card CVC is required")
	case enums.PaymentMethodPayPal:
		require(details.PayPalEmail, "PayPal email is required")
	case enums.PaymentMethodManual:
		require(details.PaymentType, "payment type is required")
		if strings.TrimSpace(details.PaymentType) != "" {
			if _, err := enums.ParseManualPaymentType(details.PaymentType); err != nil {
				errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment type"))
			}
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	if errs != nil {
		messages := make([]string, 0, len(multierr.Errors(errs)))
		for _, e := range multierr.Errors(errs) {
			if typed := pkgerrors.As(e); typed != nil {
				messages = append(messages, typed.Message())
			} else {
				messages = append(messages, e.Error())
			}
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid payment details").
			WithDetails(map[string]any{"errors": messages})
	}
	return nil
}
