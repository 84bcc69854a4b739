package enums

import "fmt"

// PaymentMethod is the checkout form's payment selection.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodManual PaymentMethod = "manual"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodPayPal,
	PaymentMethodManual,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsDeferred reports whether the method settles outside the payment flow
// (cash on delivery, bank transfer). No payment intent is created for it.
func (p PaymentMethod) IsDeferred() bool {
	return p == PaymentMethodManual
}

// BackendMethod maps the form selection onto the backend's payment method enum.
func (p PaymentMethod) BackendMethod() string {
	switch p {
	case PaymentMethodCard:
		return "credit_card"
	case PaymentMethodPayPal:
		return "paypal"
	default:
		return string(p)
	}
}

// Provider maps the form selection onto the backend's payment provider enum.
func (p PaymentMethod) Provider() PaymentProvider {
	switch p {
	case PaymentMethodCard:
		return PaymentProviderStripe
	case PaymentMethodPayPal:
		return PaymentProviderPayPal
	default:
		return PaymentProviderManual
	}
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
