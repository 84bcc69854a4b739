package enums

import "fmt"

// ManualPaymentType narrows the deferred payment selection.
type ManualPaymentType string

const (
	ManualPaymentCashOnDelivery ManualPaymentType = "cash_on_delivery"
	ManualPaymentBankTransfer   ManualPaymentType = "bank_transfer"
	ManualPaymentUPI            ManualPaymentType = "upi"
)

var validManualPaymentTypes = []ManualPaymentType{
	ManualPaymentCashOnDelivery,
	ManualPaymentBankTransfer,
	ManualPaymentUPI,
}

// String implements fmt.Stringer.
func (m ManualPaymentType) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ManualPaymentType.
func (m ManualPaymentType) IsValid() bool {
	for _, candidate := range validManualPaymentTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseManualPaymentType converts raw input into a ManualPaymentType.
func ParseManualPaymentType(value string) (ManualPaymentType, error) {
	for _, candidate := range validManualPaymentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid manual payment type %q", value)
}
