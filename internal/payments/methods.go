package payments

import (
	"github.com/shopstack/storefront-gateway/pkg/enums"
)

// Method describes a selectable payment option shown at checkout.
type Method struct {
	ID          enums.PaymentMethod `json:"id"`
	Name        string              `json:"name"`
	Icon        string              `json:"icon"`
	Description string              `json:"description"`
	Enabled     bool                `json:"enabled"`
}

var catalog = []Method{
	{
		ID:          enums.PaymentMethodCard,
		Name:        "Credit/Debit Card",
		Icon:        "💳",
		Description: "Pay securely with your card",
		Enabled:     true,
	},
	{
		ID:          enums.PaymentMethodPayPal,
		Name:        "PayPal",
		Icon:        "🅿️",
		Description: "Pay with your PayPal account",
		Enabled:     true,
	},
	{
		ID:          enums.PaymentMethodManual,
		Name:        "Manual Payment",
		Icon:        "💵",
		Description: "Cash on Delivery or Bank Transfer",
		Enabled:     true,
	},
}

// Methods returns the checkout payment options. The slice is a copy; callers
// may mutate it freely.
func Methods() []Method {
	out := make([]Method, len(catalog))
	copy(out, catalog)
	return out
}

// Badge is the display treatment for a payment status.
type Badge struct {
	Text   string `json:"text"`
	Tone   string `json:"tone"`
	Symbol string `json:"symbol"`
}

var badgesByStatus = map[enums.PaymentStatus]Badge{
	enums.PaymentStatusPending:    {Text: "Pending", Tone: "orange", Symbol: "🕐"},
	enums.PaymentStatusProcessing: {Text: "Processing", Tone: "blue", Symbol: "⚙️"},
	enums.PaymentStatusCompleted:  {Text: "Completed", Tone: "green", Symbol: "✅"},
	enums.PaymentStatusFailed:     {Text: "Failed", Tone: "red", Symbol: "❌"},
	enums.PaymentStatusRefunded:   {Text: "Refunded", Tone: "gray", Symbol: "💰"},
	enums.PaymentStatusCancelled:  {Text: "Cancelled", Tone: "red", Symbol: "🚫"},
}

// DescribeStatus returns the badge for a payment status. Unknown statuses are
// echoed verbatim with a neutral treatment so new backend states still render.
func DescribeStatus(status enums.PaymentStatus) Badge {
	if badge, ok := badgesByStatus[status]; ok {
		return badge
	}
	return Badge{Text: string(status), Tone: "gray", Symbol: "❓"}
}
