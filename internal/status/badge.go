package status

import "github.com/shopstack/storefront-gateway/pkg/enums"

// Badge is the display metadata the frontend renders for a status chip.
type Badge struct {
	Text   string `json:"text"`
	Tone   string `json:"tone"`
	Symbol string `json:"symbol"`
}

var badgesByStatus = map[enums.OrderStatus]Badge{
	enums.OrderStatusPending:    {Text: "Pending", Tone: "orange", Symbol: "🕐"},
	enums.OrderStatusConfirmed:  {Text: "Confirmed", Tone: "blue", Symbol: "✓"},
	enums.OrderStatusProcessing: {Text: "Processing", Tone: "purple", Symbol: "⚙️"},
	enums.OrderStatusShipped:    {Text: "Shipped", Tone: "teal", Symbol: "🚚"},
	enums.OrderStatusDelivered:  {Text: "Delivered", Tone: "green", Symbol: "✅"},
	enums.OrderStatusCancelled:  {Text: "Cancelled", Tone: "red", Symbol: "❌"},
	enums.OrderStatusRefunded:   {Text: "Refunded", Tone: "gray", Symbol: "💰"},
}

// Describe returns display metadata for any status value, recognized or not.
// Unrecognized statuses echo the raw string under a neutral badge so the UI
// never breaks on backend additions.
func Describe(status enums.OrderStatus) Badge {
	if badge, ok := badgesByStatus[status]; ok {
		return badge
	}
	return Badge{Text: string(status), Tone: "gray", Symbol: "❓"}
}
