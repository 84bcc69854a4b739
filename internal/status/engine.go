package status

import (
	"github.com/shopstack/storefront-gateway/pkg/enums"
)

// baseTransitions is the role-independent lifecycle:
// pending -> confirmed -> processing -> shipped -> delivered -> refunded,
// with cancellation possible until shipment. Cancelled and refunded are
// terminal. Delivered only moves to refunded (post-delivery returns).
var baseTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:  {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered},
	enums.OrderStatusDelivered:  {enums.OrderStatusRefunded},
	enums.OrderStatusCancelled:  {},
	enums.OrderStatusRefunded:   {},
}

// AllowedTransitions returns the ordered set of statuses the given role may
// move an order to from the current status. It is total: every (status, role)
// pair yields a defined, possibly empty, result. Unknown roles get nothing.
func AllowedTransitions(current enums.OrderStatus, role enums.Role) []enums.OrderStatus {
	base := baseTransitions[current]

	switch role {
	case enums.RoleAdmin:
		return copyStatuses(base)
	case enums.RoleSeller:
		// Sellers cannot unilaterally refund.
		filtered := make([]enums.OrderStatus, 0, len(base))
		for _, next := range base {
			if next == enums.OrderStatusRefunded {
				continue
			}
			filtered = append(filtered, next)
		}
		return filtered
	case enums.RoleCustomer:
		// Customers only self-service cancellation, and only before the
		// order enters fulfilment.
		if current == enums.OrderStatusPending || current == enums.OrderStatusConfirmed {
			return []enums.OrderStatus{enums.OrderStatusCancelled}
		}
		return []enums.OrderStatus{}
	default:
		return []enums.OrderStatus{}
	}
}

// CanTransition reports whether the role may move an order from current to next.
func CanTransition(current, next enums.OrderStatus, role enums.Role) bool {
	for _, allowed := range AllowedTransitions(current, role) {
		if allowed == next {
			return true
		}
	}
	return false
}

func copyStatuses(in []enums.OrderStatus) []enums.OrderStatus {
	out := make([]enums.OrderStatus, len(in))
	copy(out, in)
	return out
}
