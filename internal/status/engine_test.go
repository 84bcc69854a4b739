package status

import (
	"testing"

	"github.com/shopstack/storefront-gateway/pkg/enums"
)

var allRoles = []enums.Role{
	enums.RoleAdmin,
	enums.RoleSeller,
	enums.RoleCustomer,
	enums.Role("auditor"),
	enums.Role(""),
}

func TestAllowedTransitionsIsTotal(t *testing.T) {
	statuses := append(enums.OrderStatuses(), enums.OrderStatus("mystery"))
	for _, status := range statuses {
		for _, role := range allRoles {
			next := AllowedTransitions(status, role)
			if next == nil {
				t.Fatalf("(%s,%s) returned nil, want defined set", status, role)
			}
			for _, candidate := range next {
				if candidate == status {
					t.Fatalf("(%s,%s) offered a self-transition", status, role)
				}
				if !candidate.IsValid() {
					t.Fatalf("(%s,%s) offered unknown status %q", status, role, candidate)
				}
				if candidate == enums.OrderStatusPending {
					t.Fatalf("(%s,%s) offered a move back to pending", status, role)
				}
			}
		}
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	for _, status := range []enums.OrderStatus{enums.OrderStatusCancelled, enums.OrderStatusRefunded} {
		for _, role := range allRoles {
			if got := AllowedTransitions(status, role); len(got) != 0 {
				t.Fatalf("terminal status %s offered %v to %s", status, got, role)
			}
		}
	}
}

func TestAdminTransitions(t *testing.T) {
	got := AllowedTransitions(enums.OrderStatusPending, enums.RoleAdmin)
	want := []enums.OrderStatus{enums.OrderStatusConfirmed, enums.OrderStatusCancelled}
	assertStatuses(t, got, want)

	got = AllowedTransitions(enums.OrderStatusDelivered, enums.RoleAdmin)
	assertStatuses(t, got, []enums.OrderStatus{enums.OrderStatusRefunded})
}

func TestSellerCannotRefund(t *testing.T) {
	if got := AllowedTransitions(enums.OrderStatusDelivered, enums.RoleSeller); len(got) != 0 {
		t.Fatalf("seller must not reach refunded, got %v", got)
	}
	got := AllowedTransitions(enums.OrderStatusProcessing, enums.RoleSeller)
	assertStatuses(t, got, []enums.OrderStatus{enums.OrderStatusShipped, enums.OrderStatusCancelled})
}

func TestCustomerOnlyCancelsEarly(t *testing.T) {
	for _, current := range []enums.OrderStatus{enums.OrderStatusPending, enums.OrderStatusConfirmed} {
		got := AllowedTransitions(current, enums.RoleCustomer)
		assertStatuses(t, got, []enums.OrderStatus{enums.OrderStatusCancelled})
	}
	for _, current := range []enums.OrderStatus{
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
	} {
		if got := AllowedTransitions(current, enums.RoleCustomer); len(got) != 0 {
			t.Fatalf("customer must not transition from %s, got %v", current, got)
		}
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	for _, status := range enums.OrderStatuses() {
		if got := AllowedTransitions(status, enums.Role("supervisor")); len(got) != 0 {
			t.Fatalf("unknown role got transitions %v from %s", got, status)
		}
	}
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(enums.OrderStatusPending, enums.OrderStatusConfirmed, enums.RoleAdmin) {
		t.Fatalf("admin should confirm a pending order")
	}
	if CanTransition(enums.OrderStatusShipped, enums.OrderStatusCancelled, enums.RoleAdmin) {
		t.Fatalf("shipped orders cannot be cancelled")
	}
	if CanTransition(enums.OrderStatusDelivered, enums.OrderStatusRefunded, enums.RoleSeller) {
		t.Fatalf("seller refunds are disallowed")
	}
}

func TestDescribeCoversEveryStatus(t *testing.T) {
	for _, status := range enums.OrderStatuses() {
		badge := Describe(status)
		if badge.Text == "" {
			t.Fatalf("status %s produced empty display text", status)
		}
		if badge.Symbol == "" {
			t.Fatalf("status %s produced empty symbol", status)
		}
	}
}

func TestDescribeUnknownStatusEchoesRaw(t *testing.T) {
	badge := Describe(enums.OrderStatus("on_hold"))
	if badge.Text != "on_hold" {
		t.Fatalf("expected raw echo, got %q", badge.Text)
	}
	if badge.Tone != "gray" || badge.Symbol != "❓" {
		t.Fatalf("expected neutral badge, got %+v", badge)
	}
}

func assertStatuses(t *testing.T, got, want []enums.OrderStatus) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
