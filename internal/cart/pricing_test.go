package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/config"
)

func testPricer(t *testing.T) *Pricer {
	t.Helper()
	pricer, err := NewPricer(config.CheckoutConfig{
		Currency:     "INR",
		TaxRateBP:    1800,
		ShippingFlat: "50",
	})
	if err != nil {
		t.Fatalf("new pricer: %v", err)
	}
	return pricer
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func TestTotalAppliesTaxAndFlatShipping(t *testing.T) {
	pricer := testPricer(t)

	totals := pricer.Total([]decimal.Decimal{
		mustDecimal(t, "100.00"),
		mustDecimal(t, "250.50"),
	})

	view := totals.View()
	if view.Subtotal != "350.50" {
		t.Fatalf("subtotal = %s, want 350.50", view.Subtotal)
	}
	if view.Tax != "63.09" {
		t.Fatalf("tax = %s, want 63.09", view.Tax)
	}
	if view.Shipping != "50.00" {
		t.Fatalf("shipping = %s, want 50.00", view.Shipping)
	}
	if view.Total != "463.59" {
		t.Fatalf("total = %s, want 463.59", view.Total)
	}
	if view.Currency != "INR" {
		t.Fatalf("currency = %s, want INR", view.Currency)
	}
}

func TestTotalKeepsPrecisionUntilDisplay(t *testing.T) {
	pricer := testPricer(t)

	// 33.33 * 0.18 = 5.9994; a premature per-step rounding would make
	// the total drift from subtotal + tax + shipping.
	totals := pricer.Total([]decimal.Decimal{mustDecimal(t, "33.33")})

	want := totals.Subtotal.Add(totals.Tax).Add(totals.Shipping)
	if !totals.Total.Equal(want) {
		t.Fatalf("total %s != subtotal+tax+shipping %s", totals.Total, want)
	}
	if totals.View().Tax != "6.00" {
		t.Fatalf("displayed tax = %s, want 6.00", totals.View().Tax)
	}
}

func TestTotalEmptyCartIsAllZero(t *testing.T) {
	totals := testPricer(t).Total(nil)

	if !totals.Subtotal.IsZero() || !totals.Tax.IsZero() || !totals.Shipping.IsZero() || !totals.Total.IsZero() {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestNewPricerRejectsBadShipping(t *testing.T) {
	_, err := NewPricer(config.CheckoutConfig{ShippingFlat: "not-a-number"})
	if err == nil {
		t.Fatalf("expected error for malformed shipping fee")
	}
}

type stubCartBackend struct {
	cart upstream.Cart
	err  error
}

func (s *stubCartBackend) FetchCart(context.Context, session.Session) (upstream.Cart, error) {
	return s.cart, s.err
}

func TestSnapshotCountsItemsAndPricesLines(t *testing.T) {
	backend := &stubCartBackend{cart: upstream.Cart{
		ID: "cart-1",
		Items: []upstream.CartItem{
			{ID: "ci-1", Quantity: 2, SubtotalPrice: mustDecimal(t, "100.00")},
			{ID: "ci-2", Quantity: 1, SubtotalPrice: mustDecimal(t, "250.50")},
		},
	}}

	svc, err := NewService(backend, testPricer(t), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	snap, err := svc.Snapshot(context.Background(), session.Session{Token: "tok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.ItemCount != 3 {
		t.Fatalf("item count = %d, want 3", snap.ItemCount)
	}
	if snap.Totals.Total != "463.59" {
		t.Fatalf("total = %s, want 463.59", snap.Totals.Total)
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	if _, err := NewService(nil, testPricer(t), nil); err == nil {
		t.Fatalf("expected error without backend")
	}
	if _, err := NewService(&stubCartBackend{}, nil, nil); err == nil {
		t.Fatalf("expected error without pricer")
	}
}
