package checkout

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shopstack/storefront-gateway/internal/cart"
	"github.com/shopstack/storefront-gateway/internal/notify"
	"github.com/shopstack/storefront-gateway/internal/payments"
	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/config"
	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
)

type stubBackend struct {
	cart       upstream.Cart
	cartErr    error
	order      upstream.Order
	orderErr   error
	intent     upstream.PaymentIntent
	intentErr  error
	confirm    upstream.ConfirmPaymentResult
	confirmErr error

	orderCalls   int
	intentCalls  int
	confirmCalls int

	lastOrderReq  upstream.CreateOrderRequest
	lastOrderKey  string
	lastIntentReq upstream.PaymentIntentRequest
	lastConfirm   upstream.ConfirmPaymentRequest
}

func (s *stubBackend) FetchCart(context.Context, session.Session) (upstream.Cart, error) {
	return s.cart, s.cartErr
}

func (s *stubBackend) CreateOrder(_ context.Context, _ session.Session, req upstream.CreateOrderRequest, key string) (upstream.Order, error) {
	s.orderCalls++
	s.lastOrderReq = req
	s.lastOrderKey = key
	return s.order, s.orderErr
}

func (s *stubBackend) CreatePaymentIntent(_ context.Context, _ session.Session, req upstream.PaymentIntentRequest) (upstream.PaymentIntent, error) {
	s.intentCalls++
	s.lastIntentReq = req
	return s.intent, s.intentErr
}

func (s *stubBackend) ConfirmPayment(_ context.Context, _ session.Session, req upstream.ConfirmPaymentRequest) (upstream.ConfirmPaymentResult, error) {
	s.confirmCalls++
	s.lastConfirm = req
	return s.confirm, s.confirmErr
}

type recordingPublisher struct {
	events []notify.OrderPlaced
}

func (r *recordingPublisher) Publish(_ context.Context, event notify.OrderPlaced) {
	r.events = append(r.events, event)
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func testCart(t *testing.T) upstream.Cart {
	t.Helper()
	return upstream.Cart{
		ID: "cart-1",
		Items: []upstream.CartItem{
			{ID: "ci-1", ProductID: "p-1", Quantity: 2, SubtotalPrice: mustDecimal(t, "100.00")},
			{ID: "ci-2", ProductID: "p-2", Quantity: 1, SubtotalPrice: mustDecimal(t, "250.50")},
		},
	}
}

func testSession() session.Session {
	return session.Session{
		Token: "tok",
		User: session.User{
			ID:       "u-1",
			Email:    "buyer@example.com",
			FullName: "Asha Buyer",
			Role:     "normal_user",
		},
	}
}

func cardRequest() Request {
	return Request{
		Shipping: ShippingInfo{
			FullName: "Asha Buyer",
			Email:    "buyer@example.com",
			Phone:    "+91 98765 43210",
			Address:  "12 MG Road",
			City:     "Pune",
		},
		Payment: PaymentChoice{
			Method: enums.PaymentMethodCard,
			Details: payments.Details{
				CardHolder: "Asha Buyer",
				CardNumber: "4242424242424242",
				CardExpiry: "12/27",
				CardCVC:    "123",
			},
		},
	}
}

func newTestService(t *testing.T, backend *stubBackend) (*Service, *recordingPublisher) {
	t.Helper()
	pricer, err := cart.NewPricer(config.CheckoutConfig{Currency: "INR", TaxRateBP: 1800, ShippingFlat: "50"})
	if err != nil {
		t.Fatalf("new pricer: %v", err)
	}
	pub := &recordingPublisher{}
	svc, err := NewService(backend, pricer, payments.StaticTokenSource("simulated_pm_test"), pub, nil, config.CheckoutConfig{Currency: "INR"})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, pub
}

func TestPlaceOrderEmptyCartFailsBeforeAnyCall(t *testing.T) {
	backend := &stubBackend{}
	svc, pub := newTestService(t, backend)

	_, err := svc.PlaceOrder(context.Background(), testSession(), upstream.Cart{}, cardRequest())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if backend.orderCalls != 0 || backend.intentCalls != 0 || backend.confirmCalls != 0 {
		t.Fatalf("expected no backend calls, got %+v", backend)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no events, got %d", len(pub.events))
	}
}

func TestPlaceOrderRejectsIncompleteShipping(t *testing.T) {
	backend := &stubBackend{}
	svc, _ := newTestService(t, backend)

	req := cardRequest()
	req.Shipping.Email = ""
	req.Shipping.Phone = ""

	_, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := typed.Details().(map[string]any)
	fields, _ := details["fields"].([]string)
	if len(fields) != 2 {
		t.Fatalf("expected both missing fields reported, got %v", fields)
	}
	if backend.orderCalls != 0 {
		t.Fatalf("expected no order call for invalid shipping")
	}
}

func TestPlaceOrderRejectsIncompletePaymentDetails(t *testing.T) {
	backend := &stubBackend{}
	svc, _ := newTestService(t, backend)

	req := cardRequest()
	req.Payment.Details = payments.Details{}

	_, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), req)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if backend.orderCalls != 0 {
		t.Fatalf("expected no order call for invalid payment details")
	}
}

func TestPlaceOrderCreationFailureIsFatal(t *testing.T) {
	backend := &stubBackend{
		orderErr: pkgerrors.New(pkgerrors.CodeUpstream, "backend returned 500"),
	}
	svc, pub := newTestService(t, backend)

	outcome, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), cardRequest())
	if err == nil {
		t.Fatalf("expected error")
	}
	if outcome.OrderCreated {
		t.Fatalf("order must not be marked created")
	}
	if backend.intentCalls != 0 || backend.confirmCalls != 0 {
		t.Fatalf("payment steps must not run after a fatal order failure")
	}
	if len(pub.events) != 0 {
		t.Fatalf("no event should be published when nothing was created")
	}
}

func TestPlaceOrderSendsOnlyProductIDAndQuantity(t *testing.T) {
	backend := &stubBackend{
		order: upstream.Order{ID: "o-1", OrderNumber: "ORD-1", TotalAmount: mustDecimal(t, "463.59")},
	}
	svc, _ := newTestService(t, backend)

	_, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), cardRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(backend.lastOrderReq.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(backend.lastOrderReq.Items))
	}
	for _, item := range backend.lastOrderReq.Items {
		if item.ProductID == "" || item.Quantity == 0 {
			t.Fatalf("item missing fields: %+v", item)
		}
	}
	if backend.lastOrderReq.ShippingAddress != "12 MG Road, Pune" {
		t.Fatalf("unexpected shipping address %q", backend.lastOrderReq.ShippingAddress)
	}
	if backend.lastOrderReq.BillingAddress != backend.lastOrderReq.ShippingAddress {
		t.Fatalf("billing should default to shipping")
	}
	if !strings.HasPrefix(backend.lastOrderKey, "chk-") {
		t.Fatalf("unexpected idempotency key %q", backend.lastOrderKey)
	}
}

func TestPlaceOrderManualMethodSkipsPaymentSteps(t *testing.T) {
	backend := &stubBackend{
		order: upstream.Order{ID: "o-1", OrderNumber: "ORD-1"},
	}
	svc, pub := newTestService(t, backend)

	req := cardRequest()
	req.Payment = PaymentChoice{
		Method:  enums.PaymentMethodManual,
		Details: payments.Details{PaymentType: "cash_on_delivery"},
	}

	outcome, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.OrderCreated || outcome.IntentCreated || outcome.PaymentConfirmed {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if backend.intentCalls != 0 || backend.confirmCalls != 0 {
		t.Fatalf("manual method must not touch payment endpoints")
	}
	if outcome.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected pending payment status, got %s", outcome.PaymentStatus)
	}
	if len(pub.events) != 1 || pub.events[0].OrderID != "o-1" {
		t.Fatalf("expected one order placed event, got %+v", pub.events)
	}
}

func TestPlaceOrderIntentFailureIsDegradedSuccess(t *testing.T) {
	backend := &stubBackend{
		order:     upstream.Order{ID: "o-1", OrderNumber: "ORD-1", TotalAmount: mustDecimal(t, "463.59")},
		intentErr: pkgerrors.New(pkgerrors.CodeUpstream, "provider unavailable"),
	}
	svc, pub := newTestService(t, backend)

	outcome, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), cardRequest())
	if err != nil {
		t.Fatalf("intent failure must not fail the attempt: %v", err)
	}
	if !outcome.OrderCreated || outcome.IntentCreated || outcome.PaymentConfirmed {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if backend.confirmCalls != 0 {
		t.Fatalf("confirmation must not run without an intent")
	}
	if !strings.Contains(outcome.Message, "payment was not attempted") {
		t.Fatalf("message should flag the skipped payment, got %q", outcome.Message)
	}
	if len(pub.events) != 1 {
		t.Fatalf("order placed event still expected, got %d", len(pub.events))
	}
}

func TestPlaceOrderConfirmFailureIsDegradedSuccess(t *testing.T) {
	backend := &stubBackend{
		order:      upstream.Order{ID: "o-1", OrderNumber: "ORD-1", TotalAmount: mustDecimal(t, "463.59")},
		intent:     upstream.PaymentIntent{PaymentIntentID: "pi-1", Status: enums.PaymentStatusPending},
		confirmErr: pkgerrors.New(pkgerrors.CodeTransport, "backend unreachable"),
	}
	svc, pub := newTestService(t, backend)

	outcome, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), cardRequest())
	if err != nil {
		t.Fatalf("confirm failure must not fail the attempt: %v", err)
	}
	if !outcome.OrderCreated || !outcome.IntentCreated || outcome.PaymentConfirmed {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.PaymentIntentID != "pi-1" {
		t.Fatalf("intent id not carried, got %q", outcome.PaymentIntentID)
	}
	if !strings.Contains(outcome.Message, "pending confirmation") {
		t.Fatalf("message should flag pending payment, got %q", outcome.Message)
	}
	if len(pub.events) != 1 {
		t.Fatalf("order placed event still expected, got %d", len(pub.events))
	}
}

func TestPlaceOrderFullSuccess(t *testing.T) {
	backend := &stubBackend{
		order:   upstream.Order{ID: "o-1", OrderNumber: "ORD-1", TotalAmount: mustDecimal(t, "463.59")},
		intent:  upstream.PaymentIntent{PaymentIntentID: "pi-1", Status: enums.PaymentStatusPending},
		confirm: upstream.ConfirmPaymentResult{Status: enums.PaymentStatusCompleted},
	}
	svc, pub := newTestService(t, backend)

	outcome, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), cardRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.OrderCreated || !outcome.IntentCreated || !outcome.PaymentConfirmed {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.PaymentStatus != enums.PaymentStatusCompleted {
		t.Fatalf("expected completed, got %s", outcome.PaymentStatus)
	}

	if backend.lastIntentReq.OrderID != "o-1" {
		t.Fatalf("intent must reference the new order, got %q", backend.lastIntentReq.OrderID)
	}
	if !backend.lastIntentReq.Amount.Equal(mustDecimal(t, "463.59")) {
		t.Fatalf("intent amount should be the backend order total, got %s", backend.lastIntentReq.Amount)
	}
	if backend.lastIntentReq.Method != "credit_card" || backend.lastIntentReq.Provider != enums.PaymentProviderStripe {
		t.Fatalf("unexpected method/provider %q/%q", backend.lastIntentReq.Method, backend.lastIntentReq.Provider)
	}
	if backend.lastConfirm.PaymentMethodToken != "simulated_pm_test" {
		t.Fatalf("expected synthesized token, got %q", backend.lastConfirm.PaymentMethodToken)
	}
	if len(pub.events) != 1 || pub.events[0].TotalAmount != "463.59" {
		t.Fatalf("unexpected events %+v", pub.events)
	}
}

func TestPlaceOrderConfirmPendingStatusIsNotConfirmed(t *testing.T) {
	backend := &stubBackend{
		order:   upstream.Order{ID: "o-1", TotalAmount: mustDecimal(t, "100.00")},
		intent:  upstream.PaymentIntent{PaymentIntentID: "pi-1", Status: enums.PaymentStatusPending},
		confirm: upstream.ConfirmPaymentResult{Status: enums.PaymentStatusPending},
	}
	svc, _ := newTestService(t, backend)

	outcome, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), cardRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.PaymentConfirmed {
		t.Fatalf("pending confirm status must not report confirmed")
	}
}

func TestPlaceOrderFallsBackToLocalTotalWhenBackendOmitsIt(t *testing.T) {
	backend := &stubBackend{
		order:  upstream.Order{ID: "o-1"},
		intent: upstream.PaymentIntent{PaymentIntentID: "pi-1"},
	}
	svc, _ := newTestService(t, backend)

	_, err := svc.PlaceOrder(context.Background(), testSession(), testCart(t), cardRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !backend.lastIntentReq.Amount.Equal(mustDecimal(t, "463.59")) {
		t.Fatalf("expected locally computed total 463.59, got %s", backend.lastIntentReq.Amount)
	}
}

func TestCheckoutFetchesCartFirst(t *testing.T) {
	backend := &stubBackend{
		cartErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "token expired"),
	}
	svc, _ := newTestService(t, backend)

	_, err := svc.Checkout(context.Background(), testSession(), cardRequest())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized from cart fetch, got %v", err)
	}
	if backend.orderCalls != 0 {
		t.Fatalf("order must not be created when the cart fetch fails")
	}
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	pricer, _ := cart.NewPricer(config.CheckoutConfig{ShippingFlat: "50"})
	pub := &recordingPublisher{}

	if _, err := NewService(nil, pricer, payments.StaticTokenSource("t"), pub, nil, config.CheckoutConfig{}); err == nil {
		t.Fatalf("expected error without backend")
	}
	if _, err := NewService(&stubBackend{}, nil, payments.StaticTokenSource("t"), pub, nil, config.CheckoutConfig{}); err == nil {
		t.Fatalf("expected error without pricer")
	}
	if _, err := NewService(&stubBackend{}, pricer, nil, pub, nil, config.CheckoutConfig{}); err == nil {
		t.Fatalf("expected error without token source")
	}
	if _, err := NewService(&stubBackend{}, pricer, payments.StaticTokenSource("t"), nil, nil, config.CheckoutConfig{}); err == nil {
		t.Fatalf("expected error without publisher")
	}
}
