package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopstack/storefront-gateway/api/middleware"
	checkoutsvc "github.com/shopstack/storefront-gateway/internal/checkout"
	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
)

type stubCheckout struct {
	outcome  checkoutsvc.Outcome
	err      error
	lastReq  checkoutsvc.Request
	lastSess session.Session
	calls    int
}

func (s *stubCheckout) Checkout(_ context.Context, sess session.Session, req checkoutsvc.Request) (checkoutsvc.Outcome, error) {
	s.calls++
	s.lastSess = sess
	s.lastReq = req
	return s.outcome, s.err
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	ctx := middleware.WithSession(req.Context(), session.Session{
		Token: "tok",
		User:  session.User{ID: "u-1", Role: "normal_user"},
	})
	return req.WithContext(ctx)
}

const checkoutBody = `{
	"shipping": {
		"full_name": "Asha Buyer",
		"email": "buyer@example.com",
		"phone": "+91 98765 43210",
		"address": "12 MG Road",
		"city": "Pune"
	},
	"payment": {
		"method": "card",
		"details": {
			"card_holder": "Asha Buyer",
			"card_number": "4242424242424242",
			"card_expiry": "12/27",
			"card_cvc": "123"
		}
	}
}`

func TestCheckoutReturns201WithOutcome(t *testing.T) {
	svc := &stubCheckout{outcome: checkoutsvc.Outcome{
		OrderCreated:     true,
		IntentCreated:    true,
		PaymentConfirmed: true,
		Message:          "Order placed and payment confirmed.",
	}}
	handler := Checkout(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/checkout", checkoutBody))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data checkoutsvc.Outcome `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Data.OrderCreated || !envelope.Data.PaymentConfirmed {
		t.Fatalf("unexpected outcome %+v", envelope.Data)
	}
	if svc.lastReq.Payment.Method != enums.PaymentMethodCard {
		t.Fatalf("method not mapped, got %s", svc.lastReq.Payment.Method)
	}
	if svc.lastSess.User.ID != "u-1" {
		t.Fatalf("session not threaded, got %+v", svc.lastSess)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	svc := &stubCheckout{}
	handler := Checkout(svc, nil)

	body := `{"shipping":{"full_name":"A","email":"a@b.com","phone":"1","address":"x"},"payment":{"method":"crypto"}}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/checkout", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not run for unknown method")
	}
}

func TestCheckoutRejectsMalformedBody(t *testing.T) {
	handler := Checkout(&stubCheckout{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/checkout", `{not json`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckoutMapsServiceErrors(t *testing.T) {
	svc := &stubCheckout{err: pkgerrors.New(pkgerrors.CodeUpstream, "backend returned 500")}
	handler := Checkout(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/checkout", checkoutBody))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
