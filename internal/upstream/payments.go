package upstream

import (
	"context"
	"net/http"

	"github.com/shopstack/storefront-gateway/internal/session"
)

// CreatePaymentIntent stages a charge for a created order.
func (c *Client) CreatePaymentIntent(ctx context.Context, sess session.Session, req PaymentIntentRequest) (PaymentIntent, error) {
	var intent PaymentIntent
	err := c.do(ctx, sess, requestSpec{
		method: http.MethodPost,
		path:   "/payments/intents",
		body:   req,
	}, &intent)
	if err != nil {
		return PaymentIntent{}, err
	}
	return intent, nil
}

// ConfirmPayment finalizes a staged intent with a payment-method token.
func (c *Client) ConfirmPayment(ctx context.Context, sess session.Session, req ConfirmPaymentRequest) (ConfirmPaymentResult, error) {
	var result ConfirmPaymentResult
	err := c.do(ctx, sess, requestSpec{
		method: http.MethodPost,
		path:   "/payments/confirm",
		body:   req,
	}, &result)
	if err != nil {
		return ConfirmPaymentResult{}, err
	}
	return result, nil
}
