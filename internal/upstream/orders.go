package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/pkg/enums"
)

// CreateOrder submits the order. The idempotency key is best-effort: the
// backend may honor it to deduplicate a retried submission, or ignore it.
func (c *Client) CreateOrder(ctx context.Context, sess session.Session, req CreateOrderRequest, idempotencyKey string) (Order, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers[idempotencyHeader] = idempotencyKey
	}
	var order Order
	err := c.do(ctx, sess, requestSpec{
		method:  http.MethodPost,
		path:    "/orders/",
		body:    req,
		headers: headers,
	}, &order)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// ListMyOrders returns the caller's orders with optional status filters.
func (c *Client) ListMyOrders(ctx context.Context, sess session.Session, params OrderListParams) ([]Order, error) {
	query := url.Values{}
	if params.Skip > 0 {
		query.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Status != "" {
		query.Set("status", params.Status.String())
	}
	if params.PaymentStatus != "" {
		query.Set("payment_status", params.PaymentStatus.String())
	}

	var orders []Order
	err := c.do(ctx, sess, requestSpec{
		method: http.MethodGet,
		path:   "/orders/my-orders",
		query:  query,
	}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, sess session.Session, orderID string) (Order, error) {
	var order Order
	err := c.do(ctx, sess, requestSpec{
		method: http.MethodGet,
		path:   "/orders/" + url.PathEscape(orderID),
	}, &order)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// UpdateOrderStatus moves an order to a new status. The backend expects the
// status as a query parameter, not a body field.
func (c *Client) UpdateOrderStatus(ctx context.Context, sess session.Session, orderID string, next enums.OrderStatus) (Order, error) {
	query := url.Values{}
	query.Set("status", next.String())

	var order Order
	err := c.do(ctx, sess, requestSpec{
		method: http.MethodPut,
		path:   "/orders/" + url.PathEscape(orderID) + "/status",
		query:  query,
	}, &order)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

// CancelOrder performs the customer self-service cancel.
func (c *Client) CancelOrder(ctx context.Context, sess session.Session, orderID string) error {
	return c.do(ctx, sess, requestSpec{
		method: http.MethodDelete,
		path:   "/orders/" + url.PathEscape(orderID),
	}, nil)
}
