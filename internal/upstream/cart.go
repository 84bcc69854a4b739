package upstream

import (
	"context"
	"net/http"

	"github.com/shopstack/storefront-gateway/internal/session"
)

// FetchCart reads the current user's cart snapshot.
func (c *Client) FetchCart(ctx context.Context, sess session.Session) (Cart, error) {
	var cart Cart
	err := c.do(ctx, sess, requestSpec{
		method: http.MethodGet,
		path:   "/carts/me",
	}, &cart)
	if err != nil {
		return Cart{}, err
	}
	return cart, nil
}
