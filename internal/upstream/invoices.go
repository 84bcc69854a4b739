package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/pkg/enums"
)

// ListInvoices returns the seller's invoices.
func (c *Client) ListInvoices(ctx context.Context, sess session.Session, params InvoiceListParams) ([]Invoice, error) {
	query := url.Values{}
	if params.Status != "" {
		query.Set("status", params.Status.String())
	}
	if params.Skip > 0 {
		query.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	var invoices []Invoice
	err := c.do(ctx, sess, requestSpec{
		method: http.MethodGet,
		path:   "/dashboard/invoices",
		query:  query,
	}, &invoices)
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// CreateInvoice issues an invoice for an order.
func (c *Client) CreateInvoice(ctx context.Context, sess session.Session, req CreateInvoiceRequest) (Invoice, error) {
	var invoice Invoice
	err := c.do(ctx, sess, requestSpec{
		method: http.MethodPost,
		path:   "/dashboard/invoices",
		body:   req,
	}, &invoice)
	if err != nil {
		return Invoice{}, err
	}
	return invoice, nil
}

// UpdateInvoiceStatus moves an invoice to a new status (query-parameter API,
// same shape as the order status endpoint).
func (c *Client) UpdateInvoiceStatus(ctx context.Context, sess session.Session, invoiceID string, next enums.InvoiceStatus) (Invoice, error) {
	query := url.Values{}
	query.Set("status", next.String())

	var invoice Invoice
	err := c.do(ctx, sess, requestSpec{
		method: http.MethodPut,
		path:   "/dashboard/invoices/" + url.PathEscape(invoiceID) + "/status",
		query:  query,
	}, &invoice)
	if err != nil {
		return Invoice{}, err
	}
	return invoice, nil
}

// FetchInvoicePDF downloads the rendered invoice document.
func (c *Client) FetchInvoicePDF(ctx context.Context, sess session.Session, invoiceID string) (InvoicePDF, error) {
	fallback := fmt.Sprintf("invoice-%s.pdf", invoiceID)
	content, filename, err := c.doBlob(ctx, sess, "/dashboard/invoices/"+url.PathEscape(invoiceID)+"/pdf", fallback)
	if err != nil {
		return InvoicePDF{}, err
	}
	return InvoicePDF{Content: content, Filename: filename}, nil
}
