package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

const defaultDueDays = 30

type backend interface {
	ListInvoices(ctx context.Context, sess session.Session, params upstream.InvoiceListParams) ([]upstream.Invoice, error)
	CreateInvoice(ctx context.Context, sess session.Session, req upstream.CreateInvoiceRequest) (upstream.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, sess session.Session, invoiceID string, next enums.InvoiceStatus) (upstream.Invoice, error)
	FetchInvoicePDF(ctx context.Context, sess session.Session, invoiceID string) (upstream.InvoicePDF, error)
}

// Service fronts the seller/admin invoice dashboard endpoints. Only sellers
// and admins may reach it; the role gate lives here rather than in the
// handlers so every caller gets it.
type Service struct {
	backend backend
	logger  *logger.Logger
}

func NewService(backend backend, logg *logger.Logger) (*Service, error) {
	if backend == nil {
		return nil, errors.New("invoices service requires a backend client")
	}
	return &Service{backend: backend, logger: logg}, nil
}

func requireDashboardRole(sess session.Session) error {
	switch sess.Role() {
	case enums.RoleAdmin, enums.RoleSeller:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "invoice dashboard requires a seller or admin account")
	}
}

func (s *Service) List(ctx context.Context, sess session.Session, params upstream.InvoiceListParams) ([]upstream.Invoice, error) {
	if err := requireDashboardRole(sess); err != nil {
		return nil, err
	}
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown invoice status %q", params.Status))
	}
	return s.backend.ListInvoices(ctx, sess, params)
}

func (s *Service) Create(ctx context.Context, sess session.Session, req upstream.CreateInvoiceRequest) (upstream.Invoice, error) {
	if err := requireDashboardRole(sess); err != nil {
		return upstream.Invoice{}, err
	}
	if req.OrderID == "" {
		return upstream.Invoice{}, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if req.DueDays <= 0 {
		req.DueDays = defaultDueDays
	}

	invoice, err := s.backend.CreateInvoice(ctx, sess, req)
	if err != nil {
		return upstream.Invoice{}, err
	}
	if s.logger != nil {
		logCtx := s.logger.WithFields(ctx, map[string]any{
			"invoice_id": invoice.ID,
			"order_id":   req.OrderID,
		})
		s.logger.Info(logCtx, "invoice created")
	}
	return invoice, nil
}

func (s *Service) UpdateStatus(ctx context.Context, sess session.Session, invoiceID string, next enums.InvoiceStatus) (upstream.Invoice, error) {
	if err := requireDashboardRole(sess); err != nil {
		return upstream.Invoice{}, err
	}
	if !next.IsValid() {
		return upstream.Invoice{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown invoice status %q", next))
	}
	return s.backend.UpdateInvoiceStatus(ctx, sess, invoiceID, next)
}

func (s *Service) PDF(ctx context.Context, sess session.Session, invoiceID string) (upstream.InvoicePDF, error) {
	if err := requireDashboardRole(sess); err != nil {
		return upstream.InvoicePDF{}, err
	}
	return s.backend.FetchInvoicePDF(ctx, sess, invoiceID)
}
