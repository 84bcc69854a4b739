package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/internal/status"
	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

type backend interface {
	ListMyOrders(ctx context.Context, sess session.Session, params upstream.OrderListParams) ([]upstream.Order, error)
	GetOrder(ctx context.Context, sess session.Session, orderID string) (upstream.Order, error)
	UpdateOrderStatus(ctx context.Context, sess session.Session, orderID string, next enums.OrderStatus) (upstream.Order, error)
	CancelOrder(ctx context.Context, sess session.Session, orderID string) error
}

// View decorates a backend order with its display badge and the transitions
// the caller's role may perform next.
type View struct {
	Order       upstream.Order      `json:"order"`
	Badge       status.Badge        `json:"badge"`
	Transitions []enums.OrderStatus `json:"transitions"`
}

// Service wraps the backend order endpoints with the role-aware transition
// gate: disallowed moves are rejected locally before any network call.
type Service struct {
	backend backend
	logger  *logger.Logger
}

func NewService(backend backend, logg *logger.Logger) (*Service, error) {
	if backend == nil {
		return nil, errors.New("orders service requires a backend client")
	}
	return &Service{backend: backend, logger: logg}, nil
}

// List returns the caller's orders decorated for display.
func (s *Service) List(ctx context.Context, sess session.Session, params upstream.OrderListParams) ([]View, error) {
	fetched, err := s.backend.ListMyOrders(ctx, sess, params)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(fetched))
	for _, order := range fetched {
		views = append(views, s.decorate(sess, order))
	}
	return views, nil
}

// Get returns one order decorated for display.
func (s *Service) Get(ctx context.Context, sess session.Session, orderID string) (View, error) {
	order, err := s.backend.GetOrder(ctx, sess, orderID)
	if err != nil {
		return View{}, err
	}
	return s.decorate(sess, order), nil
}

// Transitions reports the moves the caller may make on an order, with display
// badges for each target status.
func (s *Service) Transitions(ctx context.Context, sess session.Session, orderID string) (View, map[enums.OrderStatus]status.Badge, error) {
	view, err := s.Get(ctx, sess, orderID)
	if err != nil {
		return View{}, nil, err
	}

	badges := make(map[enums.OrderStatus]status.Badge, len(view.Transitions))
	for _, next := range view.Transitions {
		badges[next] = status.Describe(next)
	}
	return view, badges, nil
}

// UpdateStatus moves an order to next on the caller's behalf. The transition
// is checked against the caller's role before the backend is contacted.
func (s *Service) UpdateStatus(ctx context.Context, sess session.Session, orderID string, next enums.OrderStatus) (View, error) {
	if !next.IsValid() {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", next))
	}

	order, err := s.backend.GetOrder(ctx, sess, orderID)
	if err != nil {
		return View{}, err
	}

	role := sess.Role()
	if !status.CanTransition(order.Status, next, role) {
		return View{}, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next),
		).WithDetails(map[string]any{
			"current": order.Status,
			"next":    next,
			"allowed": status.AllowedTransitions(order.Status, role),
		})
	}

	updated, err := s.backend.UpdateOrderStatus(ctx, sess, orderID, next)
	if err != nil {
		return View{}, err
	}

	if s.logger != nil {
		logCtx := s.logger.WithFields(ctx, map[string]any{
			"order_id": orderID,
			"from":     order.Status.String(),
			"to":       next.String(),
		})
		s.logger.Info(logCtx, "order status updated")
	}
	return s.decorate(sess, updated), nil
}

// Cancel is the customer-facing shortcut for moving an order to cancelled.
func (s *Service) Cancel(ctx context.Context, sess session.Session, orderID string) error {
	order, err := s.backend.GetOrder(ctx, sess, orderID)
	if err != nil {
		return err
	}

	if !status.CanTransition(order.Status, enums.OrderStatusCancelled, sess.Role()) {
		return pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("order in status %s can no longer be cancelled", order.Status),
		)
	}
	return s.backend.CancelOrder(ctx, sess, orderID)
}

func (s *Service) decorate(sess session.Session, order upstream.Order) View {
	return View{
		Order:       order,
		Badge:       status.Describe(order.Status),
		Transitions: status.AllowedTransitions(order.Status, sess.Role()),
	}
}
