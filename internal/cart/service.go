package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

type backend interface {
	FetchCart(ctx context.Context, sess session.Session) (upstream.Cart, error)
}

// Snapshot is the read-only cart view served to clients: the backend's cart
// plus locally derived display totals.
type Snapshot struct {
	Cart      upstream.Cart `json:"cart"`
	ItemCount int           `json:"item_count"`
	Totals    TotalsView    `json:"totals"`
}

type Service struct {
	backend backend
	pricer  *Pricer
	logger  *logger.Logger
}

func NewService(backend backend, pricer *Pricer, logg *logger.Logger) (*Service, error) {
	if backend == nil {
		return nil, errors.New("cart service requires a backend client")
	}
	if pricer == nil {
		return nil, errors.New("cart service requires a pricer")
	}
	return &Service{backend: backend, pricer: pricer, logger: logg}, nil
}

// Snapshot fetches the caller's cart and attaches derived totals. The cart is
// server-owned; nothing here mutates it.
func (s *Service) Snapshot(ctx context.Context, sess session.Session) (Snapshot, error) {
	fetched, err := s.backend.FetchCart(ctx, sess)
	if err != nil {
		return Snapshot{}, err
	}

	count := 0
	for _, item := range fetched.Items {
		count += item.Quantity
	}

	return Snapshot{
		Cart:      fetched,
		ItemCount: count,
		Totals:    s.pricer.Total(lineSubtotals(fetched)).View(),
	}, nil
}

// Totals exposes the raw (unrounded) totals for the checkout flow.
func (s *Service) Totals(cart upstream.Cart) Totals {
	return s.pricer.Total(lineSubtotals(cart))
}

func lineSubtotals(cart upstream.Cart) []decimal.Decimal {
	lines := make([]decimal.Decimal, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, item.SubtotalPrice)
	}
	return lines
}
