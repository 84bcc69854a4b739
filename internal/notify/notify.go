package notify

import (
	"context"
	"sync"
	"time"

	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

// OrderPlaced announces a checkout that created an order, regardless of how
// far the payment steps got.
type OrderPlaced struct {
	OrderID     string
	OrderNumber string
	UserID      string
	TotalAmount string
	PlacedAt    time.Time
	Order       upstream.Order
}

// Publisher fans OrderPlaced events out to subscribers. Delivery is
// at-most-once with no replay: a subscriber that is not draining its channel
// when an event arrives simply misses it, and publishing never blocks the
// checkout path.
type Publisher struct {
	mu     sync.RWMutex
	subs   map[int]chan OrderPlaced
	nextID int
	buffer int
	logger *logger.Logger
}

func NewPublisher(logg *logger.Logger) *Publisher {
	return &Publisher{
		subs:   make(map[int]chan OrderPlaced),
		buffer: 8,
		logger: logg,
	}
}

// Subscribe registers a listener. The returned cancel func must be called to
// release the subscription; the channel is closed on cancel.
func (p *Publisher) Subscribe() (<-chan OrderPlaced, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	ch := make(chan OrderPlaced, p.buffer)
	p.subs[id] = ch

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if existing, ok := p.subs[id]; ok {
			delete(p.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber whose buffer has room.
func (p *Publisher) Publish(ctx context.Context, event OrderPlaced) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	dropped := 0
	for _, ch := range p.subs {
		select {
		case ch <- event:
		default:
			dropped++
		}
	}

	if dropped > 0 && p.logger != nil {
		logCtx := p.logger.WithFields(ctx, map[string]any{
			"order_id": event.OrderID,
			"dropped":  dropped,
		})
		p.logger.Warn(logCtx, "order placed event dropped for slow subscribers")
	}
}

// SubscriberCount reports active subscriptions, for the readiness payload.
func (p *Publisher) SubscriberCount() int {
	if p == nil {
		return 0
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}
