package payments

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TokenSource produces the client-side payment method token sent when
// confirming a payment intent. In production this would come from the
// provider's browser SDK; the gateway synthesizes one so the confirm flow can
// run end to end without provider credentials.
type TokenSource interface {
	Token() string
}

// SimulatedTokenSource mints unique simulated tokens. The timestamp keeps the
// token readable in backend logs; the uuid suffix keeps concurrent checkouts
// from colliding.
type SimulatedTokenSource struct{}

func (SimulatedTokenSource) Token() string {
	return fmt.Sprintf("simulated_pm_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// StaticTokenSource returns a fixed token, for tests.
type StaticTokenSource string

func (s StaticTokenSource) Token() string {
	return string(s)
}
