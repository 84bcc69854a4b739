package checkout

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopstack/storefront-gateway/internal/cart"
	"github.com/shopstack/storefront-gateway/internal/notify"
	"github.com/shopstack/storefront-gateway/internal/payments"
	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/config"
	"github.com/shopstack/storefront-gateway/pkg/enums"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

// ShippingInfo is the address block collected at checkout. City, state and
// postal code are optional.
type ShippingInfo struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// addressLine flattens the structured form into the backend's single
// shipping_address string.
func (s ShippingInfo) addressLine() string {
	parts := make([]string, 0, 4)
	for _, part := range []string{s.Address, s.City, s.State, s.PostalCode} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

// PaymentChoice is the selected method plus its method-specific fields.
type PaymentChoice struct {
	Method  enums.PaymentMethod `json:"method"`
	Details payments.Details    `json:"details"`
	Notes   string              `json:"notes"`
}

// Request is one checkout attempt.
type Request struct {
	Shipping       ShippingInfo  `json:"shipping"`
	BillingAddress string        `json:"billing_address"`
	Notes          string        `json:"notes"`
	Payment        PaymentChoice `json:"payment"`
}

// Outcome reports how far a checkout attempt got. OrderCreated false means
// nothing was created; once it is true the attempt is an overall success even
// if the payment steps degraded.
type Outcome struct {
	OrderCreated     bool                `json:"order_created"`
	IntentCreated    bool                `json:"intent_created"`
	PaymentConfirmed bool                `json:"payment_confirmed"`
	Order            upstream.Order      `json:"order"`
	PaymentIntentID  string              `json:"payment_intent_id,omitempty"`
	PaymentStatus    enums.PaymentStatus `json:"payment_status,omitempty"`
	Message          string              `json:"message"`
	IdempotencyKey   string              `json:"idempotency_key"`
}

type backend interface {
	FetchCart(ctx context.Context, sess session.Session) (upstream.Cart, error)
	CreateOrder(ctx context.Context, sess session.Session, req upstream.CreateOrderRequest, idempotencyKey string) (upstream.Order, error)
	CreatePaymentIntent(ctx context.Context, sess session.Session, req upstream.PaymentIntentRequest) (upstream.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, sess session.Session, req upstream.ConfirmPaymentRequest) (upstream.ConfirmPaymentResult, error)
}

type publisher interface {
	Publish(ctx context.Context, event notify.OrderPlaced)
}

// Service runs the checkout sequence: validate, create order, then best-effort
// payment intent and confirmation. Order creation is the only fatal step.
type Service struct {
	backend   backend
	pricer    *cart.Pricer
	tokens    payments.TokenSource
	publisher publisher
	logger    *logger.Logger
	currency  string
	validate  *validator.Validate
}

func NewService(
	backend backend,
	pricer *cart.Pricer,
	tokens payments.TokenSource,
	pub publisher,
	logg *logger.Logger,
	cfg config.CheckoutConfig,
) (*Service, error) {
	if backend == nil {
		return nil, errors.New("checkout service requires a backend client")
	}
	if pricer == nil {
		return nil, errors.New("checkout service requires a pricer")
	}
	if tokens == nil {
		return nil, errors.New("checkout service requires a token source")
	}
	if pub == nil {
		return nil, errors.New("checkout service requires a publisher")
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		backend:   backend,
		pricer:    pricer,
		tokens:    tokens,
		publisher: pub,
		logger:    logg,
		currency:  cfg.Currency,
		validate:  v,
	}, nil
}

// Checkout fetches the caller's current cart and runs PlaceOrder against it.
func (s *Service) Checkout(ctx context.Context, sess session.Session, req Request) (Outcome, error) {
	snapshot, err := s.backend.FetchCart(ctx, sess)
	if err != nil {
		return Outcome{}, err
	}
	return s.PlaceOrder(ctx, sess, snapshot, req)
}

// PlaceOrder runs one checkout attempt for the session's user against the
// given cart snapshot. The snapshot is read once up front and never
// re-validated here; the backend is the authority on stock and price.
func (s *Service) PlaceOrder(ctx context.Context, sess session.Session, snapshot upstream.Cart, req Request) (Outcome, error) {
	if err := s.validateRequest(snapshot, req); err != nil {
		return Outcome{}, err
	}

	key := "chk-" + uuid.NewString()
	outcome := Outcome{IdempotencyKey: key}

	ctx = s.logCtx(ctx, map[string]any{
		"user_id":         sess.User.ID,
		"idempotency_key": key,
		"payment_method":  req.Payment.Method.String(),
	})

	order, err := s.backend.CreateOrder(ctx, sess, buildOrderRequest(snapshot, req), key)
	if err != nil {
		s.logError(ctx, "order creation failed", err)
		return outcome, err
	}
	outcome.OrderCreated = true
	outcome.Order = order
	s.logInfo(s.logCtx(ctx, map[string]any{"order_id": order.ID}), "order created")

	defer s.announce(ctx, sess, &outcome)

	if req.Payment.Method.IsDeferred() {
		outcome.PaymentStatus = enums.PaymentStatusPending
		outcome.Message = "Order placed. Payment will be collected on delivery or by transfer."
		return outcome, nil
	}

	intent, err := s.backend.CreatePaymentIntent(ctx, sess, s.buildIntentRequest(sess, snapshot, order, req))
	if err != nil {
		s.logWarn(ctx, "payment intent creation failed; order stands", err)
		outcome.Message = "Order placed, but payment was not attempted. You can pay from your orders page."
		return outcome, nil
	}
	outcome.IntentCreated = true
	outcome.PaymentIntentID = intent.PaymentIntentID
	outcome.PaymentStatus = intent.Status

	confirmed, err := s.backend.ConfirmPayment(ctx, sess, upstream.ConfirmPaymentRequest{
		PaymentIntentID:    intent.PaymentIntentID,
		PaymentMethodToken: s.tokens.Token(),
	})
	if err != nil {
		s.logWarn(ctx, "payment confirmation failed; order stands", err)
		outcome.Message = "Order placed. Payment is pending confirmation; we will follow up."
		return outcome, nil
	}

	outcome.PaymentStatus = confirmed.Status
	if confirmed.Status == enums.PaymentStatusCompleted {
		outcome.PaymentConfirmed = true
		outcome.Message = "Order placed and payment confirmed."
	} else {
		outcome.Message = "Order placed. Payment is pending confirmation; we will follow up."
	}
	return outcome, nil
}

func (s *Service) validateRequest(snapshot upstream.Cart, req Request) error {
	if len(snapshot.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if err := s.validate.Struct(req.Shipping); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				fields = append(fields, fe.Field())
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "shipping information incomplete").
				WithDetails(map[string]any{"fields": fields})
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "shipping information invalid")
	}

	return payments.ValidateDetails(req.Payment.Method, req.Payment.Details)
}

func buildOrderRequest(snapshot upstream.Cart, req Request) upstream.CreateOrderRequest {
	items := make([]upstream.OrderItemRequest, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items = append(items, upstream.OrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	shipping := req.Shipping.addressLine()
	billing := strings.TrimSpace(req.BillingAddress)
	if billing == "" {
		billing = shipping
	}

	return upstream.CreateOrderRequest{
		ShippingAddress: shipping,
		BillingAddress:  billing,
		ShippingNotes:   strings.TrimSpace(req.Notes),
		Items:           items,
	}
}

func (s *Service) buildIntentRequest(sess session.Session, snapshot upstream.Cart, order upstream.Order, req Request) upstream.PaymentIntentRequest {
	// Prefer the backend's authoritative order total; fall back to the local
	// computation only if the backend omitted it.
	amount := order.TotalAmount
	if amount.IsZero() {
		amount = s.pricer.Total(cartLineSubtotals(snapshot)).Total
	}

	return upstream.PaymentIntentRequest{
		OrderID:       order.ID,
		Amount:        amount,
		Currency:      s.currency,
		Method:        req.Payment.Method.BackendMethod(),
		Provider:      req.Payment.Method.Provider(),
		CustomerEmail: sess.User.Email,
		CustomerName:  sess.User.FullName,
		Metadata: map[string]string{
			"order_number": order.OrderNumber,
		},
	}
}

func (s *Service) announce(ctx context.Context, sess session.Session, outcome *Outcome) {
	if !outcome.OrderCreated {
		return
	}
	s.publisher.Publish(ctx, notify.OrderPlaced{
		OrderID:     outcome.Order.ID,
		OrderNumber: outcome.Order.OrderNumber,
		UserID:      sess.User.ID,
		TotalAmount: outcome.Order.TotalAmount.StringFixed(2),
		PlacedAt:    time.Now().UTC(),
		Order:       outcome.Order,
	})
}

func cartLineSubtotals(snapshot upstream.Cart) []decimal.Decimal {
	lines := make([]decimal.Decimal, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		lines = append(lines, item.SubtotalPrice)
	}
	return lines
}

func (s *Service) logCtx(ctx context.Context, fields map[string]any) context.Context {
	if s.logger == nil {
		return ctx
	}
	return s.logger.WithFields(ctx, fields)
}

func (s *Service) logInfo(ctx context.Context, msg string) {
	if s.logger != nil {
		s.logger.Info(ctx, msg)
	}
}

func (s *Service) logWarn(ctx context.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), msg)
	}
}

func (s *Service) logError(ctx context.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.Error(ctx, msg, err)
	}
}
