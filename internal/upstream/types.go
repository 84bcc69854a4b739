package upstream

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopstack/storefront-gateway/pkg/enums"
)

// Product is the slice of product data embedded in a cart item.
type Product struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail"`
	Price     decimal.Decimal `json:"price"`
}

// CartItem is one line of the server-owned cart. SubtotalPrice is the
// backend-computed extension (unit price x quantity); totals are summed from
// it rather than recomputed client-side.
type CartItem struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Product       Product         `json:"product"`
	Quantity      int             `json:"quantity"`
	SubtotalPrice decimal.Decimal `json:"subtotal_price"`
}

// Cart is a read-only snapshot of the user's cart.
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"cart_items"`
}

// OrderItem is one line of a created order.
type OrderItem struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductTitle  string          `json:"product_title"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	SubtotalPrice decimal.Decimal `json:"subtotal_price"`
}

// Order is the backend's purchase record. TotalAmount is authoritative; the
// gateway never overrides it with its own arithmetic.
type Order struct {
	ID              string                   `json:"id"`
	OrderNumber     string                   `json:"order_number"`
	Status          enums.OrderStatus        `json:"status"`
	PaymentStatus   enums.OrderPaymentStatus `json:"payment_status"`
	TotalAmount     decimal.Decimal          `json:"total_amount"`
	ShippingAddress string                   `json:"shipping_address"`
	BillingAddress  string                   `json:"billing_address"`
	CreatedAt       time.Time                `json:"created_at"`
	Items           []OrderItem              `json:"order_items"`
}

// OrderItemRequest carries only product id and quantity; prices are never
// sent by the client, so a tampered form cannot influence charged amounts.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the order submission payload.
type CreateOrderRequest struct {
	ShippingAddress string             `json:"shipping_address"`
	BillingAddress  string             `json:"billing_address"`
	ShippingNotes   string             `json:"shipping_notes"`
	Items           []OrderItemRequest `json:"order_items"`
}

// OrderListParams filters the order listing.
type OrderListParams struct {
	Skip          int
	Limit         int
	Status        enums.OrderStatus
	PaymentStatus enums.OrderPaymentStatus
}

// PaymentIntentRequest stages a charge against a created order.
type PaymentIntentRequest struct {
	OrderID       string                `json:"order_id"`
	Amount        decimal.Decimal       `json:"amount"`
	Currency      string                `json:"currency"`
	Method        string                `json:"payment_method"`
	Provider      enums.PaymentProvider `json:"payment_provider"`
	CustomerEmail string                `json:"customer_email"`
	CustomerName  string                `json:"customer_name"`
	Metadata      map[string]string     `json:"metadata,omitempty"`
}

// PaymentIntent is the provider-side staging record for one checkout attempt.
type PaymentIntent struct {
	PaymentIntentID string              `json:"payment_intent_id"`
	Amount          decimal.Decimal     `json:"amount"`
	Currency        string              `json:"currency"`
	Status          enums.PaymentStatus `json:"status"`
}

// ConfirmPaymentRequest finalizes an intent with a payment-method token.
type ConfirmPaymentRequest struct {
	PaymentIntentID    string `json:"payment_intent_id"`
	PaymentMethodToken string `json:"payment_method_id"`
}

// ConfirmPaymentResult reports the confirmation outcome.
type ConfirmPaymentResult struct {
	Status enums.PaymentStatus `json:"status"`
}

// Invoice is a seller invoice issued from an order.
type Invoice struct {
	ID            string              `json:"id"`
	InvoiceNumber string              `json:"invoice_number"`
	OrderID       string              `json:"order_id"`
	Status        enums.InvoiceStatus `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	DueDate       time.Time           `json:"due_date"`
	CreatedAt     time.Time           `json:"created_at"`
}

// CreateInvoiceRequest issues an invoice for an order with a payment window.
type CreateInvoiceRequest struct {
	OrderID string `json:"order_id"`
	DueDays int    `json:"due_days"`
}

// InvoiceListParams filters the invoice listing.
type InvoiceListParams struct {
	Status enums.InvoiceStatus
	Skip   int
	Limit  int
}

// InvoicePDF is the rendered document blob with a suggested filename.
type InvoicePDF struct {
	Content  []byte
	Filename string
}
