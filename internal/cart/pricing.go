package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shopstack/storefront-gateway/pkg/config"
)

const basisPoints = 10000

// Totals carries checkout pricing at full precision. Rounding happens only
// when the values are rendered, never between computation steps.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
	Currency string
}

// TotalsView is the wire shape: every amount rendered to two decimal places.
type TotalsView struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

func (t Totals) View() TotalsView {
	return TotalsView{
		Subtotal: t.Subtotal.StringFixed(2),
		Tax:      t.Tax.StringFixed(2),
		Shipping: t.Shipping.StringFixed(2),
		Total:    t.Total.StringFixed(2),
		Currency: t.Currency,
	}
}

// Pricer computes display totals from cart line subtotals. The backend stays
// authoritative on the final order amount.
type Pricer struct {
	taxRate  decimal.Decimal
	shipping decimal.Decimal
	currency string
}

func NewPricer(cfg config.CheckoutConfig) (*Pricer, error) {
	shipping, err := decimal.NewFromString(cfg.ShippingFlat)
	if err != nil {
		return nil, err
	}
	return &Pricer{
		taxRate:  decimal.NewFromInt(int64(cfg.TaxRateBP)).Div(decimal.NewFromInt(basisPoints)),
		shipping: shipping,
		currency: cfg.Currency,
	}, nil
}

// Total sums the line subtotals as reported by the backend and applies tax
// and the flat shipping fee. An empty list of subtotals yields all zeros;
// shipping is only charged when there is something to ship.
func (p *Pricer) Total(lineSubtotals []decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lineSubtotals {
		subtotal = subtotal.Add(line)
	}

	totals := Totals{
		Subtotal: subtotal,
		Currency: p.currency,
	}
	if subtotal.IsZero() {
		return totals
	}

	totals.Tax = subtotal.Mul(p.taxRate)
	totals.Shipping = p.shipping
	totals.Total = subtotal.Add(totals.Tax).Add(totals.Shipping)
	return totals
}
