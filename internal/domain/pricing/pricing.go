// Package pricing computes the client-side preview of a sale total. The
// server recomputes and its figure is authoritative.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/orbit-console/internal/domain/cart"
)

// Preview is the breakdown shown while composing a sale.
type Preview struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	// Clamped is set when discount exceeded subtotal plus tax and the total
	// was floored at zero. Such a form is refused at submit.
	Clamped bool
}

// Subtotal returns Σ quantity × unit price over the cart lines.
func Subtotal(c cart.Cart) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines() {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// Total returns subtotal − discount + tax, floored at zero and rounded to
// 2 decimal places. clamped reports whether flooring happened.
func Total(subtotal, discount, tax decimal.Decimal) (total decimal.Decimal, clamped bool) {
	total = subtotal.Sub(discount).Add(tax)
	if total.IsNegative() {
		return decimal.Zero, true
	}
	return total.Round(2), false
}

// Compute builds the full preview for a cart.
func Compute(c cart.Cart, discount, tax decimal.Decimal) Preview {
	subtotal := Subtotal(c)
	total, clamped := Total(subtotal, discount, tax)
	return Preview{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Tax:      tax.Round(2),
		Total:    total,
		Clamped:  clamped,
	}
}
