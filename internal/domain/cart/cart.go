// Package cart holds the lines of a sale being composed. A Cart is a value:
// every transition returns a new Cart and leaves the receiver untouched.
package cart

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/orbit-console/internal/domain/product"
)

// Line is one product in the cart. UnitPrice, SKU and Name are captured when
// the product is first added and are not refreshed afterwards.
type Line struct {
	ProductID uuid.UUID
	SKU       string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Subtotal is quantity × unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Item is the {product, quantity} pair sent with a sale request.
type Item struct {
	ProductID uuid.UUID
	Quantity  int
}

// Cart is an insertion-ordered list with at most one line per product.
// The zero value is an empty cart.
type Cart struct {
	lines []Line
}

func (c Cart) index(id uuid.UUID) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.ProductID == id })
}

// Add increments the quantity of p's line, or appends a new line with
// quantity 1 priced at p's current sale price. There is no stock ceiling;
// the server is the authority on availability.
func (c Cart) Add(p product.Product) Cart {
	lines := slices.Clone(c.lines)
	if i := c.index(p.ID); i >= 0 {
		lines[i].Quantity++
		return Cart{lines: lines}
	}
	return Cart{lines: append(lines, Line{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		UnitPrice: p.SalePrice,
		Quantity:  1,
	})}
}

// UpdateQuantity adds delta to the line's quantity. A result of zero or less
// removes the line. Unknown ids leave the cart unchanged.
func (c Cart) UpdateQuantity(id uuid.UUID, delta int) Cart {
	i := c.index(id)
	if i < 0 {
		return c
	}
	if c.lines[i].Quantity+delta <= 0 {
		return c.Remove(id)
	}
	lines := slices.Clone(c.lines)
	lines[i].Quantity += delta
	return Cart{lines: lines}
}

// Remove drops the line for id. Unknown ids leave the cart unchanged.
func (c Cart) Remove(id uuid.UUID) Cart {
	i := c.index(id)
	if i < 0 {
		return c
	}
	lines := make([]Line, 0, len(c.lines)-1)
	lines = append(lines, c.lines[:i]...)
	lines = append(lines, c.lines[i+1:]...)
	return Cart{lines: lines}
}

// Lines returns a copy of the lines in insertion order.
func (c Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

// Len returns the number of distinct products.
func (c Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Quantity returns the quantity for id, or 0 when absent.
func (c Cart) Quantity(id uuid.UUID) int {
	if i := c.index(id); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// Items returns the request payload lines. Prices are deliberately absent.
func (c Cart) Items() []Item {
	items := make([]Item, len(c.lines))
	for i, l := range c.lines {
		items[i] = Item{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return items
}
