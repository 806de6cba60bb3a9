package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a read-only catalog snapshot owned by inventory.
type Product struct {
	ID            uuid.UUID
	SKU           string
	Name          string
	Barcode       string
	SalePrice     decimal.Decimal
	StockQuantity int
	StockMin      int
	IsActive      bool
	CategoryID    *uuid.UUID
}

// LowStock reports whether the on-hand quantity is at or below the minimum.
func (p Product) LowStock() bool {
	return p.StockQuantity <= p.StockMin
}

// Category groups products for browsing.
type Category struct {
	ID          uuid.UUID
	Name        string
	Description string
	IsActive    bool
}

// Page selects a window of a list.
type Page struct {
	Skip  int
	Limit int
}

// ListResult is one page of items plus the total count on the server.
type ListResult[T any] struct {
	Items []T
	Count int
}

// StockAdjustment is the request sent to the server. Quantity is signed.
type StockAdjustment struct {
	Quantity int
	Reason   string
}

// MovementType says what changed the stock.
type MovementType string

const (
	MovementSale       MovementType = "sale"
	MovementReturn     MovementType = "return"
	MovementAdjustment MovementType = "adjustment"
)

// Movement is one recorded stock change. Quantity is signed.
type Movement struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Type          MovementType
	Quantity      int
	PreviousStock int
	NewStock      int
	Reason        *string
	CreatedAt     time.Time
}

// Provider lists products.
type Provider interface {
	List(ctx context.Context, page Page) (ListResult[Product], error)
}

// CategoryProvider lists categories.
type CategoryProvider interface {
	List(ctx context.Context, page Page) (ListResult[Category], error)
}

// Adjuster applies a stock adjustment and returns the updated product.
type Adjuster interface {
	Adjust(ctx context.Context, id uuid.UUID, adj StockAdjustment) (*Product, error)
}

// MovementLister lists the stock history of one product, newest first.
type MovementLister interface {
	Movements(ctx context.Context, productID uuid.UUID, page Page) (ListResult[Movement], error)
}
