package sale

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/orbit-console/internal/domain/cart"
	"github.com/xenking/orbit-console/internal/domain/product"
	"github.com/xenking/orbit-console/internal/querycache"
	"github.com/xenking/orbit-console/internal/validation"
)

// Status is the lifecycle state of a persisted sale.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// PaymentMethod is how the customer paid.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentOther    PaymentMethod = "other"
)

// PaymentMethods returns the accepted methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCash, PaymentCard, PaymentTransfer, PaymentOther}
}

// ValidationError is a local failure on a sale form. Nothing is sent when
// one is returned.
type ValidationError = validation.FieldError

// Sentinel errors for sale composition and cancellation.
var (
	ErrEmptyCart      error = &ValidationError{Field: "items", Message: "add at least one product to the cart"}
	ErrSubmitInFlight       = errors.New("a submission is already in progress")
	ErrDialogClosed         = errors.New("sale dialog is not open")
	ErrOutcomeUnknown       = errors.New("sale outcome unknown")
	ErrNotCancellable       = errors.New("only completed sales can be cancelled")
	ErrNotFound             = errors.New("sale not found")
)

// OutcomeUnknownError wraps a submission that ended without a response. The
// server may or may not have recorded the sale.
type OutcomeUnknownError struct {
	Err error
}

func (e *OutcomeUnknownError) Error() string {
	return "sale outcome unknown: " + e.Err.Error()
}

func (e *OutcomeUnknownError) Unwrap() error {
	return e.Err
}

func (e *OutcomeUnknownError) Is(target error) bool {
	return target == ErrOutcomeUnknown
}

// Item is a persisted sale line as recorded by the server.
type Item struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Sale is only ever produced by the server.
type Sale struct {
	ID                 uuid.UUID
	InvoiceNumber      string
	CustomerID         *uuid.UUID
	Items              []Item
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	Tax                decimal.Decimal
	Total              decimal.Decimal
	PaymentMethod      PaymentMethod
	Status             Status
	Notes              *string
	CancellationReason *string
	SaleDate           time.Time
}

// CreateRequest is the payload for recording a sale. It carries no prices;
// the server prices every line from its own catalog.
type CreateRequest struct {
	CustomerID    *uuid.UUID
	PaymentMethod PaymentMethod
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Notes         *string
	Items         []cart.Item
}

// Creator records a sale atomically.
type Creator interface {
	Create(ctx context.Context, req CreateRequest) (*Sale, error)
}

// Canceller cancels a completed sale.
type Canceller interface {
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*Sale, error)
}

// Lister lists recorded sales.
type Lister interface {
	List(ctx context.Context, page product.Page) (product.ListResult[Sale], error)
}

// Getter fetches one sale with its items.
type Getter interface {
	Get(ctx context.Context, id uuid.UUID) (*Sale, error)
}

// CustomerHistory lists the sales recorded for one customer.
type CustomerHistory interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID, page product.Page) (product.ListResult[Sale], error)
}

// Invalidator marks cached reads stale after a mutation.
type Invalidator interface {
	Invalidate(resources ...querycache.Resource)
}
