package sale

import (
	"strings"

	"github.com/google/uuid"

	"github.com/xenking/orbit-console/internal/domain/cart"
	"github.com/xenking/orbit-console/internal/domain/pricing"
	"github.com/xenking/orbit-console/internal/validation"
)

// Form is the operator-entered part of a sale. Amounts stay as text until
// validation so malformed input can be reported per field.
type Form struct {
	CustomerID    string        `form:"customer_id" validate:"omitempty,uuid"`
	PaymentMethod PaymentMethod `form:"payment_method" validate:"required,oneof=cash card transfer other"`
	Discount      string        `form:"discount" validate:"money"`
	Tax           string        `form:"tax" validate:"money"`
	Notes         string        `form:"notes" validate:"max=1000"`
}

// DefaultForm is the state of a freshly opened dialog.
func DefaultForm() Form {
	return Form{
		PaymentMethod: PaymentCash,
		Discount:      "0",
		Tax:           "0",
	}
}

// Request validates the form against c and builds the create payload.
func (f Form) Request(c cart.Cart) (CreateRequest, error) {
	if c.IsEmpty() {
		return CreateRequest{}, ErrEmptyCart
	}
	if err := validation.Struct(f); err != nil {
		return CreateRequest{}, err
	}

	discount, err := validation.ParseMoney(f.Discount)
	if err != nil {
		return CreateRequest{}, &ValidationError{Field: "discount", Message: "discount must be a non-negative amount"}
	}
	tax, err := validation.ParseMoney(f.Tax)
	if err != nil {
		return CreateRequest{}, &ValidationError{Field: "tax", Message: "tax must be a non-negative amount"}
	}
	// The server does not floor the total, so an oversized discount would
	// be recorded as a negative sale.
	if discount.GreaterThan(pricing.Subtotal(c).Add(tax)) {
		return CreateRequest{}, &ValidationError{Field: "discount", Message: "discount cannot exceed subtotal plus tax"}
	}

	req := CreateRequest{
		PaymentMethod: f.PaymentMethod,
		Discount:      discount,
		Tax:           tax,
		Items:         c.Items(),
	}
	if f.CustomerID != "" {
		id, err := uuid.Parse(f.CustomerID)
		if err != nil {
			return CreateRequest{}, &ValidationError{Field: "customer_id", Message: "customer id must be a valid id"}
		}
		req.CustomerID = &id
	}
	if notes := strings.TrimSpace(f.Notes); notes != "" {
		req.Notes = &notes
	}
	return req, nil
}
