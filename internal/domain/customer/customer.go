package customer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/xenking/orbit-console/internal/domain/product"
)

// Customer is a buyer a sale may optionally be attributed to.
type Customer struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	DocumentNumber string
	IsActive       bool
}

// DisplayName returns "First Last", falling back to the email.
func (c Customer) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Email
	}
	return name
}

// Provider lists customers.
type Provider interface {
	List(ctx context.Context, page product.Page) (product.ListResult[Customer], error)
}

// Active filters out deactivated customers, keeping order.
func Active(customers []Customer) []Customer {
	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}
