package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/orbit-console/internal/querycache"
	"github.com/xenking/orbit-console/internal/validation"
)

// AdjustmentType is the direction of a stock adjustment.
type AdjustmentType string

const (
	AdjustAdd    AdjustmentType = "add"
	AdjustRemove AdjustmentType = "remove"
)

// ValidationError is a local failure on the adjustment form.
type ValidationError = validation.FieldError

// AdjustmentForm is the operator-entered adjustment.
type AdjustmentForm struct {
	Type     AdjustmentType `form:"type" validate:"required,oneof=add remove"`
	Quantity string         `form:"quantity" validate:"required,posint"`
	Reason   string         `form:"reason" validate:"required,max=500"`
}

// Invalidator marks cached reads stale after a mutation.
type Invalidator interface {
	Invalidate(resources ...querycache.Resource)
}

// StockService validates adjustment forms and forwards them to the server.
type StockService struct {
	adjuster Adjuster
	cache    Invalidator
}

// NewStockService creates a StockService.
func NewStockService(adjuster Adjuster, cache Invalidator) *StockService {
	return &StockService{
		adjuster: adjuster,
		cache:    cache,
	}
}

// Request converts a valid form into the signed request the server expects.
func (f AdjustmentForm) Request() (StockAdjustment, error) {
	if err := validation.Struct(f); err != nil {
		return StockAdjustment{}, err
	}
	qty, err := validation.ParsePositiveInt(f.Quantity)
	if err != nil {
		return StockAdjustment{}, &ValidationError{Field: "quantity", Message: "quantity must be a positive whole number"}
	}
	if f.Type == AdjustRemove {
		qty = -qty
	}
	return StockAdjustment{Quantity: qty, Reason: f.Reason}, nil
}

// Adjust applies the form to p. On a local validation failure nothing is
// sent. The products cache is invalidated only after the server accepts.
func (s *StockService) Adjust(ctx context.Context, p Product, form AdjustmentForm) (*Product, error) {
	req, err := form.Request()
	if err != nil {
		return nil, err
	}

	updated, err := s.adjuster.Adjust(ctx, p.ID, req)
	if err != nil {
		return nil, errors.Wrap(err, "adjust stock")
	}

	s.cache.Invalidate(querycache.Products)
	zctx.From(ctx).Info("Stock adjusted",
		zap.Stringer("product_id", p.ID),
		zap.Int("quantity", req.Quantity),
	)
	return updated, nil
}
