package sale

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/orbit-console/internal/querycache"
	"github.com/xenking/orbit-console/internal/validation"
)

// CancelForm is the operator-entered cancellation.
type CancelForm struct {
	Reason string `form:"reason" validate:"required,max=500"`
}

// CancelService cancels completed sales. Callers check permission first.
type CancelService struct {
	canceller Canceller
	cache     Invalidator
}

// NewCancelService creates a CancelService.
func NewCancelService(canceller Canceller, cache Invalidator) *CancelService {
	return &CancelService{
		canceller: canceller,
		cache:     cache,
	}
}

// Cancel refuses locally unless s is completed and a reason is given.
// Cancelling returns stock, so both sales and products are invalidated
// after the server accepts.
func (c *CancelService) Cancel(ctx context.Context, s Sale, form CancelForm) (*Sale, error) {
	if s.Status != StatusCompleted {
		return nil, ErrNotCancellable
	}
	form.Reason = strings.TrimSpace(form.Reason)
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	cancelled, err := c.canceller.Cancel(ctx, s.ID, form.Reason)
	if err != nil {
		return nil, errors.Wrapf(err, "cancel sale %s", s.InvoiceNumber)
	}

	c.cache.Invalidate(querycache.Sales, querycache.Products)
	zctx.From(ctx).Info("Sale cancelled",
		zap.String("invoice", s.InvoiceNumber),
		zap.Stringer("sale_id", s.ID),
	)
	return cancelled, nil
}
