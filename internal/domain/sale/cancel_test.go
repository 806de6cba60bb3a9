package sale

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/orbit-console/internal/domain/cart"
	"github.com/xenking/orbit-console/internal/querycache"
)

func TestCancelService_Cancel(t *testing.T) {
	ctx := context.Background()
	completed := Sale{ID: uuid.New(), InvoiceNumber: "INV-0042", Status: StatusCompleted}

	t.Run("success", func(t *testing.T) {
		canceller := &mockCanceller{result: &Sale{ID: completed.ID, Status: StatusCancelled}}
		cache := &mockInvalidator{}
		svc := NewCancelService(canceller, cache)

		got, err := svc.Cancel(ctx, completed, CancelForm{Reason: "  customer returned goods "})
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
		assert.Equal(t, completed.ID, canceller.id)
		assert.Equal(t, "customer returned goods", canceller.reason)
		assert.Equal(t, [][]querycache.Resource{{querycache.Sales, querycache.Products}}, cache.calls)
	})

	t.Run("not completed", func(t *testing.T) {
		for _, status := range []Status{StatusPending, StatusCancelled} {
			canceller := &mockCanceller{}
			svc := NewCancelService(canceller, &mockInvalidator{})

			s := completed
			s.Status = status
			_, err := svc.Cancel(ctx, s, CancelForm{Reason: "x"})
			require.ErrorIs(t, err, ErrNotCancellable, status)
			assert.Zero(t, canceller.calls)
		}
	})

	t.Run("reason required", func(t *testing.T) {
		canceller := &mockCanceller{}
		svc := NewCancelService(canceller, &mockInvalidator{})

		_, err := svc.Cancel(ctx, completed, CancelForm{Reason: "   "})
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "reason", ve.Field)
		assert.Equal(t, "reason is required", ve.Message)
		assert.Zero(t, canceller.calls)
	})

	t.Run("server failure", func(t *testing.T) {
		canceller := &mockCanceller{err: errors.New("sale already cancelled")}
		cache := &mockInvalidator{}
		svc := NewCancelService(canceller, cache)

		_, err := svc.Cancel(ctx, completed, CancelForm{Reason: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "INV-0042")
		assert.Empty(t, cache.calls)
	})
}

func TestDefaultForm(t *testing.T) {
	f := DefaultForm()
	assert.Equal(t, PaymentCash, f.PaymentMethod)
	assert.Equal(t, "0", f.Discount)
	assert.Equal(t, "0", f.Tax)
	assert.Empty(t, f.CustomerID)
}

func newCartWithOne() cart.Cart {
	return cart.Cart{}.Add(newProduct("A", "1.00"))
}

func TestPaymentMethodsAreAccepted(t *testing.T) {
	c := newCartWithOne()
	for _, m := range PaymentMethods() {
		f := DefaultForm()
		f.PaymentMethod = m
		_, err := f.Request(c)
		require.NoError(t, err, m)
	}
}

// --- Mock implementations ---

type mockCanceller struct {
	result *Sale
	err    error
	calls  int
	id     uuid.UUID
	reason string
}

func (m *mockCanceller) Cancel(_ context.Context, id uuid.UUID, reason string) (*Sale, error) {
	m.calls++
	m.id = id
	m.reason = reason
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}
