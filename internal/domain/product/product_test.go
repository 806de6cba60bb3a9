package product

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/orbit-console/internal/querycache"
	"github.com/xenking/orbit-console/internal/validation"
)

func sample(name, sku, barcode string, active bool) Product {
	return Product{
		ID:        uuid.New(),
		Name:      name,
		SKU:       sku,
		Barcode:   barcode,
		SalePrice: decimal.RequireFromString("9.99"),
		IsActive:  active,
	}
}

func TestSearch(t *testing.T) {
	coffee := sample("Coffee Beans", "CF-001", "7790001", true)
	tea := sample("Green Tea", "TE-002", "", true)
	mug := sample("Coffee Mug", "MG-003", "7790003", false)
	filter := sample("Paper Filter", "CF-004", "", true)
	catalog := []Product{coffee, tea, mug, filter}

	tests := []struct {
		name  string
		term  string
		limit int
		want  []Product
	}{
		{name: "name case-insensitive", term: "COFFEE", want: []Product{coffee}},
		{name: "sku prefix", term: "cf-", want: []Product{coffee, filter}},
		{name: "barcode", term: "7790001", want: []Product{coffee}},
		{name: "inactive never matched", term: "mug", want: nil},
		{name: "blank term", term: "  ", want: nil},
		{name: "limit applied", term: "e", limit: 2, want: []Product{coffee, tea}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Search(catalog, tt.term, tt.limit))
		})
	}
}

func TestLowStock(t *testing.T) {
	p := Product{StockQuantity: 3, StockMin: 5}
	assert.True(t, p.LowStock())
	p.StockQuantity = 6
	assert.False(t, p.LowStock())
}

func TestAdjustmentForm_Request(t *testing.T) {
	req, err := AdjustmentForm{Type: AdjustRemove, Quantity: "4", Reason: "damaged"}.Request()
	require.NoError(t, err)
	assert.Equal(t, StockAdjustment{Quantity: -4, Reason: "damaged"}, req)

	req, err = AdjustmentForm{Type: AdjustAdd, Quantity: "10", Reason: "delivery"}.Request()
	require.NoError(t, err)
	assert.Equal(t, 10, req.Quantity)

	_, err = AdjustmentForm{Type: AdjustAdd, Quantity: "10"}.Request()
	var fe *ValidationError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "reason", fe.Field)

	_, err = AdjustmentForm{Type: AdjustAdd, Quantity: "0", Reason: "x"}.Request()
	require.True(t, validation.IsFieldError(err))

	_, err = AdjustmentForm{Type: "set", Quantity: "1", Reason: "x"}.Request()
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "type", fe.Field)
}

func TestStockService_Adjust(t *testing.T) {
	ctx := context.Background()
	p := sample("Coffee Beans", "CF-001", "", true)

	t.Run("success invalidates products", func(t *testing.T) {
		adj := &mockAdjuster{result: &Product{ID: p.ID, StockQuantity: 12}}
		cache := &mockInvalidator{}
		svc := NewStockService(adj, cache)

		got, err := svc.Adjust(ctx, p, AdjustmentForm{Type: AdjustAdd, Quantity: "2", Reason: "recount"})
		require.NoError(t, err)
		assert.Equal(t, 12, got.StockQuantity)
		assert.Equal(t, p.ID, adj.id)
		assert.Equal(t, StockAdjustment{Quantity: 2, Reason: "recount"}, adj.got)
		assert.Equal(t, [][]querycache.Resource{{querycache.Products}}, cache.calls)
	})

	t.Run("invalid form sends nothing", func(t *testing.T) {
		adj := &mockAdjuster{}
		cache := &mockInvalidator{}
		svc := NewStockService(adj, cache)

		_, err := svc.Adjust(ctx, p, AdjustmentForm{Type: AdjustAdd, Quantity: "abc", Reason: "x"})
		require.True(t, validation.IsFieldError(err))
		assert.Zero(t, adj.calls)
		assert.Empty(t, cache.calls)
	})

	t.Run("server failure leaves cache alone", func(t *testing.T) {
		adj := &mockAdjuster{err: errors.New("insufficient stock")}
		cache := &mockInvalidator{}
		svc := NewStockService(adj, cache)

		_, err := svc.Adjust(ctx, p, AdjustmentForm{Type: AdjustRemove, Quantity: "99", Reason: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insufficient stock")
		assert.Equal(t, 1, adj.calls)
		assert.Empty(t, cache.calls)
	})
}

// --- Mock implementations ---

type mockAdjuster struct {
	result *Product
	err    error
	calls  int
	id     uuid.UUID
	got    StockAdjustment
}

func (m *mockAdjuster) Adjust(_ context.Context, id uuid.UUID, adj StockAdjustment) (*Product, error) {
	m.calls++
	m.id = id
	m.got = adj
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockInvalidator struct {
	calls [][]querycache.Resource
}

func (m *mockInvalidator) Invalidate(resources ...querycache.Resource) {
	m.calls = append(m.calls, resources)
}
