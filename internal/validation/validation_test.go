package validation

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testForm struct {
	Method   string `form:"payment_method" validate:"required,oneof=cash card"`
	Amount   string `form:"discount" validate:"money"`
	Customer string `form:"customer_id" validate:"omitempty,uuid"`
	Quantity string `form:"quantity" validate:"posint"`
}

func TestStruct(t *testing.T) {
	valid := testForm{Method: "cash", Amount: "1.50", Quantity: "2"}

	tests := []struct {
		name      string
		mutate    func(f *testForm)
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing required",
			mutate:    func(f *testForm) { f.Method = "" },
			wantField: "payment_method",
			wantMsg:   "payment method is required",
		},
		{
			name:      "not in set",
			mutate:    func(f *testForm) { f.Method = "crypto" },
			wantField: "payment_method",
			wantMsg:   "payment method must be one of: cash, card",
		},
		{
			name:      "negative money",
			mutate:    func(f *testForm) { f.Amount = "-1" },
			wantField: "discount",
			wantMsg:   "discount must be a non-negative amount",
		},
		{
			name:      "malformed money",
			mutate:    func(f *testForm) { f.Amount = "ten" },
			wantField: "discount",
		},
		{
			name:      "bad uuid",
			mutate:    func(f *testForm) { f.Customer = "walk-in" },
			wantField: "customer_id",
			wantMsg:   "customer id must be a valid id",
		},
		{
			name:      "zero quantity",
			mutate:    func(f *testForm) { f.Quantity = "0" },
			wantField: "quantity",
			wantMsg:   "quantity must be a positive whole number",
		},
	}

	require.NoError(t, Struct(valid))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)

			err := Struct(f)
			var fe *FieldError
			require.True(t, errors.As(err, &fe), "expected *FieldError, got %T", err)
			assert.Equal(t, tt.wantField, fe.Field)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, fe.Message)
			}
			assert.True(t, IsFieldError(err))
		})
	}
}

func TestParseMoney(t *testing.T) {
	d, err := ParseMoney("")
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(d))

	d, err = ParseMoney(" 12.34 ")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.34").Equal(d))

	_, err = ParseMoney("-0.01")
	require.Error(t, err)

	_, err = ParseMoney("1,5")
	require.Error(t, err)
}

func TestParsePositiveInt(t *testing.T) {
	n, err := ParsePositiveInt("7")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = ParsePositiveInt("-3")
	require.Error(t, err)

	_, err = ParsePositiveInt("2.5")
	require.Error(t, err)
}
