package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

func TestFromDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want money.Amount
	}{
		{in: "250", want: 25000},
		{in: "0.005", want: 1},
		{in: "0.004", want: 0},
		{in: "12.345", want: 1235},
		{in: "-1.005", want: -101},
		{in: "0.1", want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, money.FromDecimal(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestInRange(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "0", want: true},
		{in: "10000000000000", want: true},
		{in: "10000000000000.004", want: true},
		{in: "10000000000000.005", want: false},
		{in: "50000000000000000000", want: false},
		{in: "-0.01", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, money.InRange(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "340.00", money.Amount(34000).String())
	assert.Equal(t, "0.05", money.Amount(5).String())
	assert.Equal(t, "-1.50", money.Amount(-150).String())
}

func TestAmount_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total money.Amount `json:"total"`
	}{Total: 9000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 90.00}`, string(b))
}

func TestParseLenient(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "Plain", in: "100", want: "100"},
		{name: "Fraction", in: " 99.5 ", want: "99.5"},
		{name: "Thousands", in: "1,234.50", want: "1234.5"},
		{name: "Rupee", in: "₹ 50", want: "50"},
		{name: "Rs", in: "Rs.75.25", want: "75.25"},
		{name: "Empty", in: "", want: "0"},
		{name: "Garbage", in: "abc", want: "0"},
		{name: "Negative", in: "-3", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.ParseLenient(tt.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}
