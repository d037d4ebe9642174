package invoice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	"github.com/MrJamesThe3rd/backoffice/internal/money"
)

var defaultRates = invoice.TaxRates{CGST: dec("18"), SGST: dec("18")}

func TestAggregate(t *testing.T) {
	type args struct {
		lines []invoice.LineInput
	}

	type testCase struct {
		name    string
		args    args
		verify  func(t *testing.T, got *invoice.Totals)
		wantErr error
	}

	tests := []testCase{
		{
			name: "WorkedExample",
			args: args{lines: []invoice.LineInput{
				{ItemName: "Widget", Quantity: "2", UnitPrice: "100", CGSTRate: "18", SGSTRate: "18"},
				{ItemName: "Gadget", Quantity: "1", UnitPrice: "50", CGSTRate: "18", SGSTRate: "18"},
			}},
			verify: func(t *testing.T, got *invoice.Totals) {
				assert.Equal(t, money.Amount(25000), got.Subtotal)
				assert.Equal(t, money.Amount(4500), got.CGSTTotal)
				assert.Equal(t, money.Amount(4500), got.SGSTTotal)
				assert.Equal(t, money.Amount(9000), got.TotalTax)
				assert.Equal(t, money.Amount(34000), got.GrandTotal)
				assert.Len(t, got.Items, 2)
				assert.Empty(t, got.Skipped)
			},
		},
		{
			name: "DefaultRates",
			args: args{lines: []invoice.LineInput{
				{ItemName: "Widget", Quantity: "2", UnitPrice: "100"},
			}},
			verify: func(t *testing.T, got *invoice.Totals) {
				assert.True(t, got.Items[0].CGSTRate.Equal(dec("18")))
				assert.True(t, got.Items[0].SGSTRate.Equal(dec("18")))
				assert.Equal(t, money.Amount(27200), got.GrandTotal)
			},
		},
		{
			name: "PerItemRates",
			args: args{lines: []invoice.LineInput{
				{ItemName: "Books", Quantity: "1", UnitPrice: "100", CGSTRate: "0", SGSTRate: "0"},
				{ItemName: "Snacks", Quantity: "1", UnitPrice: "100", CGSTRate: "2.5", SGSTRate: "2.5"},
			}},
			verify: func(t *testing.T, got *invoice.Totals) {
				assert.Equal(t, money.Amount(20000), got.Subtotal)
				assert.Equal(t, money.Amount(500), got.TotalTax)
				assert.Equal(t, money.Amount(20500), got.GrandTotal)
			},
		},
		{
			name: "IneligibleRowsDropped",
			args: args{lines: []invoice.LineInput{
				{ItemName: "Zero qty", Quantity: "0", UnitPrice: "10"},
				{ItemName: "Widget", Quantity: "2", UnitPrice: "100"},
				{ItemName: "", Quantity: "1", UnitPrice: "10"},
				{ItemName: "Free", Quantity: "1", UnitPrice: "0"},
				{ItemName: "   ", Quantity: "1", UnitPrice: "10"},
				{ItemName: "Garbage", Quantity: "abc", UnitPrice: "xyz"},
			}},
			verify: func(t *testing.T, got *invoice.Totals) {
				require.Len(t, got.Items, 1)
				assert.Equal(t, "Widget", got.Items[0].ItemName)
				assert.Equal(t, 1, got.Items[0].Position)
				assert.Equal(t, []int{0, 2, 3, 4, 5}, got.Skipped)
				assert.Equal(t, money.Amount(27200), got.GrandTotal)
			},
		},
		{
			name: "PositionsFollowEligibleOrder",
			args: args{lines: []invoice.LineInput{
				{ItemName: "A", Quantity: "1", UnitPrice: "1"},
				{ItemName: "skip", Quantity: "", UnitPrice: "1"},
				{ItemName: "B", Quantity: "1", UnitPrice: "1"},
			}},
			verify: func(t *testing.T, got *invoice.Totals) {
				require.Len(t, got.Items, 2)
				assert.Equal(t, "B", got.Items[1].ItemName)
				assert.Equal(t, 2, got.Items[1].Position)
			},
		},
		{
			name: "OnlyZeroQuantity",
			args: args{lines: []invoice.LineInput{
				{ItemName: "Widget", Quantity: "0", UnitPrice: "100", CGSTRate: "18", SGSTRate: "18"},
			}},
			wantErr: invoice.ErrEmptyInvoice,
		},
		{
			name:    "NoRows",
			args:    args{lines: nil},
			wantErr: invoice.ErrEmptyInvoice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := invoice.Aggregate(tt.args.lines, defaultRates)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

func TestAggregate_InvalidEligibleRow(t *testing.T) {
	lines := []invoice.LineInput{
		{ItemName: "Widget", Quantity: "1", UnitPrice: "10"},
		{ItemName: "Bad rate", Quantity: "1", UnitPrice: "10", CGSTRate: "120", SGSTRate: "x"},
		{ItemName: "Too many", Quantity: "5000000", UnitPrice: "1"},
	}

	got, err := invoice.Aggregate(lines, defaultRates)
	require.Error(t, err)
	assert.Nil(t, got)

	var verr *invoice.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}

	assert.ElementsMatch(t, []string{"items[1].cgst_rate", "items[1].sgst_rate", "items[2].quantity"}, fields)
}

func TestAggregate_TotalsInvariant(t *testing.T) {
	lines := []invoice.LineInput{
		{ItemName: "A", Quantity: "3", UnitPrice: "33.33"},
		{ItemName: "B", Quantity: "7", UnitPrice: "0.15"},
		{ItemName: "C", Quantity: "1", UnitPrice: "1,299.99", CGSTRate: "6", SGSTRate: "6"},
		{ItemName: "D", Quantity: "12", UnitPrice: "₹ 4.44", CGSTRate: "14", SGSTRate: "14"},
		{ItemName: "E", Quantity: "0", UnitPrice: "10"},
	}

	got, err := invoice.Aggregate(lines, defaultRates)
	require.NoError(t, err)
	require.Len(t, got.Items, 4)

	var sumLines, sumSubtotal, sumTax money.Amount
	for _, item := range got.Items {
		assert.Equal(t, item.Subtotal+item.CGSTAmount+item.SGSTAmount, item.LineTotal)
		sumLines += item.LineTotal
		sumSubtotal += item.Subtotal
		sumTax += item.TaxAmount
	}

	assert.Equal(t, sumLines, got.GrandTotal)
	assert.Equal(t, got.Subtotal+got.TotalTax, got.GrandTotal)
	assert.Equal(t, sumSubtotal, got.Subtotal)
	assert.Equal(t, sumTax, got.TotalTax)
	assert.Equal(t, got.CGSTTotal+got.SGSTTotal, got.TotalTax)

	assert.Equal(t, money.Amount(9999), got.Items[0].Subtotal)
	assert.Equal(t, money.Amount(13599), got.Items[0].LineTotal)
	assert.Equal(t, money.Amount(143), got.Items[1].LineTotal)
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()

	var verr *invoice.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}

	return fields
}

func TestAggregate_AmountBounds(t *testing.T) {
	type testCase struct {
		name       string
		lines      []invoice.LineInput
		wantFields []string
	}

	tests := []testCase{
		{
			name:       "UnitPriceTooLarge",
			lines:      []invoice.LineInput{{ItemName: "A", Quantity: "1000000", UnitPrice: "50000000000000"}},
			wantFields: []string{"items[0].unit_price"},
		},
		{
			name:       "LineTotalTooLarge",
			lines:      []invoice.LineInput{{ItemName: "A", Quantity: "1000000", UnitPrice: "10000000"}},
			wantFields: []string{"items[0].unit_price"},
		},
		{
			name: "GrandTotalTooLarge",
			lines: []invoice.LineInput{
				{ItemName: "A", Quantity: "1000000", UnitPrice: "5000000"},
				{ItemName: "B", Quantity: "1000000", UnitPrice: "5000000"},
			},
			wantFields: []string{"items"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := invoice.Aggregate(tt.lines, defaultRates)
			assert.Nil(t, got)
			assert.ElementsMatch(t, tt.wantFields, fieldNames(t, err))
		})
	}

	t.Run("AtLimit", func(t *testing.T) {
		got, err := invoice.Aggregate([]invoice.LineInput{
			{ItemName: "A", Quantity: "1000000", UnitPrice: "5000000"},
		}, defaultRates)
		require.NoError(t, err)
		assert.Equal(t, money.Amount(680_000_000_000_000), got.GrandTotal)
		assert.Positive(t, int64(got.GrandTotal))
	})
}

func TestAggregate_RatePrecision(t *testing.T) {
	got, err := invoice.Aggregate([]invoice.LineInput{
		{ItemName: "Diamond", Quantity: "1", UnitPrice: "1000", CGSTRate: "0.125", SGSTRate: "0.125"},
	}, defaultRates)
	require.NoError(t, err)
	assert.True(t, dec("0.125").Equal(got.Items[0].CGSTRate))
	assert.Equal(t, money.Amount(125), got.Items[0].CGSTAmount)

	_, err = invoice.Aggregate([]invoice.LineInput{
		{ItemName: "A", Quantity: "1", UnitPrice: "1000", CGSTRate: "18.12345", SGSTRate: "18"},
	}, defaultRates)
	assert.Equal(t, []string{"items[0].cgst_rate"}, fieldNames(t, err))
}

func TestAggregate_CategoryTooLong(t *testing.T) {
	_, err := invoice.Aggregate([]invoice.LineInput{
		{ItemName: "A", Category: strings.Repeat("c", 101), Quantity: "1", UnitPrice: "10"},
	}, defaultRates)
	assert.Equal(t, []string{"items[0].category"}, fieldNames(t, err))

	got, err := invoice.Aggregate([]invoice.LineInput{
		{ItemName: "A", Category: strings.Repeat("ç", 100), Quantity: "1", UnitPrice: "10"},
	}, defaultRates)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestAggregate_ZeroDefaultRates(t *testing.T) {
	got, err := invoice.Aggregate([]invoice.LineInput{
		{ItemName: "Exempt", Quantity: "1", UnitPrice: "100"},
	}, invoice.TaxRates{})
	require.NoError(t, err)
	assert.Equal(t, money.Amount(0), got.TotalTax)
	assert.Equal(t, money.Amount(10000), got.GrandTotal)
}
