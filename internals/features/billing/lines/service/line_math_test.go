package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aduanet_backend/internals/constants"
)

var taxRate = decimal.RequireFromString("0.13")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineTotalsTaxed(t *testing.T) {
	got, err := LineTotals(2, d("50.00"), d("10"), constants.TaxTreatmentTaxed, taxRate)
	require.NoError(t, err)

	// 2 × 50 × 0.9 = 90.00; tax 11.70; total 101.70
	assert.True(t, got.Subtotal.Equal(d("90.00")), "subtotal=%s", got.Subtotal)
	assert.True(t, got.Tax.Equal(d("11.70")), "tax=%s", got.Tax)
	assert.True(t, got.Total.Equal(d("101.70")), "total=%s", got.Total)
}

func TestLineTotalsTaxZeroUnlessTaxed(t *testing.T) {
	for _, treatment := range []string{constants.TaxTreatmentNotSubject, constants.TaxTreatmentExempt} {
		got, err := LineTotals(1, d("100"), decimal.Zero, treatment, taxRate)
		require.NoError(t, err)
		assert.True(t, got.Tax.IsZero(), "treatment %s must yield zero tax", treatment)
		assert.True(t, got.Total.Equal(got.Subtotal))
	}
}

func TestLineTotalsInvariantTotalEqualsSubtotalPlusTax(t *testing.T) {
	cases := []struct {
		qty       int
		price     string
		discount  string
		treatment string
	}{
		{1, "0.01", "0", constants.TaxTreatmentTaxed},
		{3, "33.33", "15.5", constants.TaxTreatmentTaxed},
		{7, "19.99", "100", constants.TaxTreatmentTaxed},
		{2, "845.10", "2.75", constants.TaxTreatmentExempt},
		{100, "1.05", "33.33", constants.TaxTreatmentNotSubject},
	}
	for _, tc := range cases {
		got, err := LineTotals(tc.qty, d(tc.price), d(tc.discount), tc.treatment, taxRate)
		require.NoError(t, err)
		assert.True(t, got.Total.Equal(got.Subtotal.Add(got.Tax)),
			"qty=%d price=%s disc=%s: %s != %s + %s", tc.qty, tc.price, tc.discount, got.Total, got.Subtotal, got.Tax)
		assert.False(t, got.Subtotal.IsNegative())
		assert.False(t, got.Tax.IsNegative())
	}
}

func TestLineTotalsRounding(t *testing.T) {
	// 3 × 33.33 × (1 − 0.155) = 84.492... → 84.49
	got, err := LineTotals(3, d("33.33"), d("15.5"), constants.TaxTreatmentTaxed, taxRate)
	require.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(d("84.49")), "subtotal=%s", got.Subtotal)
	assert.Equal(t, int32(-2), got.Subtotal.Exponent())
}

func TestLineTotalsValidation(t *testing.T) {
	_, err := LineTotals(0, d("10"), decimal.Zero, constants.TaxTreatmentTaxed, taxRate)
	assert.Error(t, err)

	_, err = LineTotals(1, d("-1"), decimal.Zero, constants.TaxTreatmentTaxed, taxRate)
	assert.Error(t, err)

	_, err = LineTotals(1, d("10"), d("101"), constants.TaxTreatmentTaxed, taxRate)
	assert.Error(t, err)

	_, err = LineTotals(1, d("10"), decimal.Zero, "bogus", taxRate)
	assert.Error(t, err)
}

func TestBillbackTotals(t *testing.T) {
	// cost 200, markup 10% → base 220; tax 28.60; total 248.60
	got, err := BillbackTotals(d("200"), d("10"), constants.TaxTreatmentTaxed, taxRate)
	require.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(d("220.00")), "subtotal=%s", got.Subtotal)
	assert.True(t, got.Tax.Equal(d("28.60")), "tax=%s", got.Tax)
	assert.True(t, got.Total.Equal(d("248.60")), "total=%s", got.Total)
}

func TestBillbackTotalsZeroMarkupExempt(t *testing.T) {
	got, err := BillbackTotals(d("150.25"), decimal.Zero, constants.TaxTreatmentExempt, taxRate)
	require.NoError(t, err)
	assert.True(t, got.Subtotal.Equal(d("150.25")))
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.Equal(d("150.25")))
}

func TestBillbackTotalsValidation(t *testing.T) {
	_, err := BillbackTotals(d("-5"), decimal.Zero, constants.TaxTreatmentTaxed, taxRate)
	assert.Error(t, err)

	_, err = BillbackTotals(d("5"), d("-1"), constants.TaxTreatmentTaxed, taxRate)
	assert.Error(t, err)
}
