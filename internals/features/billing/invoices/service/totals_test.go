package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	model "aduanet_backend/internals/features/billing/invoices/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeInvoiceTotalsNoRetention(t *testing.T) {
	got := ComputeInvoiceTotals(ItemSums{
		ServiceSubtotal: d("100.00"),
		ServiceTax:      d("13.00"),
		ThirdParty:      d("50.00"),
	}, model.InvoiceTypeFinalConsumer, true, d("0.01"), decimal.Zero, decimal.Zero)

	// the client is flagged but a final-consumer document never withholds
	assert.True(t, got.Retention.IsZero())
	assert.True(t, got.TotalAmount.Equal(d("163.00")))
	assert.True(t, got.Balance.Equal(d("163.00")))
}

func TestComputeInvoiceTotalsRetention(t *testing.T) {
	got := ComputeInvoiceTotals(ItemSums{
		ServiceSubtotal: d("100.00"),
		ServiceTax:      d("13.00"),
		ThirdParty:      d("50.00"),
	}, model.InvoiceTypeTaxCredit, true, d("0.01"), decimal.Zero, decimal.Zero)

	// retention base excludes the tax: (100 + 50) × 0.01
	assert.True(t, got.Retention.Equal(d("1.50")), "retention = %s", got.Retention)
	assert.True(t, got.TotalAmount.Equal(d("163.00")))
	assert.True(t, got.Balance.Equal(d("161.50")))
}

func TestComputeInvoiceTotalsretentionNeedsClientFlag(t *testing.T) {
	got := ComputeInvoiceTotals(ItemSums{
		ServiceSubtotal: d("100.00"),
	}, model.InvoiceTypeTaxCredit, false, d("0.01"), decimal.Zero, decimal.Zero)

	assert.True(t, got.Retention.IsZero())
}

func TestComputeInvoiceTotalsBalanceFormula(t *testing.T) {
	got := ComputeInvoiceTotals(ItemSums{
		ServiceSubtotal: d("200.00"),
		ServiceTax:      d("26.00"),
	}, model.InvoiceTypeTaxCredit, true, d("0.01"), d("50.00"), d("10.00"))

	// balance = (total − retention) − paid − credited
	assert.True(t, got.Retention.Equal(d("2.00")))
	assert.True(t, got.TotalAmount.Equal(d("226.00")))
	assert.True(t, got.Balance.Equal(d("164.00")), "balance = %s", got.Balance)
}

func TestComputeInvoiceTotalsEmptyInvoice(t *testing.T) {
	got := ComputeInvoiceTotals(ItemSums{}, model.InvoiceTypeTaxCredit, true, d("0.01"), decimal.Zero, decimal.Zero)

	assert.True(t, got.TotalAmount.IsZero())
	assert.True(t, got.Retention.IsZero())
	assert.True(t, got.Balance.IsZero())
}

func TestComputeInvoiceTotalsRetentionRounds(t *testing.T) {
	got := ComputeInvoiceTotals(ItemSums{
		ServiceSubtotal: d("33.33"),
		ThirdParty:      d("33.34"),
	}, model.InvoiceTypeTaxCredit, true, d("0.01"), decimal.Zero, decimal.Zero)

	// 66.67 × 0.01 = 0.6667 → 0.67
	assert.True(t, got.Retention.Equal(d("0.67")), "retention = %s", got.Retention)
}
