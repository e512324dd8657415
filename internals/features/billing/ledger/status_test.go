package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDeriveInvoiceStatusPrecedence(t *testing.T) {
	today := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	past := today.AddDate(0, 0, -5)
	future := today.AddDate(0, 0, 5)

	t.Run("cancelled is sticky over everything", func(t *testing.T) {
		got := DeriveInvoiceStatus(true, decimal.Zero, d("100"), decimal.Zero, &past, today)
		assert.Equal(t, InvoiceStatusCancelled, got)
	})

	t.Run("zero balance is paid even when overdue", func(t *testing.T) {
		got := DeriveInvoiceStatus(false, decimal.Zero, d("100"), decimal.Zero, &past, today)
		assert.Equal(t, InvoiceStatusPaid, got)
	})

	t.Run("partial wins over overdue", func(t *testing.T) {
		// due date in the past, balance open, partial payment recorded
		got := DeriveInvoiceStatus(false, d("60"), d("40"), decimal.Zero, &past, today)
		assert.Equal(t, InvoiceStatusPartial, got)
	})

	t.Run("credit note alone also means partial", func(t *testing.T) {
		got := DeriveInvoiceStatus(false, d("60"), decimal.Zero, d("40"), &past, today)
		assert.Equal(t, InvoiceStatusPartial, got)
	})

	t.Run("overdue when untouched and late", func(t *testing.T) {
		got := DeriveInvoiceStatus(false, d("100"), decimal.Zero, decimal.Zero, &past, today)
		assert.Equal(t, InvoiceStatusOverdue, got)
	})

	t.Run("pending otherwise", func(t *testing.T) {
		got := DeriveInvoiceStatus(false, d("100"), decimal.Zero, decimal.Zero, &future, today)
		assert.Equal(t, InvoiceStatusPending, got)

		got = DeriveInvoiceStatus(false, d("100"), decimal.Zero, decimal.Zero, nil, today)
		assert.Equal(t, InvoiceStatusPending, got)
	})

	t.Run("due today is not overdue", func(t *testing.T) {
		due := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		got := DeriveInvoiceStatus(false, d("100"), decimal.Zero, decimal.Zero, &due, today)
		assert.Equal(t, InvoiceStatusPending, got)
	})
}

func TestDeriveTransferStatus(t *testing.T) {
	amount := d("100")

	assert.Equal(t, TransferStatusPending, DeriveTransferStatus(false, amount, decimal.Zero))
	assert.Equal(t, TransferStatusApproved, DeriveTransferStatus(true, amount, decimal.Zero))
	assert.Equal(t, TransferStatusPartial, DeriveTransferStatus(true, amount, d("40")))
	assert.Equal(t, TransferStatusPaid, DeriveTransferStatus(true, amount, d("100")))
	assert.Equal(t, TransferStatusPaid, DeriveTransferStatus(false, amount, d("100")))

	// deleting every payment drops it back to its approval state
	assert.Equal(t, TransferStatusApproved, DeriveTransferStatus(true, amount, decimal.Zero))
	assert.Equal(t, TransferStatusPending, DeriveTransferStatus(false, amount, decimal.Zero))
}
