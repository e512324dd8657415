package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

/* ==============================
   Invoice status machine
============================== */

const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// DeriveInvoiceStatus applies the precedence
// cancelled → paid → partial → overdue → pending on every recompute.
// A partially paid invoice that is also late reads "partial", not
// "overdue": payment progress wins over lateness.
func DeriveInvoiceStatus(cancelled bool, balance, paid, credited decimal.Decimal, dueDate *time.Time, today time.Time) string {
	switch {
	case cancelled:
		return InvoiceStatusCancelled
	case balance.LessThanOrEqual(decimal.Zero):
		return InvoiceStatusPaid
	case paid.IsPositive() || credited.IsPositive():
		return InvoiceStatusPartial
	case dueDate != nil && dueDate.Before(truncateDay(today)):
		return InvoiceStatusOverdue
	default:
		return InvoiceStatusPending
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

/* ==============================
   Obligation (transfer) status
============================== */

const (
	TransferStatusPending  = "pending"
	TransferStatusApproved = "approved"
	TransferStatusPartial  = "partial"
	TransferStatusPaid     = "paid"
)

// DeriveTransferStatus follows paid_amount once money moves; with no
// active payments it rests on the approval flag, so deleting every
// payment returns an approved obligation to "approved", not "pending".
func DeriveTransferStatus(approved bool, amount, paid decimal.Decimal) string {
	balance := amount.Sub(paid)
	switch {
	case balance.LessThanOrEqual(decimal.Zero) && paid.IsPositive():
		return TransferStatusPaid
	case paid.IsPositive():
		return TransferStatusPartial
	case approved:
		return TransferStatusApproved
	default:
		return TransferStatusPending
	}
}
