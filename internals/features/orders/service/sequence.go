package service

import (
	"fmt"

	"gorm.io/gorm"
)

/* ==============================================
   Document number sequences, scoped by year.

   The MAX+1 read is only safe while the caller
   holds the matching named lock (and the advisory
   lock inside the same transaction): the
   generator itself takes no locks.
============================================== */

const (
	orderSeqKeyFmt      = "order-seq:%d"
	preInvoiceSeqKeyFmt = "preinvoice-seq:%d"
)

func OrderSeqKey(year int) string      { return fmt.Sprintf(orderSeqKeyFmt, year) }
func PreInvoiceSeqKey(year int) string { return fmt.Sprintf(preInvoiceSeqKeyFmt, year) }

func FormatOrderNumber(ordinal, year int) string {
	return fmt.Sprintf("%03d-%d", ordinal, year)
}

func FormatPreInvoiceNumber(ordinal, year int) string {
	return fmt.Sprintf("PRE-%05d-%d", ordinal, year)
}

// NextOrderNumber allocates the next {NNN}-{year} order number. Soft
// deleted orders still count so a number is never handed out twice.
func NextOrderNumber(tx *gorm.DB, year int) (string, error) {
	var last int
	err := tx.Raw(`
		SELECT COALESCE(MAX(split_part(order_number, '-', 1)::int), 0)
		FROM orders
		WHERE order_number ~ ?
	`, fmt.Sprintf(`^[0-9]+-%d$`, year)).Scan(&last).Error
	if err != nil {
		return "", err
	}
	return FormatOrderNumber(last+1, year), nil
}

// NextPreInvoiceNumber allocates the next PRE-{NNNNN}-{year} number.
func NextPreInvoiceNumber(tx *gorm.DB, year int) (string, error) {
	var last int
	err := tx.Raw(`
		SELECT COALESCE(MAX(split_part(invoice_number, '-', 2)::int), 0)
		FROM invoices
		WHERE invoice_number ~ ?
	`, fmt.Sprintf(`^PRE-[0-9]+-%d$`, year)).Scan(&last).Error
	if err != nil {
		return "", err
	}
	return FormatPreInvoiceNumber(last+1, year), nil
}
