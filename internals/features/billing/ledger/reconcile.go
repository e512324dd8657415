package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ==============================================
   Ledger child → parent reconciliation.

   Every derived balance in the system is a resum
   over active (non-soft-deleted) child rows. The
   same routine serves all four pairs:
     transfer_payments → transfers
     invoice_payments  → invoices
     credit_notes      → invoices
     credit payments   → transfers (method tag)
============================================== */

// ChildSet names one child table feeding a parent's derived field.
type ChildSet struct {
	Table      string
	AmountCol  string
	ParentCol  string
	DeletedCol string
}

// SumActive returns the sum of active child amounts for one parent.
// Never trust a stored paid_amount: this is the source of truth.
func (cs ChildSet) SumActive(tx *gorm.DB, parentID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	q := fmt.Sprintf(
		`SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = ? AND %s IS NULL`,
		cs.AmountCol, cs.Table, cs.ParentCol, cs.DeletedCol,
	)
	if err := tx.Raw(q, parentID).Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// SumActiveWhere is SumActive with one extra equality filter, used to
// split provider credit notes from plain payments.
func (cs ChildSet) SumActiveWhere(tx *gorm.DB, parentID uuid.UUID, filterCol string, filterVal any) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	q := fmt.Sprintf(
		`SELECT COALESCE(SUM(%s), 0) FROM %s WHERE %s = ? AND %s IS NULL AND %s = ?`,
		cs.AmountCol, cs.Table, cs.ParentCol, cs.DeletedCol, filterCol,
	)
	if err := tx.Raw(q, parentID, filterVal).Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
