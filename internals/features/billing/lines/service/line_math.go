package service

import (
	"github.com/shopspring/decimal"

	"aduanet_backend/internals/constants"
	helper "aduanet_backend/internals/helpers"
)

/* ==============================================
   Monetary line engine: pure, no side effects.

   subtotal = qty × price × (1 − discount/100)   (2dp)
   tax      = subtotal × rate, only when taxed   (2dp)
   total    = subtotal + tax
============================================== */

var hundred = decimal.NewFromInt(100)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// LineTotals computes the money for a service charge line.
func LineTotals(qty int, unitPrice, discountPct decimal.Decimal, taxTreatment string, taxRate decimal.Decimal) (Totals, error) {
	if qty < 1 {
		return Totals{}, helper.ErrValidation("quantity must be >= 1")
	}
	if unitPrice.IsNegative() {
		return Totals{}, helper.ErrValidation("unit price must be >= 0")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(hundred) {
		return Totals{}, helper.ErrValidation("discount must be between 0 and 100")
	}
	if !constants.ValidTaxTreatment(taxTreatment) {
		return Totals{}, helper.ErrValidation("invalid tax treatment %q", taxTreatment)
	}

	factor := decimal.NewFromInt(1).Sub(discountPct.Div(hundred))
	subtotal := decimal.NewFromInt(int64(qty)).Mul(unitPrice).Mul(factor).Round(2)
	return derive(subtotal, taxTreatment, taxRate), nil
}

// BillbackTotals computes what the customer is charged for a
// reimbursable provider expense: cost plus markup, then the normal
// subtotal/tax/total derivation. The provider-side amount is untouched.
func BillbackTotals(cost, markupPct decimal.Decimal, taxTreatment string, taxRate decimal.Decimal) (Totals, error) {
	if cost.IsNegative() {
		return Totals{}, helper.ErrValidation("cost must be >= 0")
	}
	if markupPct.IsNegative() {
		return Totals{}, helper.ErrValidation("markup must be >= 0")
	}
	if !constants.ValidTaxTreatment(taxTreatment) {
		return Totals{}, helper.ErrValidation("invalid tax treatment %q", taxTreatment)
	}

	base := cost.Mul(decimal.NewFromInt(1).Add(markupPct.Div(hundred))).Round(2)
	return derive(base, taxTreatment, taxRate), nil
}

func derive(subtotal decimal.Decimal, taxTreatment string, taxRate decimal.Decimal) Totals {
	tax := decimal.Zero
	if taxTreatment == constants.TaxTreatmentTaxed {
		tax = subtotal.Mul(taxRate).Round(2)
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
