package constants

/* ==============================
   Shared billing enums
============================== */

// Tax treatment of a chargeable line or a billed-back expense.
const (
	TaxTreatmentTaxed      = "taxed"
	TaxTreatmentNotSubject = "not_subject"
	TaxTreatmentExempt     = "exempt"
)

func ValidTaxTreatment(s string) bool {
	switch s {
	case TaxTreatmentTaxed, TaxTreatmentNotSubject, TaxTreatmentExempt:
		return true
	}
	return false
}

// Payment methods. PaymentMethodCreditNote is the distinguishing tag for
// provider credit notes recorded through the payment channel.
const (
	PaymentMethodTransfer   = "transfer"
	PaymentMethodCheck      = "check"
	PaymentMethodCash       = "cash"
	PaymentMethodCreditNote = "credit_note"
)
