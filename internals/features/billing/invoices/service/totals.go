package service

import (
	"github.com/shopspring/decimal"

	model "aduanet_backend/internals/features/billing/invoices/model"
)

/* ==============================================
   Invoice aggregate math, kept pure.

   services side  : Σ line subtotal, Σ line tax
   third party    : Σ billable total of attached
                    expenses (cost + markup + tax)
   total          = services subtotal + services tax
                    + third party
   retention      = (services subtotal + third party)
                    × rate, only when the client is a
                    retention subject AND the document
                    class withholds
   balance        = (total − retention) − paid − credited
============================================== */

type ItemSums struct {
	ServiceSubtotal decimal.Decimal
	ServiceTax      decimal.Decimal
	ThirdParty      decimal.Decimal
}

type InvoiceTotals struct {
	SubtotalServices   decimal.Decimal
	TaxServices        decimal.Decimal
	SubtotalThirdParty decimal.Decimal
	Retention          decimal.Decimal
	TotalAmount        decimal.Decimal
	Balance            decimal.Decimal
}

func ComputeInvoiceTotals(items ItemSums, invType model.InvoiceType, clientRetained bool, retentionRate, paid, credited decimal.Decimal) InvoiceTotals {
	t := InvoiceTotals{
		SubtotalServices:   items.ServiceSubtotal,
		TaxServices:        items.ServiceTax,
		SubtotalThirdParty: items.ThirdParty,
	}
	if clientRetained && invType.RequiresRetention() {
		base := items.ServiceSubtotal.Add(items.ThirdParty)
		t.Retention = base.Mul(retentionRate).Round(2)
	}
	t.TotalAmount = items.ServiceSubtotal.Add(items.ServiceTax).Add(items.ThirdParty)
	t.Balance = t.TotalAmount.Sub(t.Retention).Sub(paid).Sub(credited)
	return t
}
