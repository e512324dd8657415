package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aduanet_backend/internals/configs"
	"aduanet_backend/internals/constants"
	model "aduanet_backend/internals/features/billing/invoices/model"
	lineModel "aduanet_backend/internals/features/billing/lines/model"
	lineSvc "aduanet_backend/internals/features/billing/lines/service"
	transferModel "aduanet_backend/internals/features/billing/transfers/model"
	helper "aduanet_backend/internals/helpers"
	"aduanet_backend/internals/locks"
)

/* ==============================================
   Billing linker: the bridge between an order's
   pool of billable items and the invoices that
   claim them. Attach/detach live on the
   receivable service; this file adds the listing
   and the in-place edit of an attached item.
============================================== */

// BillableItem is the linker's uniform view over charge lines and
// billed-back expenses.
type BillableItem struct {
	ItemType    string          `json:"item_type"` // charge | expense
	ItemID      uuid.UUID       `json:"item_id"`
	Description string          `json:"description"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	InvoiceID   *uuid.UUID      `json:"invoice_id,omitempty"`
	Editable    bool            `json:"editable"`
}

// ListBillableItems returns the order's unattached charge lines plus
// its unattached billable obligations, each priced the way an invoice
// would bill it.
func (s *ReceivableService) ListBillableItems(ctx context.Context, orderID uuid.UUID) ([]BillableItem, error) {
	items := []BillableItem{}

	var lines []lineModel.ChargeLine
	if err := s.DB.WithContext(ctx).
		Where("charge_line_order_id = ? AND charge_line_invoice_id IS NULL", orderID).
		Order("charge_line_created_at asc").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	for _, l := range lines {
		items = append(items, BillableItem{
			ItemType:    ItemTypeCharge,
			ItemID:      l.ChargeLineID,
			Description: l.ChargeLineDescription,
			Subtotal:    l.ChargeLineSubtotal,
			Tax:         l.ChargeLineTax,
			Total:       l.ChargeLineTotal,
			Editable:    true,
		})
	}

	taxRate := configs.TaxRate()
	var expenses []transferModel.Transfer
	if err := s.DB.WithContext(ctx).
		Where("transfer_order_id = ? AND transfer_invoice_id IS NULL", orderID).
		Order("transfer_transaction_date asc, transfer_id asc").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	for _, e := range expenses {
		t, err := lineSvc.BillbackTotals(e.TransferAmount, e.TransferMarkupPct, e.TransferTaxTreatment, taxRate)
		if err != nil {
			return nil, err
		}
		items = append(items, BillableItem{
			ItemType:    ItemTypeExpense,
			ItemID:      e.TransferID,
			Description: e.TransferDescription,
			Subtotal:    t.Subtotal,
			Tax:         t.Tax,
			Total:       t.Total,
			Editable:    true,
		})
	}
	return items, nil
}

// ListInvoiceItems shows what one invoice has claimed. Editability
// flips off the moment the DTE is issued.
func (s *ReceivableService) ListInvoiceItems(ctx context.Context, invoiceID uuid.UUID) ([]BillableItem, error) {
	var inv model.Invoice
	if err := s.DB.WithContext(ctx).First(&inv, "invoice_id = ?", invoiceID).Error; err != nil {
		return nil, helper.NotFoundAs(err, "invoice")
	}
	editable := !inv.InvoiceIsDteIssued

	items := []BillableItem{}

	var lines []lineModel.ChargeLine
	if err := s.DB.WithContext(ctx).
		Where("charge_line_invoice_id = ?", invoiceID).
		Order("charge_line_created_at asc").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	for _, l := range lines {
		items = append(items, BillableItem{
			ItemType:    ItemTypeCharge,
			ItemID:      l.ChargeLineID,
			Description: l.ChargeLineDescription,
			Subtotal:    l.ChargeLineSubtotal,
			Tax:         l.ChargeLineTax,
			Total:       l.ChargeLineTotal,
			InvoiceID:   &inv.InvoiceID,
			Editable:    editable,
		})
	}

	taxRate := configs.TaxRate()
	var expenses []transferModel.Transfer
	if err := s.DB.WithContext(ctx).
		Where("transfer_invoice_id = ?", invoiceID).
		Order("transfer_transaction_date asc, transfer_id asc").
		Find(&expenses).Error; err != nil {
		return nil, err
	}
	for _, e := range expenses {
		t, err := lineSvc.BillbackTotals(e.TransferAmount, e.TransferMarkupPct, e.TransferTaxTreatment, taxRate)
		if err != nil {
			return nil, err
		}
		items = append(items, BillableItem{
			ItemType:    ItemTypeExpense,
			ItemID:      e.TransferID,
			Description: e.TransferDescription,
			Subtotal:    t.Subtotal,
			Tax:         t.Tax,
			Total:       t.Total,
			InvoiceID:   &inv.InvoiceID,
			Editable:    editable,
		})
	}
	return items, nil
}

// LineEdit carries the fields an attached charge line may change.
type LineEdit struct {
	Description  *string
	Quantity     *int
	UnitPrice    *decimal.Decimal
	DiscountPct  *decimal.Decimal
	TaxTreatment *string
}

// ExpenseEdit changes only the customer-facing billback knobs. The
// provider cost never moves here.
type ExpenseEdit struct {
	MarkupPct    *decimal.Decimal
	TaxTreatment *string
}

// EditAttachedLine reprices a charge line that already belongs to an
// invoice, then recomputes the invoice. Rejected once the DTE exists.
func (s *ReceivableService) EditAttachedLine(ctx context.Context, actorID, invoiceID, lineID uuid.UUID, in LineEdit) (*model.Invoice, error) {
	return s.editAttached(ctx, actorID, invoiceID, func(tx *gorm.DB) error {
		var l lineModel.ChargeLine
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&l, "charge_line_id = ? AND charge_line_invoice_id = ?", lineID, invoiceID).Error; err != nil {
			return helper.NotFoundAs(err, "charge line on this invoice")
		}

		if in.Description != nil {
			l.ChargeLineDescription = *in.Description
		}
		if in.Quantity != nil {
			l.ChargeLineQuantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			l.ChargeLineUnitPrice = *in.UnitPrice
		}
		if in.DiscountPct != nil {
			l.ChargeLineDiscountPct = *in.DiscountPct
		}
		if in.TaxTreatment != nil {
			if !constants.ValidTaxTreatment(*in.TaxTreatment) {
				return helper.ErrValidation("invalid tax treatment %q", *in.TaxTreatment)
			}
			l.ChargeLineTaxTreatment = *in.TaxTreatment
		}

		t, err := lineSvc.LineTotals(l.ChargeLineQuantity, l.ChargeLineUnitPrice,
			l.ChargeLineDiscountPct, l.ChargeLineTaxTreatment, configs.TaxRate())
		if err != nil {
			return err
		}
		l.ChargeLineSubtotal = t.Subtotal
		l.ChargeLineTax = t.Tax
		l.ChargeLineTotal = t.Total
		return tx.Save(&l).Error
	})
}

// EditAttachedExpense adjusts the billback of an attached obligation.
func (s *ReceivableService) EditAttachedExpense(ctx context.Context, actorID, invoiceID, transferID uuid.UUID, in ExpenseEdit) (*model.Invoice, error) {
	return s.editAttached(ctx, actorID, invoiceID, func(tx *gorm.DB) error {
		var e transferModel.Transfer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&e, "transfer_id = ? AND transfer_invoice_id = ?", transferID, invoiceID).Error; err != nil {
			return helper.NotFoundAs(err, "expense on this invoice")
		}

		if in.MarkupPct != nil {
			if in.MarkupPct.IsNegative() {
				return helper.ErrValidation("markup must be >= 0")
			}
			e.TransferMarkupPct = *in.MarkupPct
		}
		if in.TaxTreatment != nil {
			if !constants.ValidTaxTreatment(*in.TaxTreatment) {
				return helper.ErrValidation("invalid tax treatment %q", *in.TaxTreatment)
			}
			e.TransferTaxTreatment = *in.TaxTreatment
		}
		return tx.Save(&e).Error
	})
}

func (s *ReceivableService) editAttached(ctx context.Context, actorID, invoiceID uuid.UUID, mutate func(tx *gorm.DB) error) (*model.Invoice, error) {
	var m model.Invoice
	if err := s.DB.WithContext(ctx).First(&m, "invoice_id = ?", invoiceID).Error; err != nil {
		return nil, helper.NotFoundAs(err, "invoice")
	}

	release, err := s.Guard.Acquire(ctx, invoiceOrderKey(m.InvoiceOrderID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, invoiceOrderKey(m.InvoiceOrderID)); err != nil {
			return helper.ErrBusy()
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "invoice_id = ?", invoiceID).Error; err != nil {
			return helper.NotFoundAs(err, "invoice")
		}
		if m.InvoiceIsDteIssued {
			return helper.ErrIntegrity("invoice %s is fiscally issued, items are frozen", m.InvoiceNumber)
		}
		if err := mutate(tx); err != nil {
			return err
		}
		if err := s.recompute(tx, &m); err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "invoice.edit_item", "invoice", m.InvoiceID, nil)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}
