package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aduanet_backend/internals/configs"
	auditSvc "aduanet_backend/internals/features/audit/service"
	model "aduanet_backend/internals/features/billing/invoices/model"
	"aduanet_backend/internals/features/billing/ledger"
	lineModel "aduanet_backend/internals/features/billing/lines/model"
	lineSvc "aduanet_backend/internals/features/billing/lines/service"
	transferModel "aduanet_backend/internals/features/billing/transfers/model"
	catalogModel "aduanet_backend/internals/features/catalog/model"
	orderModel "aduanet_backend/internals/features/orders/model"
	orderSvc "aduanet_backend/internals/features/orders/service"
	helper "aduanet_backend/internals/helpers"
	"aduanet_backend/internals/locks"
)

var (
	invoicePayments = ledger.ChildSet{
		Table:      "invoice_payments",
		AmountCol:  "invoice_payment_amount",
		ParentCol:  "invoice_payment_invoice_id",
		DeletedCol: "invoice_payment_deleted_at",
	}
	creditNotes = ledger.ChildSet{
		Table:      "credit_notes",
		AmountCol:  "credit_note_amount",
		ParentCol:  "credit_note_invoice_id",
		DeletedCol: "credit_note_deleted_at",
	}
)

type ReceivableService struct {
	DB       *gorm.DB
	Guard    locks.Guard
	Audit    *auditSvc.Recorder
	Notifier auditSvc.Notifier
}

// lock keys: invoice creation and attachment serialize per order,
// money movement serializes per invoice
func invoiceOrderKey(orderID uuid.UUID) string { return "invoice:" + orderID.String() }
func invoiceKey(id uuid.UUID) string           { return "payment:" + id.String() }

/* ==============================
   Invoice lifecycle
============================== */

type InvoiceInput struct {
	OrderID     uuid.UUID
	Number      *string
	Type        model.InvoiceType
	IssueDate   *time.Time
	DueDate     *time.Time
	Notes       *string
	ChargeIDs   []uuid.UUID
	TransferIDs []uuid.UUID
}

// CreateInvoice builds a pre-invoice in one serialized transaction
// under the order's lock, adding the per-year sequence lock when the
// number is auto-allocated.
func (s *ReceivableService) CreateInvoice(ctx context.Context, actorID uuid.UUID, in InvoiceInput) (*model.Invoice, error) {
	if in.Type == "" {
		in.Type = model.InvoiceTypeFinalConsumer
	}
	if !in.Type.Valid() {
		return nil, helper.ErrValidation("invalid invoice type %q", in.Type)
	}

	issueDate := time.Now()
	if in.IssueDate != nil {
		issueDate = *in.IssueDate
	}
	allocate := in.Number == nil || *in.Number == ""

	release, err := s.Guard.Acquire(ctx, invoiceOrderKey(in.OrderID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	// The MAX+1 scan in NextPreInvoiceNumber is global per year, so the
	// order lock alone does not serialize it. Always order lock first,
	// then sequence lock.
	if allocate {
		seqRelease, err := s.Guard.Acquire(ctx, orderSvc.PreInvoiceSeqKey(issueDate.Year()))
		if err != nil {
			return nil, helper.ErrBusy()
		}
		defer seqRelease()
	}

	var m model.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, invoiceOrderKey(in.OrderID)); err != nil {
			return helper.ErrBusy()
		}
		if allocate {
			if err := locks.AdvisoryXactLock(tx, orderSvc.PreInvoiceSeqKey(issueDate.Year())); err != nil {
				return helper.ErrBusy()
			}
		}

		var ord orderModel.Order
		if err := tx.First(&ord, "order_id = ?", in.OrderID).Error; err != nil {
			return helper.NotFoundAs(err, "order")
		}

		number := ""
		if allocate {
			n, err := orderSvc.NextPreInvoiceNumber(tx, issueDate.Year())
			if err != nil {
				return err
			}
			number = n
		} else {
			number = *in.Number
		}

		m = model.Invoice{
			InvoiceOrderID:   ord.OrderID,
			InvoiceClientID:  ord.OrderClientID,
			InvoiceNumber:    number,
			InvoiceType:      in.Type,
			InvoiceIssueDate: issueDate,
			InvoiceDueDate:   in.DueDate,
			InvoiceNotes:     in.Notes,
			InvoiceStatus:    ledger.InvoiceStatusPending,
		}
		if err := tx.Create(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.ErrIntegrity("invoice number %s already allocated", number)
			}
			return err
		}

		if _, err := s.claimItems(tx, &m, in.ChargeIDs, in.TransferIDs); err != nil {
			return err
		}
		if err := s.recompute(tx, &m); err != nil {
			return err
		}

		return s.Audit.Record(tx, actorID, "invoice.create", "invoice", m.InvoiceID, map[string]any{
			"invoice_number": m.InvoiceNumber,
			"order_id":       m.InvoiceOrderID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(auditSvc.Event{Name: "invoice.created", Entity: "invoice", EntityID: m.InvoiceID})
	return &m, nil
}

// AttachItems claims unowned lines and billable obligations for the
// invoice. Ids already owned by another invoice are skipped rather than
// errored so a stale UI retry converges instead of failing.
func (s *ReceivableService) AttachItems(ctx context.Context, actorID, invoiceID uuid.UUID, chargeIDs, transferIDs []uuid.UUID) (*model.Invoice, error) {
	if len(chargeIDs) == 0 && len(transferIDs) == 0 {
		return nil, helper.ErrValidation("nothing to attach")
	}

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

		claimed, err := s.claimItems(tx, &m, chargeIDs, transferIDs)
		if err != nil {
			return err
		}
		if err := s.recompute(tx, &m); err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "invoice.attach_items", "invoice", m.InvoiceID, map[string]any{
			"claimed": claimed,
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// claimItems reassigns ownership only where no invoice holds the item
// yet. The WHERE ... IS NULL guard is what makes the claim idempotent
// under concurrency.
func (s *ReceivableService) claimItems(tx *gorm.DB, m *model.Invoice, chargeIDs, transferIDs []uuid.UUID) (int64, error) {
	var claimed int64
	if len(chargeIDs) > 0 {
		res := tx.Model(&lineModel.ChargeLine{}).
			Where("charge_line_id IN ? AND charge_line_order_id = ? AND charge_line_invoice_id IS NULL",
				chargeIDs, m.InvoiceOrderID).
			Update("charge_line_invoice_id", m.InvoiceID)
		if res.Error != nil {
			return 0, res.Error
		}
		claimed += res.RowsAffected
	}
	if len(transferIDs) > 0 {
		res := tx.Model(&transferModel.Transfer{}).
			Where("transfer_id IN ? AND transfer_order_id = ? AND transfer_invoice_id IS NULL",
				transferIDs, m.InvoiceOrderID).
			Update("transfer_invoice_id", m.InvoiceID)
		if res.Error != nil {
			return 0, res.Error
		}
		claimed += res.RowsAffected
	}
	return claimed, nil
}

/* ==============================
   Item removal & detachment
============================== */

const (
	ItemTypeCharge  = "charge"
	ItemTypeExpense = "expense"
)

// RemoveItem detaches one item back to "available on the order". A
// pre-invoice emptied of its last item deletes itself; issued invoices
// never shed items.
func (s *ReceivableService) RemoveItem(ctx context.Context, actorID, invoiceID uuid.UUID, itemType string, itemID uuid.UUID) (invoiceDeleted bool, err error) {
	var m model.Invoice
	if err := s.DB.WithContext(ctx).First(&m, "invoice_id = ?", invoiceID).Error; err != nil {
		return false, helper.NotFoundAs(err, "invoice")
	}

	release, err := s.Guard.Acquire(ctx, invoiceOrderKey(m.InvoiceOrderID))
	if err != nil {
		return false, helper.ErrBusy()
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

		switch itemType {
		case ItemTypeCharge:
			res := tx.Model(&lineModel.ChargeLine{}).
				Where("charge_line_id = ? AND charge_line_invoice_id = ?", itemID, m.InvoiceID).
				Update("charge_line_invoice_id", nil)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return helper.ErrNotFound("charge line on this invoice")
			}
		case ItemTypeExpense:
			res := tx.Model(&transferModel.Transfer{}).
				Where("transfer_id = ? AND transfer_invoice_id = ?", itemID, m.InvoiceID).
				Update("transfer_invoice_id", nil)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return helper.ErrNotFound("expense on this invoice")
			}
		default:
			return helper.ErrValidation("invalid item type %q", itemType)
		}

		remaining, err := s.attachedCount(tx, m.InvoiceID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			// a pre-invoice is an ephemeral container, not a record
			invoiceDeleted = true
			if err := tx.Delete(&m).Error; err != nil {
				return err
			}
			return s.Audit.Record(tx, actorID, "invoice.self_delete", "invoice", m.InvoiceID, map[string]any{
				"invoice_number": m.InvoiceNumber,
			})
		}

		if err := s.recompute(tx, &m); err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "invoice.remove_item", "invoice", m.InvoiceID, map[string]any{
			"item_type": itemType,
			"item_id":   itemID,
		})
	})
	return invoiceDeleted, err
}

func (s *ReceivableService) attachedCount(tx *gorm.DB, invoiceID uuid.UUID) (int64, error) {
	var lines, expenses int64
	if err := tx.Model(&lineModel.ChargeLine{}).
		Where("charge_line_invoice_id = ?", invoiceID).Count(&lines).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&transferModel.Transfer{}).
		Where("transfer_invoice_id = ?", invoiceID).Count(&expenses).Error; err != nil {
		return 0, err
	}
	return lines + expenses, nil
}

/* ==============================
   Payments & credit notes
============================== */

type ReceiptInput struct {
	Amount    decimal.Decimal
	Date      *time.Time
	Method    string
	BankID    *uuid.UUID
	Reference *string
	Notes     *string
}

func (s *ReceivableService) RecordPayment(ctx context.Context, actorID, invoiceID uuid.UUID, in ReceiptInput) (*model.Invoice, error) {
	if !in.Amount.IsPositive() {
		return nil, helper.ErrValidation("amount must be > 0")
	}

	release, err := s.Guard.Acquire(ctx, invoiceKey(invoiceID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	var m model.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, invoiceKey(invoiceID)); err != nil {
			return helper.ErrBusy()
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "invoice_id = ?", invoiceID).Error; err != nil {
			return helper.NotFoundAs(err, "invoice")
		}
		if m.InvoiceIsCancelled {
			return helper.ErrIntegrity("invoice %s is cancelled", m.InvoiceNumber)
		}
		if in.Amount.GreaterThan(m.InvoiceBalance) {
			return helper.ErrValidation("amount exceeds pending balance of $%s", m.InvoiceBalance.StringFixed(2))
		}

		date := time.Now()
		if in.Date != nil {
			date = *in.Date
		}
		p := model.InvoicePayment{
			InvoicePaymentInvoiceID: m.InvoiceID,
			InvoicePaymentAmount:    in.Amount,
			InvoicePaymentDate:      date,
			InvoicePaymentMethod:    in.Method,
			InvoicePaymentBankID:    in.BankID,
			InvoicePaymentReference: helper.StrPtrOrNil(in.Reference),
			InvoicePaymentNotes:     in.Notes,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		if err := s.recompute(tx, &m); err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "invoice.payment", "invoice", m.InvoiceID, map[string]any{
			"amount": in.Amount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(auditSvc.Event{Name: "invoice.payment_recorded", Entity: "invoice", EntityID: m.InvoiceID})
	return &m, nil
}

type CreditNoteInput struct {
	Amount    decimal.Decimal
	Date      *time.Time
	Reason    *string
	DteNumber *string
}

// AddCreditNote is the one balance instrument that survives DTE
// issuance.
func (s *ReceivableService) AddCreditNote(ctx context.Context, actorID, invoiceID uuid.UUID, in CreditNoteInput) (*model.Invoice, error) {
	if !in.Amount.IsPositive() {
		return nil, helper.ErrValidation("amount must be > 0")
	}

	release, err := s.Guard.Acquire(ctx, invoiceKey(invoiceID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	var m model.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, invoiceKey(invoiceID)); err != nil {
			return helper.ErrBusy()
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "invoice_id = ?", invoiceID).Error; err != nil {
			return helper.NotFoundAs(err, "invoice")
		}
		if m.InvoiceIsCancelled {
			return helper.ErrIntegrity("invoice %s is cancelled", m.InvoiceNumber)
		}
		if in.Amount.GreaterThan(m.InvoiceBalance) {
			return helper.ErrValidation("amount exceeds pending balance of $%s", m.InvoiceBalance.StringFixed(2))
		}

		date := time.Now()
		if in.Date != nil {
			date = *in.Date
		}
		cn := model.CreditNote{
			CreditNoteInvoiceID: m.InvoiceID,
			CreditNoteAmount:    in.Amount,
			CreditNoteDate:      date,
			CreditNoteReason:    helper.StrPtrOrNil(in.Reason),
			CreditNoteDteNumber: helper.StrPtrOrNil(in.DteNumber),
		}
		if err := tx.Create(&cn).Error; err != nil {
			return err
		}

		if err := s.recompute(tx, &m); err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "invoice.credit_note", "invoice", m.InvoiceID, map[string]any{
			"amount": in.Amount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(auditSvc.Event{Name: "invoice.credit_note_applied", Entity: "invoice", EntityID: m.InvoiceID})
	return &m, nil
}

// DeletePayment soft-deletes a receipt and resums the invoice.
func (s *ReceivableService) DeletePayment(ctx context.Context, actorID, paymentID uuid.UUID) (*model.Invoice, error) {
	var p model.InvoicePayment
	if err := s.DB.WithContext(ctx).First(&p, "invoice_payment_id = ?", paymentID).Error; err != nil {
		return nil, helper.NotFoundAs(err, "payment")
	}
	return s.reverseChild(ctx, actorID, p.InvoicePaymentInvoiceID, "invoice.payment_delete", func(tx *gorm.DB) error {
		return tx.Delete(&p).Error
	})
}

// DeleteCreditNote reverses a credit, legal even post-DTE since it only
// restores balance the credit had removed.
func (s *ReceivableService) DeleteCreditNote(ctx context.Context, actorID, creditNoteID uuid.UUID) (*model.Invoice, error) {
	var cn model.CreditNote
	if err := s.DB.WithContext(ctx).First(&cn, "credit_note_id = ?", creditNoteID).Error; err != nil {
		return nil, helper.NotFoundAs(err, "credit note")
	}
	return s.reverseChild(ctx, actorID, cn.CreditNoteInvoiceID, "invoice.credit_note_delete", func(tx *gorm.DB) error {
		return tx.Delete(&cn).Error
	})
}

func (s *ReceivableService) reverseChild(ctx context.Context, actorID, invoiceID uuid.UUID, action string, del func(tx *gorm.DB) error) (*model.Invoice, error) {
	release, err := s.Guard.Acquire(ctx, invoiceKey(invoiceID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	var m model.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, invoiceKey(invoiceID)); err != nil {
			return helper.ErrBusy()
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "invoice_id = ?", invoiceID).Error; err != nil {
			return helper.NotFoundAs(err, "invoice")
		}
		if err := del(tx); err != nil {
			return err
		}
		if err := s.recompute(tx, &m); err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, action, "invoice", m.InvoiceID, nil)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

/* ==============================
   Issuance & cancellation
============================== */

// MarkDteIssued freezes the fiscal identity of the invoice. One final
// recompute runs first so the frozen totals are exact.
func (s *ReceivableService) MarkDteIssued(ctx context.Context, actorID, invoiceID uuid.UUID, dteNumber string, meta map[string]any) (*model.Invoice, error) {
	if dteNumber == "" {
		return nil, helper.ErrValidation("dte number is required")
	}

	release, err := s.Guard.Acquire(ctx, invoiceKey(invoiceID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	var m model.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, invoiceKey(invoiceID)); err != nil {
			return helper.ErrBusy()
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "invoice_id = ?", invoiceID).Error; err != nil {
			return helper.NotFoundAs(err, "invoice")
		}
		if m.InvoiceIsDteIssued {
			return helper.ErrIntegrity("invoice %s already has DTE %s", m.InvoiceNumber, *m.InvoiceDteNumber)
		}
		if m.InvoiceIsCancelled {
			return helper.ErrIntegrity("invoice %s is cancelled", m.InvoiceNumber)
		}

		now := time.Now()
		m.InvoiceIsDteIssued = true
		m.InvoiceDteNumber = &dteNumber
		m.InvoiceDteIssuedAt = &now
		if meta != nil {
			raw, err := sonic.Marshal(meta)
			if err != nil {
				return err
			}
			m.InvoiceDteMeta = datatypes.JSON(raw)
		}
		if err := s.recompute(tx, &m); err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "invoice.dte_issued", "invoice", m.InvoiceID, map[string]any{
			"dte_number": dteNumber,
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Cancel marks the invoice cancelled. Sticky: no recompute ever exits
// the state.
func (s *ReceivableService) Cancel(ctx context.Context, actorID, invoiceID uuid.UUID) (*model.Invoice, error) {
	release, err := s.Guard.Acquire(ctx, invoiceKey(invoiceID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	var m model.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, invoiceKey(invoiceID)); err != nil {
			return helper.ErrBusy()
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "invoice_id = ?", invoiceID).Error; err != nil {
			return helper.NotFoundAs(err, "invoice")
		}
		if m.InvoiceIsCancelled {
			return nil
		}
		m.InvoiceIsCancelled = true
		if err := s.recompute(tx, &m); err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "invoice.cancel", "invoice", m.InvoiceID, nil)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

/* ==============================
   Reconciliation
============================== */

// recompute rebuilds every derived aggregate from source rows and saves
// the invoice. Safe to call any number of times.
// Recompute re-derives totals and status inside the caller's
// transaction. For edits that change derivation inputs (invoice type,
// due date) without moving money.
func (s *ReceivableService) Recompute(tx *gorm.DB, m *model.Invoice) error {
	return s.recompute(tx, m)
}

func (s *ReceivableService) recompute(tx *gorm.DB, m *model.Invoice) error {
	var sums struct {
		Subtotal decimal.NullDecimal
		Tax      decimal.NullDecimal
	}
	if err := tx.Model(&lineModel.ChargeLine{}).
		Select("COALESCE(SUM(charge_line_subtotal), 0) AS subtotal, COALESCE(SUM(charge_line_tax), 0) AS tax").
		Where("charge_line_invoice_id = ?", m.InvoiceID).
		Scan(&sums).Error; err != nil {
		return err
	}

	taxRate := configs.TaxRate()
	thirdParty := decimal.Zero
	var expenses []transferModel.Transfer
	if err := tx.Where("transfer_invoice_id = ?", m.InvoiceID).Find(&expenses).Error; err != nil {
		return err
	}
	for _, e := range expenses {
		t, err := lineSvc.BillbackTotals(e.TransferAmount, e.TransferMarkupPct, e.TransferTaxTreatment, taxRate)
		if err != nil {
			return err
		}
		thirdParty = thirdParty.Add(t.Total)
	}

	var client catalogModel.Client
	if err := tx.First(&client, "client_id = ?", m.InvoiceClientID).Error; err != nil {
		return helper.NotFoundAs(err, "client")
	}

	paid, err := invoicePayments.SumActive(tx, m.InvoiceID)
	if err != nil {
		return err
	}
	credited, err := creditNotes.SumActive(tx, m.InvoiceID)
	if err != nil {
		return err
	}

	t := ComputeInvoiceTotals(ItemSums{
		ServiceSubtotal: nullDec(sums.Subtotal),
		ServiceTax:      nullDec(sums.Tax),
		ThirdParty:      thirdParty,
	}, m.InvoiceType, client.ClientIsRetentionSubject, configs.RetentionRate(), paid, credited)

	m.InvoiceSubtotalServices = t.SubtotalServices
	m.InvoiceTaxServices = t.TaxServices
	m.InvoiceSubtotalThirdParty = t.SubtotalThirdParty
	m.InvoiceRetention = t.Retention
	m.InvoiceTotalAmount = t.TotalAmount
	m.InvoicePaidAmount = paid
	m.InvoiceCreditedAmount = credited
	m.InvoiceBalance = t.Balance
	m.InvoiceStatus = ledger.DeriveInvoiceStatus(
		m.InvoiceIsCancelled, t.Balance, paid, credited, m.InvoiceDueDate, time.Now())

	return tx.Save(m).Error
}

func nullDec(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
