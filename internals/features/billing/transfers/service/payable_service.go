package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"aduanet_backend/internals/constants"
	auditSvc "aduanet_backend/internals/features/audit/service"
	"aduanet_backend/internals/features/billing/ledger"
	model "aduanet_backend/internals/features/billing/transfers/model"
	orderModel "aduanet_backend/internals/features/orders/model"
	helper "aduanet_backend/internals/helpers"
	"aduanet_backend/internals/locks"
)

// child set feeding transfer.paid_amount
var transferPayments = ledger.ChildSet{
	Table:      "transfer_payments",
	AmountCol:  "transfer_payment_amount",
	ParentCol:  "transfer_payment_transfer_id",
	DeletedCol: "transfer_payment_deleted_at",
}

type PayableService struct {
	DB       *gorm.DB
	Guard    locks.Guard
	Audit    *auditSvc.Recorder
	Notifier auditSvc.Notifier
}

func transferKey(id uuid.UUID) string { return "transfer:" + id.String() }
func providerKey(id uuid.UUID) string { return "provider:" + id.String() }

/* ==============================
   Obligation lifecycle
============================== */

type ObligationInput struct {
	ProviderID      *uuid.UUID
	OrderID         *uuid.UUID
	Type            model.TransferType
	Description     string
	Amount          decimal.Decimal
	TransactionDate *time.Time
	MarkupPct       decimal.Decimal
	TaxTreatment    string
}

func (s *PayableService) CreateObligation(ctx context.Context, actorID uuid.UUID, in ObligationInput) (*model.Transfer, error) {
	if !in.Amount.IsPositive() {
		return nil, helper.ErrValidation("amount must be > 0")
	}
	if in.Type == "" {
		in.Type = model.TransferTypeOrderExpense
	}
	if in.Type.RequiresOrder() && in.OrderID == nil {
		return nil, helper.ErrValidation("transfer type %s requires an order", in.Type)
	}
	if in.TaxTreatment == "" {
		in.TaxTreatment = constants.TaxTreatmentNotSubject
	}
	if !constants.ValidTaxTreatment(in.TaxTreatment) {
		return nil, helper.ErrValidation("invalid tax treatment %q", in.TaxTreatment)
	}
	if in.MarkupPct.IsNegative() {
		return nil, helper.ErrValidation("markup must be >= 0")
	}

	var m model.Transfer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.OrderID != nil {
			var ord orderModel.Order
			if err := tx.First(&ord, "order_id = ?", *in.OrderID).Error; err != nil {
				return helper.NotFoundAs(err, "order")
			}
		}

		txnDate := time.Now()
		if in.TransactionDate != nil {
			txnDate = *in.TransactionDate
		}

		m = model.Transfer{
			TransferProviderID:      in.ProviderID,
			TransferOrderID:         in.OrderID,
			TransferType:            in.Type,
			TransferDescription:     in.Description,
			TransferAmount:          in.Amount,
			TransferBalance:         in.Amount,
			TransferTransactionDate: txnDate,
			TransferStatus:          ledger.TransferStatusPending,
			TransferMarkupPct:       in.MarkupPct,
			TransferTaxTreatment:    in.TaxTreatment,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "transfer.create", "transfer", m.TransferID, map[string]any{
			"amount": m.TransferAmount,
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Approve is role-gated at the route layer; here it only flips state.
func (s *PayableService) Approve(ctx context.Context, actorID, transferID uuid.UUID) (*model.Transfer, error) {
	var m model.Transfer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "transfer_id = ?", transferID).Error; err != nil {
			return helper.NotFoundAs(err, "transfer")
		}
		if m.TransferIsApproved {
			return helper.ErrValidation("transfer is already approved")
		}
		now := time.Now()
		m.TransferIsApproved = true
		m.TransferApprovedBy = &actorID
		m.TransferApprovedAt = &now
		m.TransferStatus = ledger.DeriveTransferStatus(true, m.TransferAmount, m.TransferPaidAmount)
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "transfer.approve", "transfer", m.TransferID, nil)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

/* ==============================
   Payments & credit notes
============================== */

type PaymentInput struct {
	Amount    decimal.Decimal
	Date      *time.Time
	Method    string
	BankID    *uuid.UUID
	Reference *string
	Notes     *string
}

// RecordPayment appends a payment and resums the obligation under the
// transfer's named lock plus a row lock.
func (s *PayableService) RecordPayment(ctx context.Context, actorID, transferID uuid.UUID, in PaymentInput) (*model.Transfer, error) {
	return s.recordMovement(ctx, actorID, transferID, in, false)
}

// RecordCreditNote models a credit from the provider. It flows through
// the payment channel with the credit_note method tag, netting against
// the balance exactly like a payment.
func (s *PayableService) RecordCreditNote(ctx context.Context, actorID, transferID uuid.UUID, in PaymentInput) (*model.Transfer, error) {
	in.Method = constants.PaymentMethodCreditNote
	return s.recordMovement(ctx, actorID, transferID, in, true)
}

func (s *PayableService) recordMovement(ctx context.Context, actorID, transferID uuid.UUID, in PaymentInput, isCredit bool) (*model.Transfer, error) {
	if !in.Amount.IsPositive() {
		return nil, helper.ErrValidation("amount must be > 0")
	}
	if in.Method == "" {
		in.Method = constants.PaymentMethodTransfer
	}

	release, err := s.Guard.Acquire(ctx, transferKey(transferID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	var m model.Transfer
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, transferKey(transferID)); err != nil {
			return helper.ErrBusy()
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "transfer_id = ?", transferID).Error; err != nil {
			return helper.NotFoundAs(err, "transfer")
		}

		if in.Amount.GreaterThan(m.TransferBalance) {
			return helper.ErrValidation("amount exceeds pending balance of $%s", m.TransferBalance.StringFixed(2))
		}

		date := time.Now()
		if in.Date != nil {
			date = *in.Date
		}
		p := model.TransferPayment{
			TransferPaymentTransferID: m.TransferID,
			TransferPaymentAmount:     in.Amount,
			TransferPaymentDate:       date,
			TransferPaymentMethod:     in.Method,
			TransferPaymentBankID:     in.BankID,
			TransferPaymentReference:  helper.StrPtrOrNil(in.Reference),
			TransferPaymentNotes:      in.Notes,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		// first real movement stamps method/bank on the obligation
		if m.TransferPaymentMethod == nil && !isCredit {
			m.TransferPaymentMethod = &in.Method
			m.TransferBankID = in.BankID
		}

		if err := s.Reconcile(tx, &m); err != nil {
			return err
		}

		action := "transfer.payment"
		if isCredit {
			action = "transfer.credit_note"
		}
		return s.Audit.Record(tx, actorID, action, "transfer", m.TransferID, map[string]any{
			"payment_id": p.TransferPaymentID,
			"amount":     in.Amount,
		})
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(auditSvc.Event{Name: "transfer.payment_recorded", Entity: "transfer", EntityID: m.TransferID})
	return &m, nil
}

// DeletePayment soft-deletes one payment and resums the parent. The
// paid amount is never decremented ad hoc.
func (s *PayableService) DeletePayment(ctx context.Context, actorID, paymentID uuid.UUID) (*model.Transfer, error) {
	var p model.TransferPayment
	if err := s.DB.WithContext(ctx).First(&p, "transfer_payment_id = ?", paymentID).Error; err != nil {
		return nil, helper.NotFoundAs(err, "payment")
	}

	release, err := s.Guard.Acquire(ctx, transferKey(p.TransferPaymentTransferID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	var m model.Transfer
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, transferKey(p.TransferPaymentTransferID)); err != nil {
			return helper.ErrBusy()
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "transfer_id = ?", p.TransferPaymentTransferID).Error; err != nil {
			return helper.NotFoundAs(err, "transfer")
		}
		if err := tx.Delete(&model.TransferPayment{}, "transfer_payment_id = ?", paymentID).Error; err != nil {
			return err
		}
		if err := s.Reconcile(tx, &m); err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "transfer.payment_delete", "transfer", m.TransferID, map[string]any{
			"payment_id": paymentID,
		})
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

/* ==============================
   Reconciliation
============================== */

// Reconcile recomputes paid_amount/balance/status from the active
// payments and persists the transfer. Idempotent by construction.
func (s *PayableService) Reconcile(tx *gorm.DB, m *model.Transfer) error {
	paid, err := transferPayments.SumActive(tx, m.TransferID)
	if err != nil {
		return err
	}

	m.TransferPaidAmount = paid
	m.TransferBalance = m.TransferAmount.Sub(paid)
	m.TransferStatus = ledger.DeriveTransferStatus(m.TransferIsApproved, m.TransferAmount, paid)

	if m.TransferStatus == ledger.TransferStatusPaid {
		if m.TransferPaymentDate == nil {
			now := time.Now()
			m.TransferPaymentDate = &now
		}
	} else {
		m.TransferPaymentDate = nil
	}

	return tx.Save(m).Error
}
