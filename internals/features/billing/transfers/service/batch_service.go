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
	helper "aduanet_backend/internals/helpers"
	"aduanet_backend/internals/locks"
)

type BatchInput struct {
	TransferIDs []uuid.UUID
	TotalAmount decimal.Decimal
	Date        *time.Time
	Method      string
	BankID      *uuid.UUID
	Reference   *string
}

type BatchResult struct {
	Batch           model.BatchPayment `json:"batch"`
	ObligationsPaid int                `json:"obligations_paid"`
	RemainingAmount decimal.Decimal    `json:"remaining_amount"`
}

// CreateBatchPayment validates everything up front and then distributes
// one disbursement FIFO over the provider's transfers. All-or-nothing:
// any precondition failure aborts before a single payment row exists.
func (s *PayableService) CreateBatchPayment(ctx context.Context, actorID uuid.UUID, in BatchInput) (*BatchResult, error) {
	if len(in.TransferIDs) == 0 {
		return nil, helper.ErrValidation("at least one transfer is required")
	}
	if !in.TotalAmount.IsPositive() {
		return nil, helper.ErrValidation("total amount must be > 0")
	}
	if in.Method == "" {
		in.Method = constants.PaymentMethodTransfer
	}

	// resolve the provider first so the lock key exists before the tx
	providerID, err := s.batchProvider(ctx, in.TransferIDs)
	if err != nil {
		return nil, err
	}

	release, err := s.Guard.Acquire(ctx, providerKey(providerID))
	if err != nil {
		return nil, helper.ErrBusy()
	}
	defer release()

	var out BatchResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, providerKey(providerID)); err != nil {
			return helper.ErrBusy()
		}

		// FIFO order: oldest transaction first, id as tiebreaker
		var transfers []model.Transfer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("transfer_id IN ?", in.TransferIDs).
			Order("transfer_transaction_date asc, transfer_id asc").
			Find(&transfers).Error; err != nil {
			return err
		}
		if len(transfers) != len(in.TransferIDs) {
			return helper.ErrNotFound("one or more transfers")
		}

		sumBalances := decimal.Zero
		targets := make([]BatchTarget, 0, len(transfers))
		for i := range transfers {
			t := &transfers[i]
			if t.TransferProviderID == nil || *t.TransferProviderID != providerID {
				return helper.ErrValidation("all transfers in a batch must belong to the same provider")
			}
			if t.TransferStatus == ledger.TransferStatusPaid || !t.TransferBalance.IsPositive() {
				return helper.ErrValidation("transfer %s is already fully paid", t.TransferID)
			}
			sumBalances = sumBalances.Add(t.TransferBalance)
			targets = append(targets, BatchTarget{TransferID: t.TransferID, Balance: t.TransferBalance})
		}
		if in.TotalAmount.GreaterThan(sumBalances) {
			return helper.ErrValidation("total amount exceeds combined pending balance of $%s", sumBalances.StringFixed(2))
		}

		date := time.Now()
		if in.Date != nil {
			date = *in.Date
		}
		batch := model.BatchPayment{
			BatchPaymentProviderID:  providerID,
			BatchPaymentTotalAmount: in.TotalAmount,
			BatchPaymentDate:        date,
			BatchPaymentMethod:      in.Method,
			BatchPaymentBankID:      in.BankID,
			BatchPaymentReference:   helper.StrPtrOrNil(in.Reference),
		}
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}

		allocs, remaining := DistributeFIFO(in.TotalAmount, targets)

		byID := make(map[uuid.UUID]*model.Transfer, len(transfers))
		for i := range transfers {
			byID[transfers[i].TransferID] = &transfers[i]
		}
		for _, a := range allocs {
			p := model.TransferPayment{
				TransferPaymentTransferID: a.TransferID,
				TransferPaymentBatchID:    &batch.BatchPaymentID,
				TransferPaymentAmount:     a.Amount,
				TransferPaymentDate:       date,
				TransferPaymentMethod:     in.Method,
				TransferPaymentBankID:     in.BankID,
				TransferPaymentReference:  batch.BatchPaymentReference,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			t := byID[a.TransferID]
			if t.TransferPaymentMethod == nil {
				t.TransferPaymentMethod = &in.Method
				t.TransferBankID = in.BankID
			}
			if err := s.Reconcile(tx, t); err != nil {
				return err
			}
		}

		out = BatchResult{Batch: batch, ObligationsPaid: len(allocs), RemainingAmount: remaining}

		return s.Audit.Record(tx, actorID, "batch_payment.create", "batch_payment", batch.BatchPaymentID, map[string]any{
			"provider_id":      providerID,
			"total_amount":     in.TotalAmount,
			"obligations_paid": len(allocs),
		})
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(auditSvc.Event{Name: "batch_payment.created", Entity: "batch_payment", EntityID: out.Batch.BatchPaymentID})
	return &out, nil
}

// DeleteBatchPayment soft-deletes the batch and every child payment,
// resuming each affected transfer.
func (s *PayableService) DeleteBatchPayment(ctx context.Context, actorID, batchID uuid.UUID) error {
	var batch model.BatchPayment
	if err := s.DB.WithContext(ctx).First(&batch, "batch_payment_id = ?", batchID).Error; err != nil {
		return helper.NotFoundAs(err, "batch payment")
	}

	release, err := s.Guard.Acquire(ctx, providerKey(batch.BatchPaymentProviderID))
	if err != nil {
		return helper.ErrBusy()
	}
	defer release()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := locks.AdvisoryXactLock(tx, providerKey(batch.BatchPaymentProviderID)); err != nil {
			return helper.ErrBusy()
		}

		var payments []model.TransferPayment
		if err := tx.Where("transfer_payment_batch_id = ?", batchID).Find(&payments).Error; err != nil {
			return err
		}

		if err := tx.Delete(&model.TransferPayment{}, "transfer_payment_batch_id = ?", batchID).Error; err != nil {
			return err
		}

		for _, p := range payments {
			var m model.Transfer
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&m, "transfer_id = ?", p.TransferPaymentTransferID).Error; err != nil {
				return helper.NotFoundAs(err, "transfer")
			}
			if err := s.Reconcile(tx, &m); err != nil {
				return err
			}
		}

		if err := tx.Delete(&batch).Error; err != nil {
			return err
		}
		return s.Audit.Record(tx, actorID, "batch_payment.delete", "batch_payment", batchID, map[string]any{
			"payments_reversed": len(payments),
		})
	})
}

// batchProvider checks every transfer exists, is live, and shares one
// non-null provider, returning that provider.
func (s *PayableService) batchProvider(ctx context.Context, ids []uuid.UUID) (uuid.UUID, error) {
	var rows []model.Transfer
	if err := s.DB.WithContext(ctx).
		Select("transfer_id", "transfer_provider_id").
		Where("transfer_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return uuid.Nil, err
	}
	if len(rows) != len(ids) {
		return uuid.Nil, helper.ErrNotFound("one or more transfers")
	}

	var provider uuid.UUID
	for _, r := range rows {
		if r.TransferProviderID == nil {
			return uuid.Nil, helper.ErrValidation("transfer %s has no provider", r.TransferID)
		}
		if provider == uuid.Nil {
			provider = *r.TransferProviderID
			continue
		}
		if provider != *r.TransferProviderID {
			return uuid.Nil, helper.ErrValidation("all transfers in a batch must belong to the same provider")
		}
	}
	return provider, nil
}
