package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransferCreateDTO struct {
	TransferProviderID      *uuid.UUID      `json:"transfer_provider_id,omitempty"`
	TransferOrderID         *uuid.UUID      `json:"transfer_order_id,omitempty"`
	TransferType            string          `json:"transfer_type" validate:"omitempty,oneof=order_expense overhead"`
	TransferDescription     string          `json:"transfer_description" validate:"required,max=200"`
	TransferAmount          decimal.Decimal `json:"transfer_amount" validate:"required"`
	TransferTransactionDate *time.Time      `json:"transfer_transaction_date,omitempty"`
	TransferMarkupPct       decimal.Decimal `json:"transfer_markup_pct"`
	TransferTaxTreatment    string          `json:"transfer_tax_treatment" validate:"omitempty,oneof=taxed not_subject exempt"`
}

type TransferPaymentDTO struct {
	PaymentAmount    decimal.Decimal `json:"payment_amount" validate:"required"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`
	PaymentMethod    string          `json:"payment_method" validate:"omitempty,oneof=transfer check cash"`
	PaymentBankID    *uuid.UUID      `json:"payment_bank_id,omitempty"`
	PaymentReference *string         `json:"payment_reference,omitempty" validate:"omitempty,max=60"`
	PaymentNotes     *string         `json:"payment_notes,omitempty"`
}

type TransferCreditNoteDTO struct {
	CreditAmount    decimal.Decimal `json:"credit_amount" validate:"required"`
	CreditDate      *time.Time      `json:"credit_date,omitempty"`
	CreditReference *string         `json:"credit_reference,omitempty" validate:"omitempty,max=60"`
	CreditNotes     *string         `json:"credit_notes,omitempty"`
}

type BatchCreateDTO struct {
	BatchTransferIDs []uuid.UUID     `json:"batch_transfer_ids" validate:"required,min=1,dive,required"`
	BatchTotalAmount decimal.Decimal `json:"batch_total_amount" validate:"required"`
	BatchDate        *time.Time      `json:"batch_date,omitempty"`
	BatchMethod      string          `json:"batch_method" validate:"omitempty,oneof=transfer check cash"`
	BatchBankID      *uuid.UUID      `json:"batch_bank_id,omitempty"`
	BatchReference   *string         `json:"batch_reference,omitempty" validate:"omitempty,max=60"`
}
