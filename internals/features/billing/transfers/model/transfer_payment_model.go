package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransferPayment is an append-only ledger child. Rows are never
// edited: corrections happen by soft-deleting and re-recording, and
// every soft delete triggers a resum on the parent transfer. A payment
// with the credit_note method tag is a provider credit nets against
// the balance exactly like money.
type TransferPayment struct {
	TransferPaymentID uuid.UUID `gorm:"column:transfer_payment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"transfer_payment_id"`

	TransferPaymentTransferID uuid.UUID  `gorm:"column:transfer_payment_transfer_id;type:uuid;not null;index" json:"transfer_payment_transfer_id"`
	TransferPaymentBatchID    *uuid.UUID `gorm:"column:transfer_payment_batch_id;type:uuid;index" json:"transfer_payment_batch_id,omitempty"`

	TransferPaymentAmount decimal.Decimal `gorm:"column:transfer_payment_amount;type:numeric(14,2);not null" json:"transfer_payment_amount"`
	TransferPaymentDate   time.Time       `gorm:"column:transfer_payment_date;type:date;not null" json:"transfer_payment_date"`
	TransferPaymentMethod string          `gorm:"column:transfer_payment_method;type:varchar(20);not null" json:"transfer_payment_method"`

	TransferPaymentBankID    *uuid.UUID `gorm:"column:transfer_payment_bank_id;type:uuid" json:"transfer_payment_bank_id,omitempty"`
	TransferPaymentReference *string    `gorm:"column:transfer_payment_reference;type:varchar(60)" json:"transfer_payment_reference,omitempty"`
	TransferPaymentNotes     *string    `gorm:"column:transfer_payment_notes;type:text" json:"transfer_payment_notes,omitempty"`

	TransferPaymentCreatedAt time.Time      `gorm:"column:transfer_payment_created_at;type:timestamptz;not null;default:now()" json:"transfer_payment_created_at"`
	TransferPaymentDeletedAt gorm.DeletedAt `gorm:"column:transfer_payment_deleted_at;type:timestamptz;index" json:"-"`
}

func (TransferPayment) TableName() string { return "transfer_payments" }
