package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BatchPayment is a single disbursement to one provider, distributed
// FIFO over that provider's open transfers. All constituent transfers
// must share the provider; the invariant is enforced at creation.
type BatchPayment struct {
	BatchPaymentID uuid.UUID `gorm:"column:batch_payment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"batch_payment_id"`

	BatchPaymentProviderID  uuid.UUID       `gorm:"column:batch_payment_provider_id;type:uuid;not null;index" json:"batch_payment_provider_id"`
	BatchPaymentTotalAmount decimal.Decimal `gorm:"column:batch_payment_total_amount;type:numeric(14,2);not null" json:"batch_payment_total_amount"`

	BatchPaymentDate   time.Time `gorm:"column:batch_payment_date;type:date;not null" json:"batch_payment_date"`
	BatchPaymentMethod string    `gorm:"column:batch_payment_method;type:varchar(20);not null" json:"batch_payment_method"`

	BatchPaymentBankID    *uuid.UUID `gorm:"column:batch_payment_bank_id;type:uuid" json:"batch_payment_bank_id,omitempty"`
	BatchPaymentReference *string    `gorm:"column:batch_payment_reference;type:varchar(60)" json:"batch_payment_reference,omitempty"`

	BatchPaymentCreatedAt time.Time      `gorm:"column:batch_payment_created_at;type:timestamptz;not null;default:now()" json:"batch_payment_created_at"`
	BatchPaymentDeletedAt gorm.DeletedAt `gorm:"column:batch_payment_deleted_at;type:timestamptz;index" json:"-"`
}

func (BatchPayment) TableName() string { return "batch_payments" }
