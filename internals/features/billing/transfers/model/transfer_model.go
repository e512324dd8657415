package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ==============================
   ENUM: transfer type
============================== */

type TransferType string

const (
	// expense advanced on behalf of a specific order: order fk required
	TransferTypeOrderExpense TransferType = "order_expense"
	// general payable not tied to any order
	TransferTypeOverhead TransferType = "overhead"
)

func (t TransferType) RequiresOrder() bool { return t == TransferTypeOrderExpense }

// Transfer is a provider obligation. The amount is the cost fact fixed
// at creation; paid_amount and balance are derived from active payments
// and recomputed from source before every save. The markup/tax fields
// only shape what the customer is re-billed, never what the provider
// is owed.
type Transfer struct {
	TransferID uuid.UUID `gorm:"column:transfer_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"transfer_id"`

	TransferProviderID *uuid.UUID `gorm:"column:transfer_provider_id;type:uuid;index" json:"transfer_provider_id,omitempty"`
	TransferOrderID    *uuid.UUID `gorm:"column:transfer_order_id;type:uuid;index" json:"transfer_order_id,omitempty"`
	TransferInvoiceID  *uuid.UUID `gorm:"column:transfer_invoice_id;type:uuid;index" json:"transfer_invoice_id,omitempty"`

	TransferType        TransferType `gorm:"column:transfer_type;type:varchar(20);not null;default:'order_expense'" json:"transfer_type"`
	TransferDescription string       `gorm:"column:transfer_description;type:varchar(200);not null" json:"transfer_description"`

	// cost facts
	TransferAmount          decimal.Decimal `gorm:"column:transfer_amount;type:numeric(14,2);not null" json:"transfer_amount"`
	TransferTransactionDate time.Time       `gorm:"column:transfer_transaction_date;type:date;not null;index" json:"transfer_transaction_date"`

	// derived
	TransferPaidAmount decimal.Decimal `gorm:"column:transfer_paid_amount;type:numeric(14,2);not null;default:0" json:"transfer_paid_amount"`
	TransferBalance    decimal.Decimal `gorm:"column:transfer_balance;type:numeric(14,2);not null;default:0" json:"transfer_balance"`
	TransferStatus     string          `gorm:"column:transfer_status;type:varchar(10);not null;default:'pending';index" json:"transfer_status"`

	TransferIsApproved bool       `gorm:"column:transfer_is_approved;not null;default:false" json:"transfer_is_approved"`
	TransferApprovedBy *uuid.UUID `gorm:"column:transfer_approved_by;type:uuid" json:"transfer_approved_by,omitempty"`
	TransferApprovedAt *time.Time `gorm:"column:transfer_approved_at;type:timestamptz" json:"transfer_approved_at,omitempty"`

	// stamped by the first payment / on full payment
	TransferPaymentMethod *string    `gorm:"column:transfer_payment_method;type:varchar(20)" json:"transfer_payment_method,omitempty"`
	TransferBankID        *uuid.UUID `gorm:"column:transfer_bank_id;type:uuid" json:"transfer_bank_id,omitempty"`
	TransferPaymentDate   *time.Time `gorm:"column:transfer_payment_date;type:date" json:"transfer_payment_date,omitempty"`

	// customer billback knobs (receivable side only)
	TransferMarkupPct    decimal.Decimal `gorm:"column:transfer_markup_pct;type:numeric(5,2);not null;default:0" json:"transfer_markup_pct"`
	TransferTaxTreatment string          `gorm:"column:transfer_tax_treatment;type:varchar(20);not null;default:'not_subject'" json:"transfer_tax_treatment"`

	TransferCreatedAt time.Time      `gorm:"column:transfer_created_at;type:timestamptz;not null;default:now();index" json:"transfer_created_at"`
	TransferUpdatedAt time.Time      `gorm:"column:transfer_updated_at;type:timestamptz;not null;default:now()" json:"transfer_updated_at"`
	TransferDeletedAt gorm.DeletedAt `gorm:"column:transfer_deleted_at;type:timestamptz;index" json:"-"`
}

func (Transfer) TableName() string { return "transfers" }

func (m *Transfer) BeforeCreate(tx *gorm.DB) error {
	if m.TransferBalance.IsZero() {
		m.TransferBalance = m.TransferAmount
	}
	if m.TransferTransactionDate.IsZero() {
		m.TransferTransactionDate = time.Now()
	}
	return nil
}

func (m *Transfer) BeforeUpdate(tx *gorm.DB) error {
	m.TransferUpdatedAt = time.Now()
	return nil
}

func (m *Transfer) IsAttached() bool { return m.TransferInvoiceID != nil }
