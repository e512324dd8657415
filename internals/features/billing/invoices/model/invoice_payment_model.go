package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoicePayment is an append-only cash-in record. Corrections are
// soft-deletes followed by a resum of the parent invoice, never edits.
type InvoicePayment struct {
	InvoicePaymentID uuid.UUID `gorm:"column:invoice_payment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"invoice_payment_id"`

	InvoicePaymentInvoiceID uuid.UUID `gorm:"column:invoice_payment_invoice_id;type:uuid;not null;index" json:"invoice_payment_invoice_id"`

	InvoicePaymentAmount decimal.Decimal `gorm:"column:invoice_payment_amount;type:numeric(14,2);not null" json:"invoice_payment_amount"`
	InvoicePaymentDate   time.Time       `gorm:"column:invoice_payment_date;type:date;not null" json:"invoice_payment_date"`
	InvoicePaymentMethod string          `gorm:"column:invoice_payment_method;type:varchar(20);not null" json:"invoice_payment_method"`

	InvoicePaymentBankID    *uuid.UUID `gorm:"column:invoice_payment_bank_id;type:uuid" json:"invoice_payment_bank_id,omitempty"`
	InvoicePaymentReference *string    `gorm:"column:invoice_payment_reference;type:varchar(60)" json:"invoice_payment_reference,omitempty"`
	InvoicePaymentNotes     *string    `gorm:"column:invoice_payment_notes;type:text" json:"invoice_payment_notes,omitempty"`

	InvoicePaymentCreatedAt time.Time      `gorm:"column:invoice_payment_created_at;type:timestamptz;not null;default:now()" json:"invoice_payment_created_at"`
	InvoicePaymentDeletedAt gorm.DeletedAt `gorm:"column:invoice_payment_deleted_at;type:timestamptz;index" json:"-"`
}

func (InvoicePayment) TableName() string { return "invoice_payments" }
