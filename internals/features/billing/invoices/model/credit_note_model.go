package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreditNote reduces an invoice balance without cash movement. After
// DTE issuance it is the only instrument allowed to touch the balance.
type CreditNote struct {
	CreditNoteID uuid.UUID `gorm:"column:credit_note_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"credit_note_id"`

	CreditNoteInvoiceID uuid.UUID `gorm:"column:credit_note_invoice_id;type:uuid;not null;index" json:"credit_note_invoice_id"`

	CreditNoteAmount decimal.Decimal `gorm:"column:credit_note_amount;type:numeric(14,2);not null" json:"credit_note_amount"`
	CreditNoteDate   time.Time       `gorm:"column:credit_note_date;type:date;not null" json:"credit_note_date"`
	CreditNoteReason *string         `gorm:"column:credit_note_reason;type:varchar(200)" json:"credit_note_reason,omitempty"`

	// fiscal reference of the credit document itself, when issued
	CreditNoteDteNumber *string `gorm:"column:credit_note_dte_number;type:varchar(60)" json:"credit_note_dte_number,omitempty"`

	CreditNoteCreatedAt time.Time      `gorm:"column:credit_note_created_at;type:timestamptz;not null;default:now()" json:"credit_note_created_at"`
	CreditNoteDeletedAt gorm.DeletedAt `gorm:"column:credit_note_deleted_at;type:timestamptz;index" json:"-"`
}

func (CreditNote) TableName() string { return "credit_notes" }
