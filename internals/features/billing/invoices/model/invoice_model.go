package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ==============================
   ENUM: invoice type
============================== */

type InvoiceType string

const (
	// consumidor final receipt, no retention regardless of client flag
	InvoiceTypeFinalConsumer InvoiceType = "final_consumer"
	// credito fiscal document, retention applies when the client is flagged
	InvoiceTypeTaxCredit InvoiceType = "tax_credit"
)

func (t InvoiceType) Valid() bool {
	return t == InvoiceTypeFinalConsumer || t == InvoiceTypeTaxCredit
}

// RequiresRetention says whether this document class withholds at all.
// The client must also be flagged as a retention subject.
func (t InvoiceType) RequiresRetention() bool { return t == InvoiceTypeTaxCredit }

// Invoice aggregates the attached charge lines and billed-back expenses
// of one order. Every monetary aggregate is derived: recomputed from
// the attached items and the active payment/credit children immediately
// before each save. Once the DTE is issued the fiscal fields freeze and
// only credit notes move the balance.
type Invoice struct {
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"invoice_id"`

	InvoiceOrderID  uuid.UUID `gorm:"column:invoice_order_id;type:uuid;not null;index" json:"invoice_order_id"`
	InvoiceClientID uuid.UUID `gorm:"column:invoice_client_id;type:uuid;not null;index" json:"invoice_client_id"`

	InvoiceNumber string      `gorm:"column:invoice_number;type:varchar(20);not null;uniqueIndex" json:"invoice_number"`
	InvoiceType   InvoiceType `gorm:"column:invoice_type;type:varchar(20);not null;default:'final_consumer'" json:"invoice_type"`

	InvoiceIssueDate time.Time  `gorm:"column:invoice_issue_date;type:date;not null" json:"invoice_issue_date"`
	InvoiceDueDate   *time.Time `gorm:"column:invoice_due_date;type:date" json:"invoice_due_date,omitempty"`

	// derived aggregates
	InvoiceSubtotalServices   decimal.Decimal `gorm:"column:invoice_subtotal_services;type:numeric(14,2);not null;default:0" json:"invoice_subtotal_services"`
	InvoiceTaxServices        decimal.Decimal `gorm:"column:invoice_tax_services;type:numeric(14,2);not null;default:0" json:"invoice_tax_services"`
	InvoiceSubtotalThirdParty decimal.Decimal `gorm:"column:invoice_subtotal_third_party;type:numeric(14,2);not null;default:0" json:"invoice_subtotal_third_party"`
	InvoiceRetention          decimal.Decimal `gorm:"column:invoice_retention;type:numeric(14,2);not null;default:0" json:"invoice_retention"`
	InvoiceTotalAmount        decimal.Decimal `gorm:"column:invoice_total_amount;type:numeric(14,2);not null;default:0" json:"invoice_total_amount"`
	InvoicePaidAmount         decimal.Decimal `gorm:"column:invoice_paid_amount;type:numeric(14,2);not null;default:0" json:"invoice_paid_amount"`
	InvoiceCreditedAmount     decimal.Decimal `gorm:"column:invoice_credited_amount;type:numeric(14,2);not null;default:0" json:"invoice_credited_amount"`
	InvoiceBalance            decimal.Decimal `gorm:"column:invoice_balance;type:numeric(14,2);not null;default:0" json:"invoice_balance"`

	InvoiceStatus      string `gorm:"column:invoice_status;type:varchar(10);not null;default:'pending';index" json:"invoice_status"`
	InvoiceIsCancelled bool   `gorm:"column:invoice_is_cancelled;not null;default:false" json:"invoice_is_cancelled"`

	// fiscal issuance
	InvoiceIsDteIssued bool           `gorm:"column:invoice_is_dte_issued;not null;default:false;index" json:"invoice_is_dte_issued"`
	InvoiceDteNumber   *string        `gorm:"column:invoice_dte_number;type:varchar(60)" json:"invoice_dte_number,omitempty"`
	InvoiceDteIssuedAt *time.Time     `gorm:"column:invoice_dte_issued_at;type:timestamptz" json:"invoice_dte_issued_at,omitempty"`
	InvoiceDteMeta     datatypes.JSON `gorm:"column:invoice_dte_meta;type:jsonb" json:"invoice_dte_meta,omitempty"`

	InvoicePdfURL *string `gorm:"column:invoice_pdf_url;type:text" json:"invoice_pdf_url,omitempty"`
	InvoiceNotes  *string `gorm:"column:invoice_notes;type:text" json:"invoice_notes,omitempty"`

	InvoiceCreatedAt time.Time      `gorm:"column:invoice_created_at;type:timestamptz;not null;default:now();index" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time      `gorm:"column:invoice_updated_at;type:timestamptz;not null;default:now()" json:"invoice_updated_at"`
	InvoiceDeletedAt gorm.DeletedAt `gorm:"column:invoice_deleted_at;type:timestamptz;index" json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

func (m *Invoice) BeforeUpdate(tx *gorm.DB) error {
	m.InvoiceUpdatedAt = time.Now()
	return nil
}
