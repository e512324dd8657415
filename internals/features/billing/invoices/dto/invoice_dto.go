package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceCreateDTO struct {
	InvoiceOrderID     uuid.UUID   `json:"invoice_order_id" validate:"required"`
	InvoiceNumber      *string     `json:"invoice_number,omitempty" validate:"omitempty,max=20"`
	InvoiceType        string      `json:"invoice_type" validate:"omitempty,oneof=final_consumer tax_credit"`
	InvoiceIssueDate   *time.Time  `json:"invoice_issue_date,omitempty"`
	InvoiceDueDate     *time.Time  `json:"invoice_due_date,omitempty"`
	InvoiceNotes       *string     `json:"invoice_notes,omitempty"`
	InvoiceChargeIDs   []uuid.UUID `json:"invoice_charge_ids,omitempty"`
	InvoiceTransferIDs []uuid.UUID `json:"invoice_transfer_ids,omitempty"`
}

// editable header fields; number/due date/notes/pdf stay writable after
// DTE issuance, type and issue date do not
type InvoiceUpdateDTO struct {
	InvoiceNumber    *string    `json:"invoice_number,omitempty" validate:"omitempty,max=20"`
	InvoiceType      *string    `json:"invoice_type,omitempty" validate:"omitempty,oneof=final_consumer tax_credit"`
	InvoiceIssueDate *time.Time `json:"invoice_issue_date,omitempty"`
	InvoiceDueDate   *time.Time `json:"invoice_due_date,omitempty"`
	InvoiceNotes     *string    `json:"invoice_notes,omitempty"`
	InvoicePdfURL    *string    `json:"invoice_pdf_url,omitempty"`
}

type AttachItemsDTO struct {
	ChargeIDs   []uuid.UUID `json:"charge_ids,omitempty"`
	TransferIDs []uuid.UUID `json:"transfer_ids,omitempty"`
}

type InvoicePaymentDTO struct {
	PaymentAmount    decimal.Decimal `json:"payment_amount" validate:"required"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`
	PaymentMethod    string          `json:"payment_method" validate:"required,oneof=transfer check cash"`
	PaymentBankID    *uuid.UUID      `json:"payment_bank_id,omitempty"`
	PaymentReference *string         `json:"payment_reference,omitempty" validate:"omitempty,max=60"`
	PaymentNotes     *string         `json:"payment_notes,omitempty"`
}

type CreditNoteDTO struct {
	CreditNoteAmount    decimal.Decimal `json:"credit_note_amount" validate:"required"`
	CreditNoteDate      *time.Time      `json:"credit_note_date,omitempty"`
	CreditNoteReason    *string         `json:"credit_note_reason,omitempty" validate:"omitempty,max=200"`
	CreditNoteDteNumber *string         `json:"credit_note_dte_number,omitempty" validate:"omitempty,max=60"`
}

type DteIssueDTO struct {
	DteNumber string         `json:"dte_number" validate:"required,max=60"`
	DteMeta   map[string]any `json:"dte_meta,omitempty"`
}

type LineEditDTO struct {
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=200"`
	Quantity     *int             `json:"quantity,omitempty" validate:"omitempty,min=1"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPct  *decimal.Decimal `json:"discount_pct,omitempty"`
	TaxTreatment *string          `json:"tax_treatment,omitempty" validate:"omitempty,oneof=taxed not_subject exempt"`
}

type ExpenseEditDTO struct {
	MarkupPct    *decimal.Decimal `json:"markup_pct,omitempty"`
	TaxTreatment *string          `json:"tax_treatment,omitempty" validate:"omitempty,oneof=taxed not_subject exempt"`
}
