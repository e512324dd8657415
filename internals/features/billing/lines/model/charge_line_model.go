package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChargeLine is one billable service charge on an order. Subtotal, tax
// and total are derived by the line engine before every save and are
// never accepted from input. The invoice fk is the ownership transfer:
// nil = available on the order, set = attached to exactly one invoice.
type ChargeLine struct {
	ChargeLineID uuid.UUID `gorm:"column:charge_line_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"charge_line_id"`

	ChargeLineOrderID   uuid.UUID  `gorm:"column:charge_line_order_id;type:uuid;not null;index" json:"charge_line_order_id"`
	ChargeLineInvoiceID *uuid.UUID `gorm:"column:charge_line_invoice_id;type:uuid;index" json:"charge_line_invoice_id,omitempty"`
	ChargeLineServiceID *uuid.UUID `gorm:"column:charge_line_service_id;type:uuid;index" json:"charge_line_service_id,omitempty"`

	ChargeLineDescription string `gorm:"column:charge_line_description;type:varchar(200);not null" json:"charge_line_description"`

	ChargeLineQuantity     int             `gorm:"column:charge_line_quantity;type:int;not null;check:charge_line_quantity>=1" json:"charge_line_quantity"`
	ChargeLineUnitPrice    decimal.Decimal `gorm:"column:charge_line_unit_price;type:numeric(14,2);not null" json:"charge_line_unit_price"`
	ChargeLineDiscountPct  decimal.Decimal `gorm:"column:charge_line_discount_pct;type:numeric(5,2);not null;default:0" json:"charge_line_discount_pct"`
	ChargeLineTaxTreatment string          `gorm:"column:charge_line_tax_treatment;type:varchar(20);not null;default:'taxed'" json:"charge_line_tax_treatment"`

	// derived: engine output only
	ChargeLineSubtotal decimal.Decimal `gorm:"column:charge_line_subtotal;type:numeric(14,2);not null;default:0" json:"charge_line_subtotal"`
	ChargeLineTax      decimal.Decimal `gorm:"column:charge_line_tax;type:numeric(14,2);not null;default:0" json:"charge_line_tax"`
	ChargeLineTotal    decimal.Decimal `gorm:"column:charge_line_total;type:numeric(14,2);not null;default:0" json:"charge_line_total"`

	ChargeLineCreatedAt time.Time      `gorm:"column:charge_line_created_at;type:timestamptz;not null;default:now();index" json:"charge_line_created_at"`
	ChargeLineUpdatedAt time.Time      `gorm:"column:charge_line_updated_at;type:timestamptz;not null;default:now()" json:"charge_line_updated_at"`
	ChargeLineDeletedAt gorm.DeletedAt `gorm:"column:charge_line_deleted_at;type:timestamptz;index" json:"-"`
}

func (ChargeLine) TableName() string { return "charge_lines" }

func (m *ChargeLine) BeforeUpdate(tx *gorm.DB) error {
	m.ChargeLineUpdatedAt = time.Now()
	return nil
}

func (m *ChargeLine) IsAttached() bool { return m.ChargeLineInvoiceID != nil }
