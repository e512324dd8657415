package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ChargeLineCreateDTO struct {
	ChargeLineOrderID   uuid.UUID  `json:"charge_line_order_id" validate:"required"`
	ChargeLineServiceID *uuid.UUID `json:"charge_line_service_id,omitempty"`

	ChargeLineDescription string `json:"charge_line_description" validate:"omitempty,max=200"`

	ChargeLineQuantity     int              `json:"charge_line_quantity" validate:"required,min=1"`
	ChargeLineUnitPrice    *decimal.Decimal `json:"charge_line_unit_price,omitempty"`
	ChargeLineDiscountPct  decimal.Decimal  `json:"charge_line_discount_pct"`
	ChargeLineTaxTreatment string           `json:"charge_line_tax_treatment" validate:"omitempty,oneof=taxed not_subject exempt"`
}

type ChargeLineUpdateDTO struct {
	ChargeLineDescription  *string          `json:"charge_line_description,omitempty" validate:"omitempty,max=200"`
	ChargeLineQuantity     *int             `json:"charge_line_quantity,omitempty" validate:"omitempty,min=1"`
	ChargeLineUnitPrice    *decimal.Decimal `json:"charge_line_unit_price,omitempty"`
	ChargeLineDiscountPct  *decimal.Decimal `json:"charge_line_discount_pct,omitempty"`
	ChargeLineTaxTreatment *string          `json:"charge_line_tax_treatment,omitempty" validate:"omitempty,oneof=taxed not_subject exempt"`
}
