package dto

import (
	"github.com/google/uuid"
)

type OrderCreateDTO struct {
	OrderClientID           uuid.UUID `json:"order_client_id" validate:"required"`
	OrderDescription        *string   `json:"order_description,omitempty"`
	OrderCustomsDeclaration *string   `json:"order_customs_declaration,omitempty" validate:"omitempty,max=40"`
}

type OrderUpdateDTO struct {
	OrderDescription        *string `json:"order_description,omitempty"`
	OrderCustomsDeclaration *string `json:"order_customs_declaration,omitempty" validate:"omitempty,max=40"`
}
