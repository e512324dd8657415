package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/* ==============================
   Clients
============================== */

type ClientCreateDTO struct {
	ClientName               string  `json:"client_name" validate:"required,max=160"`
	ClientTaxID              *string `json:"client_tax_id,omitempty" validate:"omitempty,max=30"`
	ClientNRC                *string `json:"client_nrc,omitempty" validate:"omitempty,max=20"`
	ClientIsRetentionSubject bool    `json:"client_is_retention_subject"`
	ClientEmail              *string `json:"client_email,omitempty" validate:"omitempty,email"`
	ClientPhone              *string `json:"client_phone,omitempty" validate:"omitempty,max=30"`
	ClientAddress            *string `json:"client_address,omitempty"`
}

type ClientUpdateDTO struct {
	ClientName               *string `json:"client_name,omitempty" validate:"omitempty,max=160"`
	ClientTaxID              *string `json:"client_tax_id,omitempty" validate:"omitempty,max=30"`
	ClientNRC                *string `json:"client_nrc,omitempty" validate:"omitempty,max=20"`
	ClientIsRetentionSubject *bool   `json:"client_is_retention_subject,omitempty"`
	ClientEmail              *string `json:"client_email,omitempty" validate:"omitempty,email"`
	ClientPhone              *string `json:"client_phone,omitempty" validate:"omitempty,max=30"`
	ClientAddress            *string `json:"client_address,omitempty"`
}

/* ==============================
   Providers
============================== */

type ProviderCreateDTO struct {
	ProviderName         string     `json:"provider_name" validate:"required,max=160"`
	ProviderTaxID        *string    `json:"provider_tax_id,omitempty" validate:"omitempty,max=30"`
	ProviderBankID       *uuid.UUID `json:"provider_bank_id,omitempty"`
	ProviderBankAccount  *string    `json:"provider_bank_account,omitempty" validate:"omitempty,max=40"`
	ProviderContactEmail *string    `json:"provider_contact_email,omitempty" validate:"omitempty,email"`
	ProviderContactPhone *string    `json:"provider_contact_phone,omitempty" validate:"omitempty,max=30"`
}

type ProviderUpdateDTO struct {
	ProviderName         *string    `json:"provider_name,omitempty" validate:"omitempty,max=160"`
	ProviderTaxID        *string    `json:"provider_tax_id,omitempty" validate:"omitempty,max=30"`
	ProviderBankID       *uuid.UUID `json:"provider_bank_id,omitempty"`
	ProviderBankAccount  *string    `json:"provider_bank_account,omitempty" validate:"omitempty,max=40"`
	ProviderContactEmail *string    `json:"provider_contact_email,omitempty" validate:"omitempty,email"`
	ProviderContactPhone *string    `json:"provider_contact_phone,omitempty" validate:"omitempty,max=30"`
}

/* ==============================
   Services
============================== */

type ServiceCreateDTO struct {
	ServiceName                string          `json:"service_name" validate:"required,max=160"`
	ServiceBasePrice           decimal.Decimal `json:"service_base_price"`
	ServiceDefaultTaxTreatment string          `json:"service_default_tax_treatment" validate:"omitempty,oneof=taxed not_subject exempt"`
	ServiceIsActive            *bool           `json:"service_is_active,omitempty"`
}

type ServiceUpdateDTO struct {
	ServiceName                *string          `json:"service_name,omitempty" validate:"omitempty,max=160"`
	ServiceBasePrice           *decimal.Decimal `json:"service_base_price,omitempty"`
	ServiceDefaultTaxTreatment *string          `json:"service_default_tax_treatment,omitempty" validate:"omitempty,oneof=taxed not_subject exempt"`
	ServiceIsActive            *bool            `json:"service_is_active,omitempty"`
}

/* ==============================
   Banks
============================== */

type BankCreateDTO struct {
	BankName    string  `json:"bank_name" validate:"required,max=120"`
	BankAccount *string `json:"bank_account,omitempty" validate:"omitempty,max=40"`
}

type BankUpdateDTO struct {
	BankName    *string `json:"bank_name,omitempty" validate:"omitempty,max=120"`
	BankAccount *string `json:"bank_account,omitempty" validate:"omitempty,max=40"`
}
