package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Provider struct {
	ProviderID uuid.UUID `gorm:"column:provider_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"provider_id"`

	ProviderName  string  `gorm:"column:provider_name;type:varchar(160);not null;index" json:"provider_name"`
	ProviderTaxID *string `gorm:"column:provider_tax_id;type:varchar(30)" json:"provider_tax_id,omitempty"`

	ProviderBankID        *uuid.UUID `gorm:"column:provider_bank_id;type:uuid;index" json:"provider_bank_id,omitempty"`
	ProviderBankAccount   *string    `gorm:"column:provider_bank_account;type:varchar(40)" json:"provider_bank_account,omitempty"`
	ProviderContactEmail  *string    `gorm:"column:provider_contact_email;type:varchar(120)" json:"provider_contact_email,omitempty"`
	ProviderContactPhone  *string    `gorm:"column:provider_contact_phone;type:varchar(30)" json:"provider_contact_phone,omitempty"`

	ProviderCreatedAt time.Time      `gorm:"column:provider_created_at;type:timestamptz;not null;default:now()" json:"provider_created_at"`
	ProviderUpdatedAt time.Time      `gorm:"column:provider_updated_at;type:timestamptz;not null;default:now()" json:"provider_updated_at"`
	ProviderDeletedAt gorm.DeletedAt `gorm:"column:provider_deleted_at;type:timestamptz;index" json:"-"`
}

func (Provider) TableName() string { return "providers" }

func (m *Provider) BeforeUpdate(tx *gorm.DB) error {
	m.ProviderUpdatedAt = time.Now()
	return nil
}
