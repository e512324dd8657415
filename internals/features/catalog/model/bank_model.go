package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bank struct {
	BankID uuid.UUID `gorm:"column:bank_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"bank_id"`

	BankName    string  `gorm:"column:bank_name;type:varchar(120);not null;index" json:"bank_name"`
	BankAccount *string `gorm:"column:bank_account;type:varchar(40)" json:"bank_account,omitempty"`

	BankCreatedAt time.Time      `gorm:"column:bank_created_at;type:timestamptz;not null;default:now()" json:"bank_created_at"`
	BankUpdatedAt time.Time      `gorm:"column:bank_updated_at;type:timestamptz;not null;default:now()" json:"bank_updated_at"`
	BankDeletedAt gorm.DeletedAt `gorm:"column:bank_deleted_at;type:timestamptz;index" json:"-"`
}

func (Bank) TableName() string { return "banks" }

func (m *Bank) BeforeUpdate(tx *gorm.DB) error {
	m.BankUpdatedAt = time.Now()
	return nil
}
