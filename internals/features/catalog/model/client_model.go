package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is the billable party. The core only reads its id and the
// retention flag; everything else is back-office reference data with
// last-write-wins semantics.
type Client struct {
	ClientID uuid.UUID `gorm:"column:client_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"client_id"`

	ClientName  string  `gorm:"column:client_name;type:varchar(160);not null;index" json:"client_name"`
	ClientTaxID *string `gorm:"column:client_tax_id;type:varchar(30)" json:"client_tax_id,omitempty"`
	ClientNRC   *string `gorm:"column:client_nrc;type:varchar(20)" json:"client_nrc,omitempty"`

	// big-taxpayer flag: drives invoice retention
	ClientIsRetentionSubject bool `gorm:"column:client_is_retention_subject;not null;default:false" json:"client_is_retention_subject"`

	ClientEmail   *string `gorm:"column:client_email;type:varchar(120)" json:"client_email,omitempty"`
	ClientPhone   *string `gorm:"column:client_phone;type:varchar(30)" json:"client_phone,omitempty"`
	ClientAddress *string `gorm:"column:client_address;type:text" json:"client_address,omitempty"`

	ClientCreatedAt time.Time      `gorm:"column:client_created_at;type:timestamptz;not null;default:now()" json:"client_created_at"`
	ClientUpdatedAt time.Time      `gorm:"column:client_updated_at;type:timestamptz;not null;default:now()" json:"client_updated_at"`
	ClientDeletedAt gorm.DeletedAt `gorm:"column:client_deleted_at;type:timestamptz;index" json:"-"`
}

func (Client) TableName() string { return "clients" }

func (m *Client) BeforeUpdate(tx *gorm.DB) error {
	m.ClientUpdatedAt = time.Now()
	return nil
}
