package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"aduanet_backend/internals/constants"
)

// Service is a catalog entry for a brokerage service: base price and
// default tax treatment are just suggestions copied onto new lines.
type Service struct {
	ServiceID uuid.UUID `gorm:"column:service_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"service_id"`

	ServiceName      string          `gorm:"column:service_name;type:varchar(160);not null;index" json:"service_name"`
	ServiceBasePrice decimal.Decimal `gorm:"column:service_base_price;type:numeric(14,2);not null;default:0" json:"service_base_price"`

	ServiceDefaultTaxTreatment string `gorm:"column:service_default_tax_treatment;type:varchar(20);not null;default:'taxed'" json:"service_default_tax_treatment"`

	ServiceIsActive bool `gorm:"column:service_is_active;not null;default:true;index" json:"service_is_active"`

	ServiceCreatedAt time.Time      `gorm:"column:service_created_at;type:timestamptz;not null;default:now()" json:"service_created_at"`
	ServiceUpdatedAt time.Time      `gorm:"column:service_updated_at;type:timestamptz;not null;default:now()" json:"service_updated_at"`
	ServiceDeletedAt gorm.DeletedAt `gorm:"column:service_deleted_at;type:timestamptz;index" json:"-"`
}

func (Service) TableName() string { return "services" }

func (m *Service) BeforeCreate(tx *gorm.DB) error {
	if !constants.ValidTaxTreatment(m.ServiceDefaultTaxTreatment) {
		m.ServiceDefaultTaxTreatment = constants.TaxTreatmentTaxed
	}
	return nil
}

func (m *Service) BeforeUpdate(tx *gorm.DB) error {
	m.ServiceUpdatedAt = time.Now()
	return nil
}
