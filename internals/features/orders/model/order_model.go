package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ==============================
   ENUM: order status
============================== */

type OrderStatus string

const (
	OrderStatusOpen   OrderStatus = "open"
	OrderStatusClosed OrderStatus = "closed"
)

// Order is a customs service order. A closed order rejects new
// chargeable lines and line mutation; its number is assigned once from
// the per-year sequence and never changes.
type Order struct {
	OrderID uuid.UUID `gorm:"column:order_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"order_id"`

	OrderNumber   string    `gorm:"column:order_number;type:varchar(20);not null;uniqueIndex" json:"order_number"`
	OrderClientID uuid.UUID `gorm:"column:order_client_id;type:uuid;not null;index" json:"order_client_id"`

	OrderStatus      OrderStatus `gorm:"column:order_status;type:varchar(10);not null;default:'open';index" json:"order_status"`
	OrderDescription *string     `gorm:"column:order_description;type:text" json:"order_description,omitempty"`

	// customs reference data, opaque to the billing core
	OrderCustomsDeclaration *string    `gorm:"column:order_customs_declaration;type:varchar(40)" json:"order_customs_declaration,omitempty"`
	OrderOpenedAt           time.Time  `gorm:"column:order_opened_at;type:timestamptz;not null;default:now()" json:"order_opened_at"`
	OrderClosedAt           *time.Time `gorm:"column:order_closed_at;type:timestamptz" json:"order_closed_at,omitempty"`

	OrderCreatedAt time.Time      `gorm:"column:order_created_at;type:timestamptz;not null;default:now();index" json:"order_created_at"`
	OrderUpdatedAt time.Time      `gorm:"column:order_updated_at;type:timestamptz;not null;default:now()" json:"order_updated_at"`
	OrderDeletedAt gorm.DeletedAt `gorm:"column:order_deleted_at;type:timestamptz;index" json:"-"`
}

func (Order) TableName() string { return "orders" }

func (m *Order) BeforeUpdate(tx *gorm.DB) error {
	m.OrderUpdatedAt = time.Now()
	return nil
}

func (m *Order) IsOpen() bool { return m.OrderStatus == OrderStatusOpen }
