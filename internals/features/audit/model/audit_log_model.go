package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is append-only: one row per successful core mutation, written
// inside the same transaction, with the acting user passed in explicitly.
type AuditLog struct {
	AuditLogID uuid.UUID `gorm:"column:audit_log_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"audit_log_id"`

	AuditLogActorID uuid.UUID `gorm:"column:audit_log_actor_id;type:uuid;not null;index" json:"audit_log_actor_id"`
	AuditLogAction  string    `gorm:"column:audit_log_action;type:varchar(60);not null;index" json:"audit_log_action"`

	AuditLogEntity   string    `gorm:"column:audit_log_entity;type:varchar(40);not null;index" json:"audit_log_entity"`
	AuditLogEntityID uuid.UUID `gorm:"column:audit_log_entity_id;type:uuid;not null;index" json:"audit_log_entity_id"`

	AuditLogPayload datatypes.JSON `gorm:"column:audit_log_payload;type:jsonb" json:"audit_log_payload,omitempty"`

	AuditLogCreatedAt time.Time `gorm:"column:audit_log_created_at;type:timestamptz;not null;default:now();index" json:"audit_log_created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
