package service

import (
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "aduanet_backend/internals/features/audit/model"
)

// Recorder writes audit rows. Record runs on the caller's transaction so
// a rolled-back mutation never leaves an audit trace.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Record(tx *gorm.DB, actorID uuid.UUID, action, entity string, entityID uuid.UUID, payload map[string]any) error {
	var js datatypes.JSON
	if payload != nil {
		b, err := sonic.Marshal(payload)
		if err != nil {
			return err
		}
		js = datatypes.JSON(b)
	}
	return tx.Create(&model.AuditLog{
		AuditLogActorID:  actorID,
		AuditLogAction:   action,
		AuditLogEntity:   entity,
		AuditLogEntityID: entityID,
		AuditLogPayload:  js,
	}).Error
}

/* ===============================
   After-commit notifications
=================================*/

// Event is what the document/notification collaborators receive after a
// core transaction commits. Delivery is fire-and-forget.
type Event struct {
	Name     string    `json:"name"`
	Entity   string    `json:"entity"`
	EntityID uuid.UUID `json:"entity_id"`
}

type Notifier interface {
	Notify(ev Event)
}

// LogNotifier is the default sink: it only logs. External deliveries
// hang off this interface without the core depending on their success.
type LogNotifier struct{}

func (LogNotifier) Notify(ev Event) {
	go log.Printf("[EVENT] %s %s id=%s", ev.Name, ev.Entity, ev.EntityID)
}
