package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records an action taken against an entity. Rows are written by the
// event consumer, never by request handlers.
type AuditLog struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ActorUserID *uint          `json:"actor_user_id,omitempty" gorm:"index"`
	Action      string         `json:"action" gorm:"type:varchar(64);not null"`
	EntityType  string         `json:"entity_type" gorm:"type:varchar(64);not null"`
	EntityID    string         `json:"entity_id" gorm:"type:varchar(64);not null;index"`
	Payload     datatypes.JSON `json:"payload,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

