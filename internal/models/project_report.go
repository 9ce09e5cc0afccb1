package models

import (
	"time"

	"github.com/google/uuid"
)

// ProjectReport is one abuse report against a project. Append-only.
type ProjectReport struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ProjectID      uuid.UUID `json:"project_id" gorm:"type:uuid;not null;index"`
	ReporterUserID *uint     `json:"reporter_user_id,omitempty" gorm:"index"`
	Reason         *string   `json:"reason,omitempty" gorm:"type:varchar(200)"`
	CreatedAt      time.Time `json:"created_at"`
}
