package services

import (
	"time"

	"hyperdrive/internal/models"

	"github.com/google/uuid"
)

// Routing keys of moderation events on the project_events exchange.
const (
	EventProjectCreated     = "project.created"
	EventProjectPublished   = "project.published"
	EventProjectUnpublished = "project.unpublished"
	EventProjectReported    = "project.reported"
)

// EventPublisher delivers serialized events. Implementations must be safe for
// concurrent use.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProjectEvent is the JSON body of every moderation event.
type ProjectEvent struct {
	Type         string               `json:"type"`
	ProjectID    uuid.UUID            `json:"project_id"`
	ActorUserID  *uint                `json:"actor_user_id,omitempty"`
	Status       models.ProjectStatus `json:"status,omitempty"`
	ReportsCount int                  `json:"reports_count,omitempty"`
	OccurredAt   time.Time            `json:"occurred_at"`
}
